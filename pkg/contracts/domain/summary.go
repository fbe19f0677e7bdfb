package domain

// LabeledValue is a categorical key with its aggregate
type LabeledValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// DatedValue is a calendar date with its aggregate
type DatedValue struct {
	Date  Date    `json:"date"`
	Value float64 `json:"value"`
}

// HourValue is an hour of day with its aggregate
type HourValue struct {
	Hour  int     `json:"hour"`
	Value float64 `json:"value"`
}

// HistogramBin is one equal-width bucket; Upper is exclusive except for the last bin
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// OverviewSummary holds the OVERVIEW reductions
type OverviewSummary struct {
	TotalBookings      int            `json:"total_bookings"`
	TotalRevenue       float64        `json:"total_revenue"`
	AvgRideDistance    float64        `json:"avg_ride_distance"`
	AvgBookingValue    float64        `json:"avg_booking_value"`
	AvgHourlyBookings  float64        `json:"avg_hourly_bookings"`
	WeekendSharePct    float64        `json:"weekend_share_pct"`
	BookingsByHour     []HourValue    `json:"bookings_by_hour"`
	BookingsByWeekday  []LabeledValue `json:"bookings_by_weekday"`
	DailyBookings      []DatedValue   `json:"daily_bookings"`
	DailyMovingAverage []DatedValue   `json:"daily_moving_average"`
}

// VehicleAggregate is the per-vehicle-type breakdown row
type VehicleAggregate struct {
	VehicleType       string  `json:"vehicle_type"`
	Rides             int     `json:"rides"`
	TotalBookingValue float64 `json:"total_booking_value"`
	TotalDistance     float64 `json:"total_distance"`
	AvgBookingValue   float64 `json:"avg_booking_value"`
	AvgDistance       float64 `json:"avg_distance"`
	RevenueSharePct   float64 `json:"revenue_share_pct"`
}

// VehicleTypeSummary holds the VEHICLE_TYPE reductions
type VehicleTypeSummary struct {
	TotalBookingValue float64            `json:"total_booking_value"`
	TotalDistance     float64            `json:"total_distance"`
	AvgBookingValue   float64            `json:"avg_booking_value"`
	AvgDistance       float64            `json:"avg_distance"`
	Vehicles          []VehicleAggregate `json:"vehicles"`
}

// CustomerTotal is a customer's summed booking value
type CustomerTotal struct {
	CustomerID string  `json:"customer_id"`
	Total      float64 `json:"total"`
}

// RevenueSummary holds the REVENUE reductions
type RevenueSummary struct {
	TotalRevenue     float64         `json:"total_revenue"`
	AvgBookingValue  float64         `json:"avg_booking_value"`
	TotalBookings    int             `json:"total_bookings"`
	RevenuePerRide   float64         `json:"revenue_per_ride"`
	PreviousRevenue  float64         `json:"previous_revenue"`
	GrowthPct        float64         `json:"growth_pct"`
	DailyRevenue     []DatedValue    `json:"daily_revenue"`
	MonthlyRevenue   []LabeledValue  `json:"monthly_revenue"`
	RevenueByVehicle []LabeledValue  `json:"revenue_by_vehicle"`
	RevenueByPayment []LabeledValue  `json:"revenue_by_payment"`
	ValueHistogram   []HistogramBin  `json:"value_histogram"`
	TopCustomers     []CustomerTotal `json:"top_customers"`
}

// ReasonCount is a cancellation reason with its frequency
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// CancellationSummary holds the CANCELLATION reductions
type CancellationSummary struct {
	Total                int            `json:"total"`
	Completed            int            `json:"completed"`
	Cancelled            int            `json:"cancelled"`
	CancellationRatePct  float64        `json:"cancellation_rate_pct"`
	CancelledByCustomer  int            `json:"cancelled_by_customer"`
	CancelledByDriver    int            `json:"cancelled_by_driver"`
	RevenueLost          float64        `json:"revenue_lost"`
	CustomerReasons      []ReasonCount  `json:"customer_reasons"`
	DriverReasons        []ReasonCount  `json:"driver_reasons"`
	CancellationsByDate  []DatedValue   `json:"cancellations_by_date"`
	CancellationsByHour  []HourValue    `json:"cancellations_by_hour"`
	RevenueLostByVehicle []LabeledValue `json:"revenue_lost_by_vehicle"`
}

// Performance labels for the vehicle rating ranking
const (
	PerformanceTop    = "Top 5"
	PerformanceBottom = "Bottom 5"
)

// VehicleRating is a vehicle type's mean customer rating and its ranking group
type VehicleRating struct {
	VehicleType string  `json:"vehicle_type"`
	Rating      float64 `json:"rating"`
	Performance string  `json:"performance"`
}

// DailyRating is the per-day mean of both rating columns
type DailyRating struct {
	Date           Date    `json:"date"`
	CustomerRating float64 `json:"customer_rating"`
	DriverRating   float64 `json:"driver_rating"`
}

// BookingPoint is one scatter datum grouped by booking ID
type BookingPoint struct {
	BookingID       string  `json:"booking_id"`
	AvgBookingValue float64 `json:"avg_booking_value"`
	AvgRating       float64 `json:"avg_customer_rating"`
}

// RatingDistribution buckets both rating columns over shared bins
type RatingDistribution struct {
	Customer []HistogramBin `json:"customer"`
	Driver   []HistogramBin `json:"driver"`
}

// RatingsSummary holds the RATINGS reductions
type RatingsSummary struct {
	AvgCustomerRating float64            `json:"avg_customer_rating"`
	AvgDriverRating   float64            `json:"avg_driver_rating"`
	RatingGap         float64            `json:"rating_gap"`
	Distribution      RatingDistribution `json:"rating_distribution"`
	DailyRatings      []DailyRating      `json:"daily_ratings"`
	VehicleRanking    []VehicleRating    `json:"vehicle_rating_rank"`
	BookingScatter    []BookingPoint     `json:"booking_scatter"`
}
