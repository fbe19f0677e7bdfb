package dashboard

import (
	"ridepulse/pkg/contracts/domain"
)

// summarizeCancellations reduces a subset into the CANCELLATION KPIs and series
func summarizeCancellations(s *Subset) domain.CancellationSummary {
	var (
		summary         domain.CancellationSummary
		customerReasons []string
		driverReasons   []string
		byDate          = newGroups[int64, int]()
		byHour          = newGroups[int, int]()
		lostByVehicle   = newGroups[string, float64]()
	)

	s.Each(func(b domain.Booking) {
		summary.Total++
		switch b.Status {
		case domain.StatusCompleted:
			summary.Completed++
		case domain.StatusCancelledByCustomer:
			summary.CancelledByCustomer++
			customerReasons = append(customerReasons, b.CustomerCancelReason)
		case domain.StatusCancelledByDriver:
			summary.CancelledByDriver++
			driverReasons = append(driverReasons, b.DriverCancelReason)
		}

		if b.IsCancelled() {
			summary.RevenueLost += b.BookingValue
			*byDate.at(dayKey(b.DateOnly))++
			*byHour.at(b.Hour)++
			sumInto(lostByVehicle, b.VehicleType, b.BookingValue)
		}
	})

	summary.Cancelled = summary.Total - summary.Completed
	summary.CancellationRatePct = percent(float64(summary.Cancelled), float64(summary.Total))

	summary.CustomerReasons = []domain.ReasonCount{}
	if summary.CancelledByCustomer > 0 {
		summary.CustomerReasons = valueCounts(customerReasons)
	}
	summary.DriverReasons = []domain.ReasonCount{}
	if summary.CancelledByDriver > 0 {
		summary.DriverReasons = valueCounts(driverReasons)
	}

	summary.CancellationsByDate = make([]domain.DatedValue, 0, len(byDate.order))
	for _, key := range byDate.sorted() {
		summary.CancellationsByDate = append(summary.CancellationsByDate,
			domain.DatedValue{Date: dateOf(key), Value: float64(*byDate.at(key))})
	}

	summary.CancellationsByHour = make([]domain.HourValue, 0, len(byHour.order))
	for _, h := range byHour.sorted() {
		summary.CancellationsByHour = append(summary.CancellationsByHour,
			domain.HourValue{Hour: h, Value: float64(*byHour.at(h))})
	}

	summary.RevenueLostByVehicle = sumsByKey(lostByVehicle)
	return summary
}
