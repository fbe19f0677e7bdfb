package dashboard

import (
	"cmp"
	"math"
	"slices"

	"ridepulse/pkg/contracts/domain"
)

// rankGroupSize is the length of the top and bottom vehicle groups
const rankGroupSize = 5

type dailyRatingAcc struct {
	customer meanAcc
	driver   meanAcc
}

type bookingAcc struct {
	value  meanAcc
	rating meanAcc
}

// summarizeRatings reduces a subset into the RATINGS KPIs and series
func summarizeRatings(s *Subset) domain.RatingsSummary {
	var (
		customer  meanAcc
		driver    meanAcc
		custVals  = make([]float64, 0, s.Len())
		drvVals   = make([]float64, 0, s.Len())
		daily     = newGroups[int64, dailyRatingAcc]()
		byVehicle = newGroups[string, meanAcc]()
		byBooking = newGroups[string, bookingAcc]()
	)

	s.Each(func(b domain.Booking) {
		customer.add(b.CustomerRating)
		driver.add(b.DriverRating)
		custVals = append(custVals, b.CustomerRating)
		drvVals = append(drvVals, b.DriverRating)

		day := daily.at(dayKey(b.DateOnly))
		day.customer.add(b.CustomerRating)
		day.driver.add(b.DriverRating)

		if b.VehicleType != "" {
			byVehicle.at(b.VehicleType).add(b.CustomerRating)
		}
		if b.BookingID != "" {
			bk := byBooking.at(b.BookingID)
			bk.value.add(b.BookingValue)
			bk.rating.add(b.CustomerRating)
		}
	})

	avgCustomer := round2(customer.mean())
	avgDriver := round2(driver.mean())

	dailyRatings := make([]domain.DailyRating, 0, len(daily.order))
	for _, key := range daily.sorted() {
		acc := daily.at(key)
		dailyRatings = append(dailyRatings, domain.DailyRating{
			Date:           dateOf(key),
			CustomerRating: acc.customer.mean(),
			DriverRating:   acc.driver.mean(),
		})
	}

	scatter := make([]domain.BookingPoint, 0, len(byBooking.order))
	for _, id := range byBooking.order {
		acc := byBooking.at(id)
		scatter = append(scatter, domain.BookingPoint{
			BookingID:       id,
			AvgBookingValue: acc.value.mean(),
			AvgRating:       acc.rating.mean(),
		})
	}

	return domain.RatingsSummary{
		AvgCustomerRating: avgCustomer,
		AvgDriverRating:   avgDriver,
		RatingGap:         round2(avgCustomer - avgDriver),
		Distribution:      ratingDistribution(custVals, drvVals),
		DailyRatings:      dailyRatings,
		VehicleRanking:    rankVehicles(byVehicle),
		BookingScatter:    scatter,
	}
}

// ratingDistribution buckets both rating columns over one shared set of bins
func ratingDistribution(customer, driver []float64) domain.RatingDistribution {
	lo, hi, ok := valueRange(customer, driver)
	if !ok {
		return domain.RatingDistribution{Customer: []domain.HistogramBin{}, Driver: []domain.HistogramBin{}}
	}
	start, width := histogramEdges(lo, hi, histogramBins)
	return domain.RatingDistribution{
		Customer: histogram(customer, start, width, histogramBins),
		Driver:   histogram(driver, start, width, histogramBins),
	}
}

// rankVehicles orders vehicle types by mean customer rating, highest first with
// alphabetical ties, and keeps the first and last rankGroupSize. A type in both
// groups is listed once.
func rankVehicles(byVehicle *groups[string, meanAcc]) []domain.VehicleRating {
	ranked := make([]domain.VehicleRating, 0, len(byVehicle.order))
	for _, name := range byVehicle.sorted() {
		ranked = append(ranked, domain.VehicleRating{VehicleType: name, Rating: byVehicle.at(name).mean()})
	}
	slices.SortStableFunc(ranked, func(a, b domain.VehicleRating) int {
		return cmp.Compare(b.Rating, a.Rating)
	})
	if len(ranked) == 0 {
		return ranked
	}

	top := ranked[:min(rankGroupSize, len(ranked))]
	threshold := math.Inf(1)
	for _, v := range top {
		threshold = math.Min(threshold, v.Rating)
	}

	picked := append(slices.Clone(top), ranked[max(len(ranked)-rankGroupSize, len(top)):]...)
	for i := range picked {
		picked[i].Performance = domain.PerformanceBottom
		if picked[i].Rating >= threshold {
			picked[i].Performance = domain.PerformanceTop
		}
	}
	return picked
}
