package dashboard

import (
	"ridepulse/pkg/contracts/domain"
)

type vehicleAcc struct {
	rides    int
	value    float64
	distance float64
}

// summarizeVehicles groups a subset by vehicle type, sorted by type name.
// Headline averages are means of the per-type means. Rows without a vehicle
// type belong to no group and so to no total.
func summarizeVehicles(s *Subset) domain.VehicleTypeSummary {
	byType := newGroups[string, vehicleAcc]()
	s.Each(func(b domain.Booking) {
		if b.VehicleType == "" {
			return
		}
		acc := byType.at(b.VehicleType)
		acc.rides++
		acc.value += b.BookingValue
		acc.distance += b.RideDistance
	})

	summary := domain.VehicleTypeSummary{Vehicles: []domain.VehicleAggregate{}}
	var avgValue, avgDistance meanAcc
	for _, name := range byType.sorted() {
		acc := byType.at(name)
		agg := domain.VehicleAggregate{
			VehicleType:       name,
			Rides:             acc.rides,
			TotalBookingValue: acc.value,
			TotalDistance:     acc.distance,
			AvgBookingValue:   ratio(acc.value, float64(acc.rides)),
			AvgDistance:       ratio(acc.distance, float64(acc.rides)),
		}
		summary.Vehicles = append(summary.Vehicles, agg)

		summary.TotalBookingValue += agg.TotalBookingValue
		summary.TotalDistance += agg.TotalDistance
		avgValue.add(agg.AvgBookingValue)
		avgDistance.add(agg.AvgDistance)
	}

	for i := range summary.Vehicles {
		summary.Vehicles[i].RevenueSharePct = percent(summary.Vehicles[i].TotalBookingValue, summary.TotalBookingValue)
	}
	summary.AvgBookingValue = avgValue.mean()
	summary.AvgDistance = avgDistance.mean()
	return summary
}
