package exporter

import "ridepulse/pkg/contracts/domain"

func sampleViewModel() *domain.ViewModel {
	return &domain.ViewModel{
		View: domain.ViewVehicleType,
		Range: domain.DateRange{
			Start: domain.MustParseDate("2024-01-01"),
			End:   domain.MustParseDate("2024-01-31"),
		},
		RowCount: 3,
		Cards: []domain.KPICard{
			{Key: "total_booking_value", Title: "Total Booking Value", Value: 430, Unit: "INR"},
			{Key: "avg_distance", Title: "Avg Distance", Value: 10, Unit: "km"},
		},
		Charts: []domain.ChartSpec{
			{
				ID:   "revenue_share",
				Type: domain.ChartDonut,
				Series: []domain.ChartSeries{{
					Name: "Revenue Share",
					Points: []domain.ChartPoint{
						{Label: "auto", Value: 200},
						{Label: "go sedan", Value: 150},
					},
				}},
			},
			{
				ID:   "revenue_vs_distance",
				Type: domain.ChartBubble,
				Series: []domain.ChartSeries{{
					Name:   "Vehicle Type",
					Points: []domain.ChartPoint{{Label: "auto", X: 10, Value: 200, Size: 1}},
				}},
			},
		},
		Tables: []domain.TableSpec{{
			ID:      "vehicle_breakdown",
			Title:   "Vehicle Breakdown",
			Columns: []string{"Vehicle Type", "Rides", "Total Value"},
			Rows: [][]string{
				{"auto", "1", "200.00"},
				{"go sedan", "1", "150.00"},
			},
		}},
	}
}
