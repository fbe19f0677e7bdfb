package testutil

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// BookingHeader is the source header row in its canonical column order
var BookingHeader = []string{
	"Date", "Time", "Booking ID", "Booking Status", "Vehicle Type",
	"Ride Distance", "Booking Value", "Driver Ratings", "Customer Rating",
	"Payment Method", "Customer ID", "Reason for cancelling by Customer",
	"Driver Cancellation Reason",
}

// BookingRow is one source row as text, exactly as it would appear in a file
type BookingRow struct {
	Date           string
	Time           string
	BookingID      string
	Status         string
	VehicleType    string
	RideDistance   string
	BookingValue   string
	DriverRating   string
	CustomerRating string
	PaymentMethod  string
	CustomerID     string
	CustomerReason string
	DriverReason   string
}

// Cells returns the row in BookingHeader order
func (r BookingRow) Cells() []string {
	return []string{
		r.Date, r.Time, r.BookingID, r.Status, r.VehicleType,
		r.RideDistance, r.BookingValue, r.DriverRating, r.CustomerRating,
		r.PaymentMethod, r.CustomerID, r.CustomerReason, r.DriverReason,
	}
}

// CompletedRide builds a completed booking with typical ratings
func CompletedRide(id, date, clock, vehicle string, value float64) BookingRow {
	return BookingRow{
		Date:           date,
		Time:           clock,
		BookingID:      id,
		Status:         "Completed",
		VehicleType:    vehicle,
		RideDistance:   "10",
		BookingValue:   fmt.Sprintf("%g", value),
		DriverRating:   "4.5",
		CustomerRating: "4.5",
		PaymentMethod:  "UPI",
		CustomerID:     "CID-" + id,
	}
}

// CancelledRide builds a cancelled booking; status must be one of the cancellation statuses
func CancelledRide(id, date, clock, vehicle, status, reason string, value float64) BookingRow {
	r := BookingRow{
		Date:          date,
		Time:          clock,
		BookingID:     id,
		Status:        status,
		VehicleType:   vehicle,
		BookingValue:  fmt.Sprintf("%g", value),
		PaymentMethod: "Cash",
		CustomerID:    "CID-" + id,
	}
	if strings.Contains(status, "Driver") {
		r.DriverReason = reason
	} else {
		r.CustomerReason = reason
	}
	return r
}

// BookingFixtures writes booking datasets for loader and service tests
type BookingFixtures struct {
	TestDataDir string
}

// NewBookingFixtures creates a new fixtures manager
func NewBookingFixtures(testDataDir string) *BookingFixtures {
	return &BookingFixtures{
		TestDataDir: testDataDir,
	}
}

// BookingsCSV renders rows as CSV text with the canonical header
func BookingsCSV(rows ...BookingRow) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(BookingHeader)
	for _, r := range rows {
		_ = w.Write(r.Cells())
	}
	w.Flush()
	return buf.String()
}

// WriteCSV writes rows to name under the fixtures directory and returns the path
func (f *BookingFixtures) WriteCSV(name string, rows ...BookingRow) (string, error) {
	return f.WriteRaw(name, []byte(BookingsCSV(rows...)))
}

// WriteRaw writes arbitrary content to name under the fixtures directory
func (f *BookingFixtures) WriteRaw(name string, content []byte) (string, error) {
	if err := os.MkdirAll(f.TestDataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	path := filepath.Join(f.TestDataDir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write fixture: %w", err)
	}
	return path, nil
}

// WriteXLSX writes rows to a workbook. A leading "Notes" sheet without booking
// columns is added when withNotes is set so sheet discovery is exercised.
func (f *BookingFixtures) WriteXLSX(name string, withNotes bool, rows ...BookingRow) (string, error) {
	if err := os.MkdirAll(f.TestDataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	wb := excelize.NewFile()
	defer wb.Close()

	dataSheet := "Bookings"
	if withNotes {
		if err := wb.SetSheetName("Sheet1", "Notes"); err != nil {
			return "", err
		}
		if err := wb.SetCellValue("Notes", "A1", "exported bookings"); err != nil {
			return "", err
		}
		if _, err := wb.NewSheet(dataSheet); err != nil {
			return "", err
		}
	} else if err := wb.SetSheetName("Sheet1", dataSheet); err != nil {
		return "", err
	}

	grid := [][]string{BookingHeader}
	for _, r := range rows {
		grid = append(grid, r.Cells())
	}
	for i, cells := range grid {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return "", err
		}
		values := make([]interface{}, len(cells))
		for j, c := range cells {
			values[j] = c
		}
		if err := wb.SetSheetRow(dataSheet, cell, &values); err != nil {
			return "", err
		}
	}

	path := filepath.Join(f.TestDataDir, name)
	if err := wb.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

// CreateCorruptedFile writes a dataset that the loader must reject
func (f *BookingFixtures) CreateCorruptedFile(name, corruptionType string) (string, error) {
	var data string
	switch corruptionType {
	case "empty":
		data = ""
	case "missing_columns":
		data = "Date,Time,Booking ID\n2024-01-01,08:00:00,B1\n"
	case "bad_number":
		r := CompletedRide("B1", "2024-01-01", "08:00:00", "Auto", 100)
		r.BookingValue = "one hundred"
		data = BookingsCSV(r)
	case "bad_date":
		data = BookingsCSV(CompletedRide("B1", "first of january", "08:00:00", "Auto", 100))
	case "bad_time":
		data = BookingsCSV(CompletedRide("B1", "2024-01-01", "8am", "Auto", 100))
	default:
		return "", fmt.Errorf("unknown corruption type: %s", corruptionType)
	}
	return f.WriteRaw(name, []byte(data))
}

// SampleRows is a small mixed dataset spanning two months
func SampleRows() []BookingRow {
	return []BookingRow{
		CompletedRide("CNR1", "2024-01-01", "08:15:00", "Auto", 200),
		CompletedRide("CNR2", "2024-01-06", "09:30:00", "Go Sedan", 150),
		CancelledRide("CNR3", "2024-01-06", "18:05:00", "Bike", "Cancelled by Customer", "Change of plans", 0),
		CompletedRide("CNR4", "2024-01-07", "18:45:00", "eBike", 80),
		CancelledRide("CNR5", "2024-02-03", "22:10:00", "Auto", "Cancelled by Driver", "Vehicle issue", 120),
		CompletedRide("CNR6", "2024-02-14", "12:00:00", "Premier Sedan", 410),
	}
}

// CleanupTestData removes all fixture files
func (f *BookingFixtures) CleanupTestData() error {
	return os.RemoveAll(f.TestDataDir)
}
