package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ridepulse/internal/bookings"
	"ridepulse/internal/shared/testutil"
	"ridepulse/pkg/contracts/domain"
)

var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// datasetOf runs rows through the real loader and deriver
func datasetOf(t *testing.T, rows ...testutil.BookingRow) *Dataset {
	t.Helper()

	fixtures := testutil.NewBookingFixtures(t.TempDir())
	path, err := fixtures.WriteCSV("bookings.csv", rows...)
	require.NoError(t, err)

	logger, _ := testutil.NewTestLogger(t)
	raw, err := bookings.NewLoader(logger).Load(context.Background(), path)
	require.NoError(t, err)

	table, err := bookings.Derive(raw)
	require.NoError(t, err)
	return NewDataset(table)
}

func rangeOf(start, end string) domain.Filters {
	return domain.Filters{Start: domain.MustParseDate(start), End: domain.MustParseDate(end)}
}

func render(t *testing.T, ds *Dataset, view domain.View, f domain.Filters) *domain.ViewModel {
	t.Helper()
	vm, err := Render(RenderState{View: view, Filters: f}, ds)
	require.NoError(t, err)
	return vm
}

func withCustomer(r testutil.BookingRow, id string) testutil.BookingRow {
	r.CustomerID = id
	return r
}

func withRatings(r testutil.BookingRow, customer, driver string) testutil.BookingRow {
	r.CustomerRating = customer
	r.DriverRating = driver
	return r
}
