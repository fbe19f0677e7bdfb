// Package shared groups helpers that do not belong to a domain package.
//
// The testutil subpackage holds the booking dataset fixtures (CSV and XLSX
// writers, a six-row sample spanning January and February 2024) and a slog
// handler that routes log output through testing.T:
//
//	func TestRender(t *testing.T) {
//	    path, err := testutil.NewBookingFixtures(t.TempDir()).
//	        WriteCSV("bookings.csv", testutil.SampleRows()...)
//	    require.NoError(t, err)
//	    logger, _ := testutil.NewTestLogger(t)
//	    ...
//	}
//
// Nothing under shared may import a domain package.
package shared
