// Package bookings loads the ride-booking dataset and turns it into the
// enriched, immutable table every dashboard view reads from.
//
// # Architecture
//
// Loading happens in two steps:
//
// 1. Loader: reads a CSV file, an XLSX workbook or a Google Sheets range and
// decodes rows by header name into RawRecords
// 2. Deriver: parses Date and Time, fills missing numerics and computes the
// calendar fields (year, month, weekday, hour, weekend flag, date-only)
//
// # Usage
//
//	loader := bookings.NewLoader(logger)
//	raw, err := loader.Load(ctx, "data/ncr_ride_bookings.csv")
//	if err != nil {
//	    return err // ErrDataUnavailable or ErrSchemaMismatch
//	}
//	table, err := bookings.Derive(raw)
//
// # Error Handling
//
// Both steps fail fast. A missing source wraps ErrDataUnavailable; absent
// columns or an unparseable Date/Time/numeric cell wrap ErrSchemaMismatch.
// There is no partial result.
package bookings
