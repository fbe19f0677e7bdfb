// Package exporter writes rendered dashboard views to CSV and Excel files.
//
// # CSV
//
// A view model is flattened into a long-format table with one row per KPI
// card, chart point and table cell:
//
//	section,item,label,x,value,size,unit
//	kpi,total_revenue,Total Revenue,,960.00,,INR
//	bookings_by_hour,Bookings,18,,2.00,,
//
// CSVWriter writes that table to disk with a UTF-8 BOM so Excel detects the
// encoding. EncodeCSV writes any header and records to an io.Writer for HTTP
// downloads.
//
// # Excel
//
// WriteViewXLSX produces one workbook per view: a "KPIs" sheet followed by
// one sheet per chart and per table. WriteWorkbookXLSX places several views
// in a single workbook, one long-format sheet per view.
//
// Example usage:
//
//	vm, err := dashboard.Render(state, ds)
//	if err != nil {
//		return err
//	}
//	w := exporter.NewCSVWriter("exports", logger)
//	err = w.WriteView("revenue.csv", vm)
package exporter
