// Package dashboard turns the enriched booking table into chart-ready view
// models for the five dashboard views.
//
// # Pipeline
//
// Every interaction runs the same three steps against an immutable Dataset:
//
//	1. Resolve the view's filters (default date range, accepted filters)
//	2. Select the matching rows through the roaring-bitmap Index
//	3. Reduce the Subset with the view's aggregator and present it
//
// Subsets keep row ordinals in ascending order, so every "ties by encounter
// order" rule simply follows iteration order.
//
// # Usage
//
//	ds := dashboard.NewDataset(table)
//	vm, err := dashboard.Render(dashboard.RenderState{
//	    View:    domain.ViewRevenue,
//	    Filters: domain.Filters{Start: domain.MustParseDate("2024-01-01")},
//	}, ds)
//
// # Totality
//
// Reductions never fail. Empty selections yield zero counts and sums. A mean
// or rate with a zero denominator is 0. Weekdays, months and the overview
// hours are always zero-filled. Render only fails for an unknown
// view or for categorical filters sent to a view that ignores them.
package dashboard
