// Package services implements the application layer between the HTTP and
// websocket transports and the dashboard pipeline.
//
// # Services
//
//	- DashboardService: owns the active booking dataset and the session
//	  store; renders views, exports them and drives session interactions
//	- HealthService: liveness, readiness and version reporting
//
// # Dataset lifecycle
//
// LoadDataset reads a source with the bookings loader, derives the enriched
// table and indexes it. The swap happens under a write lock; renders hold a
// read lock only long enough to pick up the current dataset, so a reload never
// blocks on a slow render and a render never sees a half-built index.
//
//	svc := services.NewDashboardService(loader, store, logger,
//	    services.WithMetrics(metrics),
//	    services.WithLoadTimeout(cfg.Dataset.LoadTimeout))
//	if _, err := svc.LoadDataset(ctx, cfg.Dataset.Source); err != nil {
//	    return err
//	}
//
// # Errors
//
// Operations return the sentinel errors of the bookings, dashboard and
// session packages, plus errors.ErrDatasetNotLoaded before the first load and
// errors.ErrUnsupportedFormat for unknown export formats. Handlers translate
// them with errors.ErrorHandler.
//
// # Observability
//
// Each render runs in a "dashboard.render" span and is counted in
// dashboard_renders_total, dashboard_render_duration_seconds and, when the
// filters select nothing, dashboard_empty_selections_total.
package services
