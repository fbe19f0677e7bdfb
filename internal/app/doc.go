// Package app wires the RidePulse dashboard server together and manages its
// lifecycle.
//
// # Initialization Flow
//
//  1. Load configuration from defaults, the optional YAML file and RIDEPULSE_* env
//  2. Initialize logging and OpenTelemetry, then the business metrics
//  3. Build the booking loader, with a Google Sheets client when credentials are set
//  4. Create the session store, the dashboard service and the websocket hub
//  5. Load the configured dataset; a failure leaves the server up but not ready
//  6. Set up middleware and routes, then the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication(ctx)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Graceful Shutdown
//
// Run handles SIGINT and SIGTERM. Stop drains in-flight requests, closes
// every websocket client through the hub and flushes telemetry.
//
// # Error Handling
//
// Initialization errors are returned to the caller. The package never calls
// os.Exit.
package app
