package errors

import "errors"

// Service-level sentinels shared by the HTTP and websocket transports
var (
	// ErrDatasetNotLoaded is returned when a render is requested before a
	// dataset has been loaded successfully
	ErrDatasetNotLoaded = errors.New("dataset not loaded")

	// ErrUnsupportedFormat is returned for export formats other than csv, xlsx and json
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
