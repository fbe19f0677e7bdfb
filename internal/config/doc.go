// Package config provides centralized configuration management for the
// dashboard service and the render CLI.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML file: $RIDEPULSE_CONFIG, config.yaml or configs/config.yaml
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// Variables are prefixed with RIDEPULSE_ and named after the section and field:
//
//	RIDEPULSE_SERVER_PORT=8080
//	RIDEPULSE_DATASET_SOURCE=data/ncr_ride_bookings.csv
//	RIDEPULSE_DATASET_SHEETS_API_KEY=...
//	RIDEPULSE_SESSION_IDLE_TIMEOUT=30m
//	RIDEPULSE_LOGGING_LEVEL=debug
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests that need a configuration without touching the environment use
// config.Default().
package config
