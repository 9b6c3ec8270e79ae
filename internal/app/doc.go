// Package app is the composition root of pawndesk.
//
// Run loads the config file (with PAWNDESK_* environment overrides and
// command-line flags on top), the UI preferences, and then builds:
//
//	config.Load ─> logging.New ─> orders.NewClient ─> state.NewStore
//	                                 metrics.New ──────────┘
//
// The store gets the zap logger and the Prometheus recorder. When
// metrics_addr is set the recorder is served on /metrics for the life of the
// context. Run then starts the store's auto-refresh schedule, which fetches
// immediately, and hands the store to the UI, blocking until the operator
// quits or the context is cancelled.
//
// A service that is down at startup is not fatal: the console opens with an
// empty list and the header reports the connection state until a refresh
// succeeds. Only bad configuration or an unusable order client URL stop Run
// before the UI starts.
package app
