// Package config loads pawndesk's configuration file.
//
// # Resolution Order
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/pawndesk/config.toml
//  3. A missing file is not an error; defaults apply
//  4. PAWNDESK_* environment variables override file values
//  5. Empty or zero fields fall back to defaults
//
// # Default Values
//
//   - api_url: http://127.0.0.1:8000/dashboard
//   - poll_seconds: 30
//   - request_timeout: 10 (seconds)
//   - log_file: ~/.local/state/pawndesk/pawndesk.log
//   - log_level: info
//   - metrics_addr: empty, the /metrics listener is off
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:8000/dashboard"
//	poll_seconds = 30
//	request_timeout = 10
//	log_file = "~/.local/state/pawndesk/pawndesk.log"
//	log_level = "info"
//	metrics_addr = "127.0.0.1:9464"
//
// Every field is optional. Tilde expansion is performed on log_file.
//
// # Environment
//
// Each key has an upper-case PAWNDESK_ counterpart, for example
// PAWNDESK_API_URL or PAWNDESK_POLL_SECONDS. Values that do not parse as the
// field's type make Load fail.
package config
