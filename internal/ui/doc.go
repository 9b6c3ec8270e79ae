// Package ui is the operator console: a Bubble Tea program over a
// state.Store.
//
// # Layout
//
//	┌ header: connection, status counts, total value, last update ┐
//	│ command bar                                                 │
//	│ notice line (last action outcome or refresh error)          │
//	├──────── Orders (n) ──────────┬──── Details | Regions ───────┤
//	│ #id customer item qty value  │ selected order fields, or    │
//	│ region status                │ regional distribution bars   │
//	└──────────────────────────────┴──────────────────────────────┘
//
// Rows appear in the order the service returned them; nothing is sorted or
// filtered locally.
//
// # Data Flow
//
// The model never mutates orders. It subscribes to the store, re-reads the
// snapshot on every change signal, and recomputes the summary aggregates
// from it. Operator intents become tea.Cmds that call Refresh, Verify or
// Remove on the store; their outcome arrives through the same change signal
// as a snapshot with a Notice.
//
// # Keys
//
//   - j/k, g/G: move the selection
//   - r: refresh now
//   - v: send verification email; disabled for Verified, On Verification
//     and rows with a send in flight
//   - d/x: delete, after a y/n confirmation
//   - tab: switch the right pane between details and regions
//   - esc: dismiss the notice
//   - T: cycle theme, persisted to prefs
//   - h/?: help; e or ctrl+c: quit
package ui
