// Package state owns the operator console's order collection and keeps it in
// step with the order service.
//
// # Overview
//
// Store is the single source of truth for the orders the UI shows. Nothing
// else mutates the collection. The UI reads copies through Snapshot, learns
// about changes through Subscribe, and forwards operator intents through
// Refresh, Verify and Remove.
//
//	UI intent ──> Store op ──> orders.OrderService call
//	                 │                   │
//	                 │   <── result ─────┘
//	                 ├─> mutate under mutex
//	                 └─> notify subscribers ──> UI re-reads Snapshot
//
// # Concurrency Model
//
// Every operation is a blocking call meant to run on its own goroutine
// (bubbletea runs each tea.Cmd that way). The mutex is held only to read or
// mutate state, never across network I/O. Within one operation the mutation
// always happens after the call returns. Across operations nothing is
// serialized: a refresh and a verify may be in flight together and apply in
// either order; the last one to land wins.
//
// The action lock (Snapshot.Sending) is the only guard. It prevents a second
// verification send for an id whose first send has not settled. It says
// nothing about refreshes or deletes.
//
// # Update Semantics
//
//	Refresh ok    → collection replaced with the service list, LastError nil
//	Refresh fails → collection kept, LastError set, ConsecutiveFailures++
//	Verify        → id locked → send → id unlocked → notice → Refresh on success
//	Remove ok     → entry dropped locally, no refresh
//	Remove fails  → collection kept, error notice
//
// Loading is true while at least one refresh is in flight.
//
// # Auto-refresh
//
// StartAutoRefresh returns an *AutoRefresh handle. Stop cancels the schedule;
// a refresh already in flight still runs to completion but its result is
// thrown away. Close on the store stops every schedule and discards any
// result that arrives later, so a torn-down store never changes.
//
// Overlapping refreshes are not coalesced. If a call outlives the interval
// the next tick starts another one, and whichever response arrives last is
// the one that stays.
package state
