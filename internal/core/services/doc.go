// Package services implements the driving port interfaces.
// Services contain the core logic and orchestrate calls to driven
// ports (adapters).
//
// The incremental-list machinery lives here too: Paginator is the generic
// state machine behind the search, hot and user-repos lists, DebouncedQuery
// turns keystrokes into searches, and PrefetchTrigger decides when a list
// scrolled near its end should load the next page.
package services
