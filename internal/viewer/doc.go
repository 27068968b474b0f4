// Package viewer owns per-client view sessions.
//
// Each Session is a single goroutine that holds all navigation and view
// state. Actions and fetch results arrive on one channel and are applied in
// order; fetches run on their own goroutines and never touch state. Every
// fetch is tagged with a request token for its context (storms, detail,
// city, grid, inspect) and its result is dropped if a newer request has been
// issued since. After each applied message the session publishes an
// immutable View snapshot that readers load without locking.
package viewer
