// Package cli provides the interactive jobswipe command-line client.
//
// It wires configuration, the local SQLite store, the HTTP client layer,
// page controllers and an interactive REPL. On start the persisted session
// is restored and verified against the backend, a periodic verifier keeps it
// in sync, and backend notices (rate limits, forced logouts) are printed as
// they happen.
//
// Every page command goes through the route guards first, so a logged-out
// user is sent to login and a user with pending onboarding is kept on the
// onboarding page.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and the command methods for details.
package cli
