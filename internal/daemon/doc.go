// Package daemon runs the long-lived game process: it enforces
// single-instance execution with a file lock, schedules the periodic cache
// sweep, and serves the HTTP API the chat transport and CLI talk to.
package daemon
