// Package logging builds slog loggers for fieldguide with console and JSON
// output formats, plus small helpers for component-scoped loggers and
// structured attributes.
package logging
