// Package logging assembles structured slog loggers for the queue panel.
//
// It owns the console and JSON handlers, routes output to stderr and the panel
// log file, and exposes attribute helpers so ingestion,
// bridge, and rendering code tag lines with the same component and
// correlation keys. NewNop supplies a discard logger for tests.
package logging
