// Package tui hosts the queue panel in a terminal. Keys stand in for the
// panel's buttons and a bracketed paste of file paths or file URIs stands in
// for a drop onto the queue.
package tui
