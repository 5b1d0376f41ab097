// Package main hosts the queuepanel CLI entrypoint and command graph.
//
// The run command attaches the panel to a controller, either as a terminal
// UI or headless with JSON-line host events on stdin. The ingest and render
// commands exercise the drop pipeline and the renderer against recorded
// payloads, which is how drop-handling bugs are usually reproduced. The check
// command verifies the log directory and controller connection.
package main
