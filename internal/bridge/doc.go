// Package bridge carries envelopes between the panel and the controller.
//
// Two network transports are provided: newline-delimited JSON over a Unix
// domain socket and JSON text frames over a websocket. Both share one
// read/write loop pair that feeds decoded pushes into a channel consumed by
// the panel event loop. Memory is an in-process stand-in used by tests and
// embedding hosts. InstanceLock prevents two interactive panels from driving
// the same controller.
package bridge
