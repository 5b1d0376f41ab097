// Package protocol defines the messages exchanged between the queue panel and
// the controller that owns the real queue.
//
// Outbound commands and inbound pushes share one envelope shape, {type, data},
// encoded as JSON. The queue models here are read-only copies of controller
// state; the panel never edits them.
package protocol
