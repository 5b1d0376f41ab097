// Package panel is the view layer of the queue panel.
//
// Renderer caches the controller's latest snapshot and derives a View from
// it; applying the same snapshot twice yields the same View. Panel is a
// single-goroutine event loop that routes host gestures through a fixed
// (role, kind) table, feeds drops to the ingestion controller, applies
// controller pushes, and expires transient notices and the drag indicator.
package panel
