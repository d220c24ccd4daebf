// Package standings exposes the tracked dataset over the preview HTTP
// server: the rendered page, the raw snapshot, and the medal tally.
// All routes are read-only over the dataset store.
package standings
