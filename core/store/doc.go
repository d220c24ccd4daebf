// Package store owns the persisted dataset snapshot.
//
// The snapshot lives in a single JSON document. The store is the only
// component allowed to read or write it, and it enforces two disciplines
// on every write:
//
//   - Schema validation: a snapshot that violates the dataset invariants
//     (inconsistent medal totals, duplicate event IDs, unknown statuses)
//     is rejected before anything touches disk.
//   - Atomic replace: the new document is written next to the target and
//     renamed over it, so a crash mid-write can never leave a partial
//     dataset behind. Readers always observe a complete snapshot.
//
// # Usage
//
//	st := store.New(cfg.Store, logg)
//	snap, err := st.Load()
//	...
//	err = st.Replace(snap)
package store
