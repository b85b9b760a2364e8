// Package state persists component option snapshots.
//
// A Store loads and saves one Snapshot per Ref (class name plus instance id).
// Save captures an instance's live options tree and status value; Restore
// constructs a new instance of a class seeded from the stored snapshot.
//
//	Store -> Restore -> base.New(class, snapshot.Options) -> *base.Base
//
// Meta.ETag provides optimistic concurrency: Save with a non-empty ETag fails
// with ErrETagMismatch when the stored record carries a different one.
package state
