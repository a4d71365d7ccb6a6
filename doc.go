// Package streamring provides a bounded, single-producer/single-consumer-
// friendly FIFO ring buffer that supports zero-copy, in-place writing and
// reading via scoped leases.
//
// The buffer is a ring of fixed capacity N over elements of a fixed type T.
// Producers acquire a write lease over unused capacity with Prepare, fill it
// in place, and release it; releasing publishes the written region to
// readers. Readers acquire a read lease over published data with Read,
// observe it in place, and release it; releasing reclaims the region as
// free capacity.
//
// # Concurrency
//
// Write leases and read leases are handed out by two independent managers,
// each guarded by its own mutex. A writer's Prepare/Release never blocks a
// reader's Read/Release and vice versa. No lock is held for the lifetime of
// a lease — only during the O(1) acquire and release steps. Leases may be
// released in any order relative to acquisition: publication and
// reclamation both advance oldest-release-first, so out-of-order release
// never reorders data visible to peers.
//
// # Leases are move-only
//
// WriteLease and ReadLease are scoped, move-only handles. Call Release
// (typically via defer) exactly once per lease; Release is a no-op on an
// already-released or moved-from lease. Copying a live lease by value
// assignment is caught by `go vet -copylocks`.
package streamring
