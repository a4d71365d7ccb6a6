package streamring

import "sync"

// writeManager hands out write leases over contiguous unused capacity and
// tracks outstanding write leases so that published data becomes visible to
// readers only when the oldest outstanding write lease is released
// (spec.md §4.2).
//
// It mutates only afterStop (on lend) and stop (on release of the oldest
// node); it reads beforeStart, which readManager owns, without taking
// readManager's mutex — safe because beforeStart is an atomic.Uint64 and
// the manager only needs an "available >= n" test, not precise ordering
// (spec.md §5).
type writeManager[T any] struct {
	mu    sync.Mutex
	ring  *Ring[T]
	arena *nodeArena
}

func newWriteManager[T any](ring *Ring[T]) *writeManager[T] {
	return &writeManager[T]{ring: ring, arena: newNodeArena()}
}

// lend acquires a write lease over n elements of unused capacity.
func (m *writeManager[T]) lend(n uint64) (*WriteLease[T], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	afterStop := m.ring.afterStop.Load()
	beforeStart := m.ring.beforeStart.Load()
	// R=1: reserve the anti-aliasing slot so a full-capacity write still
	// leaves start != stop detectable.
	available := distance((afterStop+1)%m.ring.n, beforeStart, m.ring.n)
	if n > available {
		return nil, outOfRangeErr(n, available)
	}

	return m.lendLocked(afterStop, n), nil
}

// lendAll acquires a write lease over all currently lendable capacity.
// Never fails; the lease is empty if no capacity is free.
func (m *writeManager[T]) lendAll() *WriteLease[T] {
	m.mu.Lock()
	defer m.mu.Unlock()

	afterStop := m.ring.afterStop.Load()
	beforeStart := m.ring.beforeStart.Load()
	available := distance((afterStop+1)%m.ring.n, beforeStart, m.ring.n)

	return m.lendLocked(afterStop, available)
}

// lendLocked performs the actual node insertion and cursor advance;
// callers must hold m.mu and must have already checked n against
// availability.
func (m *writeManager[T]) lendLocked(wStart, n uint64) *WriteLease[T] {
	idx := m.arena.pushBack(wStart)
	wStop := (wStart + n) % m.ring.n
	m.ring.afterStop.Store(wStop)

	return &WriteLease[T]{view: view[T]{
		ring:     m.ring,
		lo:       wStart,
		hi:       wStop,
		arenaIdx: idx,
		owner:    m,
	}}
}

// release implements releaser: it is called from WriteLease.Release.
func (m *writeManager[T]) release(arenaIdx int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wasOldest := m.arena.remove(arenaIdx)
	if !wasOldest {
		return
	}

	// Out-of-order publish: only advancing stop when the oldest
	// outstanding writer releases makes writes visible in acquire order,
	// regardless of which writer finished first.
	if cursor, ok := m.arena.oldest(); ok {
		m.ring.stop.Store(cursor)
	} else {
		m.ring.stop.Store(m.ring.afterStop.Load())
	}
}
