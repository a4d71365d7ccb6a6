package streamring

import "sync"

// readManager hands out read leases over contiguous filled data and tracks
// outstanding read leases so that consumed data is reclaimed as free
// capacity only when the oldest outstanding read lease is released
// (spec.md §4.3).
//
// It mutates only start (on lend) and beforeStart (on release of the
// oldest node); it reads stop, which writeManager owns, without taking
// writeManager's mutex, for the same reason writeManager reads
// beforeStart without readManager's mutex (spec.md §5).
type readManager[T any] struct {
	mu    sync.Mutex
	ring  *Ring[T]
	arena *nodeArena
}

func newReadManager[T any](ring *Ring[T]) *readManager[T] {
	return &readManager[T]{ring: ring, arena: newNodeArena()}
}

// lend acquires a read lease over n elements of published data.
func (m *readManager[T]) lend(n uint64) (*ReadLease[T], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.ring.start.Load()
	stop := m.ring.stop.Load()
	// R=0: no anti-aliasing reservation is needed on the read side.
	available := distance(start, stop, m.ring.n)
	if n > available {
		return nil, outOfRangeErr(n, available)
	}

	return m.lendLocked(start, n), nil
}

// lendAll acquires a read lease over all currently published data. Never
// fails; the lease is empty if nothing is published.
func (m *readManager[T]) lendAll() *ReadLease[T] {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.ring.start.Load()
	stop := m.ring.stop.Load()
	available := distance(start, stop, m.ring.n)

	return m.lendLocked(start, available)
}

func (m *readManager[T]) lendLocked(rStart, n uint64) *ReadLease[T] {
	idx := m.arena.pushBack(rStart)
	rStop := (rStart + n) % m.ring.n
	m.ring.start.Store(rStop)

	return &ReadLease[T]{view: view[T]{
		ring:     m.ring,
		lo:       rStart,
		hi:       rStop,
		arenaIdx: idx,
		owner:    m,
	}}
}

// release implements releaser: it is called from ReadLease.Release.
func (m *readManager[T]) release(arenaIdx int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wasOldest := m.arena.remove(arenaIdx)
	if !wasOldest {
		return
	}

	// Symmetric to writeManager.release: capacity returns to writers only
	// once all earlier-acquired reads have also been released.
	if cursor, ok := m.arena.oldest(); ok {
		m.ring.beforeStart.Store(cursor)
	} else {
		m.ring.beforeStart.Store(m.ring.start.Load())
	}
}
