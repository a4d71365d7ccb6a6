package streamring

import (
	"fmt"
	"iter"
	"sync/atomic"
	"unsafe"
)

// Ring is a fixed-capacity circular buffer of N elements of type T, leased
// to writers and readers in place via Prepare/Read. See the package doc for
// the concurrency contract.
//
// A Ring must always be used through a pointer; its zero value is not
// usable (use New or NewWithStorage).
type Ring[T any] struct {
	storage []T
	n       uint64

	// Cursor quadruple, in ring order: beforeStart, start, stop, afterStop.
	// All four are atomic because they are read across the write/read
	// manager boundary without that peer's mutex held (see DESIGN.md,
	// "Cross-manager cursor ordering").
	beforeStart atomic.Uint64
	start       atomic.Uint64
	stop        atomic.Uint64
	afterStop   atomic.Uint64

	writers *writeManager[T]
	readers *readManager[T]
}

// New creates a Ring with the given capacity. Usable capacity is
// capacity-1; one slot is always reserved to disambiguate empty from full.
//
// Panics if capacity <= 0.
func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("streamring: capacity must be > 0")
	}
	return NewWithStorage[T](make([]T, capacity))
}

// NewWithStorage creates a Ring backed by the given slice, using its full
// length as the ring's capacity. This is the Go realization of the "custom
// contiguous-storage container" configuration option in spec.md §6: any
// slice-shaped storage (pooled, pre-sized, or otherwise externally managed)
// can back the ring.
//
// Panics if len(storage) == 0.
func NewWithStorage[T any](storage []T) *Ring[T] {
	if len(storage) == 0 {
		panic("streamring: capacity must be > 0")
	}
	r := &Ring[T]{
		storage: storage,
		n:       uint64(len(storage)),
	}
	r.writers = newWriteManager(r)
	r.readers = newReadManager(r)
	return r
}

// distance is the circular forward distance from a to b, both in [0, n).
func distance(a, b, n uint64) uint64 {
	if b >= a {
		return b - a
	}
	return n - (a - b)
}

// Size returns the amount of published data currently available to
// readers. It does not count bytes inside an open write lease.
func (r *Ring[T]) Size() uint64 {
	return distance(r.start.Load(), r.stop.Load(), r.n)
}

// MaxSize returns the usable capacity, N-1.
func (r *Ring[T]) MaxSize() uint64 {
	return r.n - 1
}

// Empty reports whether no published data is available.
func (r *Ring[T]) Empty() bool {
	return r.start.Load() == r.stop.Load()
}

// Full reports whether published data occupies the whole usable capacity,
// i.e. (stop+1) mod N == start. With no lease outstanding this holds exactly
// when no write capacity is lendable; an outstanding write or read lease can
// leave no lendable capacity while Full is false.
func (r *Ring[T]) Full() bool {
	return (r.stop.Load()+1)%r.n == r.start.Load()
}

// Clear resets the ring to empty.
//
// Clear panics if any write or read lease is currently outstanding; calling
// it otherwise is a programmer error that spec.md §7/§9 leaves undefined,
// strengthened here to a fail-fast check (see DESIGN.md).
func (r *Ring[T]) Clear() {
	r.writers.mu.Lock()
	defer r.writers.mu.Unlock()
	r.readers.mu.Lock()
	defer r.readers.mu.Unlock()

	if !r.writers.arena.empty() || !r.readers.arena.empty() {
		panic("streamring: Clear called with an outstanding lease")
	}

	r.beforeStart.Store(0)
	r.start.Store(0)
	r.stop.Store(0)
	r.afterStop.Store(0)
}

// Swap exchanges the contents (storage and cursor state) of r and other.
//
// Swap panics if either ring has an outstanding lease.
func (r *Ring[T]) Swap(other *Ring[T]) {
	if r == other {
		return
	}
	// Lock order by pointer identity to avoid deadlock against a
	// concurrent Swap(other, r) on the other goroutine.
	first, second := r, other
	if uintptr(unsafe.Pointer(first)) > uintptr(unsafe.Pointer(second)) {
		first, second = second, first
	}
	first.writers.mu.Lock()
	defer first.writers.mu.Unlock()
	first.readers.mu.Lock()
	defer first.readers.mu.Unlock()
	second.writers.mu.Lock()
	defer second.writers.mu.Unlock()
	second.readers.mu.Lock()
	defer second.readers.mu.Unlock()

	if !r.writers.arena.empty() || !r.readers.arena.empty() ||
		!other.writers.arena.empty() || !other.readers.arena.empty() {
		panic("streamring: Swap called with an outstanding lease")
	}

	r.storage, other.storage = other.storage, r.storage
	r.n, other.n = other.n, r.n

	rBefore, rStart, rStop, rAfter := r.beforeStart.Load(), r.start.Load(), r.stop.Load(), r.afterStop.Load()
	oBefore, oStart, oStop, oAfter := other.beforeStart.Load(), other.start.Load(), other.stop.Load(), other.afterStop.Load()

	r.beforeStart.Store(oBefore)
	r.start.Store(oStart)
	r.stop.Store(oStop)
	r.afterStop.Store(oAfter)

	other.beforeStart.Store(rBefore)
	other.start.Store(rStart)
	other.stop.Store(rStop)
	other.afterStop.Store(rAfter)
}

// Front returns a pointer to the first published element.
//
// Front performs no bounds check; calling it on an empty ring returns a
// pointer to storage[start] regardless.
func (r *Ring[T]) Front() *T {
	return &r.storage[r.start.Load()]
}

// Back returns a pointer to the last published element.
//
// Back performs no bounds check.
func (r *Ring[T]) Back() *T {
	return &r.storage[(r.stop.Load()+r.n-1)%r.n]
}

// Index returns a pointer to the i-th published element, counting from
// Front. Index performs no bounds check.
func (r *Ring[T]) Index(i uint64) *T {
	return &r.storage[(r.start.Load()+i)%r.n]
}

// At returns a pointer to the i-th published element, counting from Front,
// or ErrOutOfRange if i >= Size().
func (r *Ring[T]) At(i uint64) (*T, error) {
	size := r.Size()
	if i >= size {
		return nil, outOfRangeErr(i, size)
	}
	return r.Index(i), nil
}

// All returns an iterator over the currently published contents, in
// logical (FIFO) order, paired with their logical index. The sequence
// length is fixed at the size observed when All is called (it is finite
// and restartable, not live).
func (r *Ring[T]) All() iter.Seq2[int, *T] {
	size := r.Size()
	return func(yield func(int, *T) bool) {
		for i := uint64(0); i < size; i++ {
			if !yield(int(i), r.Index(i)) {
				return
			}
		}
	}
}

// String renders start, stop, and size for diagnostics.
func (r *Ring[T]) String() string {
	return fmt.Sprintf("Ring{start: %d, stop: %d, size: %d}", r.start.Load(), r.stop.Load(), r.Size())
}

// Prepare acquires a write lease over n elements of unused capacity.
// Returns ErrOutOfRange if n exceeds the currently lendable capacity.
func (r *Ring[T]) Prepare(n uint64) (*WriteLease[T], error) {
	return r.writers.lend(n)
}

// PrepareAll acquires a write lease over all currently lendable capacity.
// Never fails; the lease is empty if no capacity is free.
func (r *Ring[T]) PrepareAll() *WriteLease[T] {
	return r.writers.lendAll()
}

// Read acquires a read lease over n elements of published data. Returns
// ErrOutOfRange if n exceeds the currently published size.
func (r *Ring[T]) Read(n uint64) (*ReadLease[T], error) {
	return r.readers.lend(n)
}

// ReadAll acquires a read lease over all currently published data. Never
// fails; the lease is empty if nothing is published.
func (r *Ring[T]) ReadAll() *ReadLease[T] {
	return r.readers.lendAll()
}
