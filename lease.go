package streamring

import "iter"

// noCopy marks a type as not to be copied after first use. go vet's
// copylocks check flags any assignment of a value containing a noCopy,
// since noCopy implements sync.Locker. It has no runtime effect by itself;
// it exists purely so the compiler's vet pass catches a lease being copied
// by value instead of moved or released.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// releaser is implemented by writeManager and readManager: the half of the
// manager contract a lease needs to give its region back.
type releaser interface {
	release(arenaIdx int)
}

// view is the shared machinery behind WriteLease and ReadLease: a
// half-open range [lo, hi) over a Ring's storage, plus the arena handle and
// owning manager needed to release it. It is never exported directly;
// WriteLease and ReadLease embed it to pick up Len/At/All/Release/Move
// while remaining distinct exported types.
type view[T any] struct {
	noCopy

	ring     *Ring[T]
	lo, hi   uint64
	arenaIdx int
	owner    releaser
}

func (v *view[T]) inert() bool {
	return v.ring == nil
}

// Len returns the number of elements this lease covers.
func (v *view[T]) Len() int {
	if v.inert() {
		return 0
	}
	return int(distance(v.lo, v.hi, v.ring.n))
}

// At returns a pointer to the i-th element of the lease, aliasing the
// underlying ring storage directly. At performs no bounds check.
func (v *view[T]) At(i int) *T {
	idx := (v.lo + uint64(i)) % v.ring.n
	return &v.ring.storage[idx]
}

// All returns an iterator over the lease's elements in order, paired with
// their index within the lease.
func (v *view[T]) All() iter.Seq2[int, *T] {
	n := v.Len()
	return func(yield func(int, *T) bool) {
		for i := 0; i < n; i++ {
			if !yield(i, v.At(i)) {
				return
			}
		}
	}
}

// Release returns the lease's range to its owning manager, publishing it
// (write lease) or reclaiming it (read lease) per the oldest-release-first
// protocol. Release is idempotent: it is a no-op on an already-released or
// moved-from lease.
func (v *view[T]) Release() {
	if v.inert() {
		return
	}
	v.owner.release(v.arenaIdx)
	v.ring = nil
}

// move returns a fresh view carrying this view's state and marks the
// receiver inert. It is built as a composite literal rather than a struct
// copy (`*v`) so that copying the noCopy guard itself never happens.
func (v *view[T]) move() view[T] {
	moved := view[T]{
		ring:     v.ring,
		lo:       v.lo,
		hi:       v.hi,
		arenaIdx: v.arenaIdx,
		owner:    v.owner,
	}
	v.ring = nil
	return moved
}

// WriteLease is a scoped, move-only handle over a contiguous range of
// unused ring capacity, acquired by Ring.Prepare/PrepareAll/AsyncPrepare.
// Fill it in place through At/All, then Release it (typically via defer)
// to publish the range to readers.
type WriteLease[T any] struct {
	view[T]
}

// Move transfers ownership of the lease to the returned value; the
// receiver becomes inert and its eventual Release is a no-op.
func (l *WriteLease[T]) Move() WriteLease[T] {
	return WriteLease[T]{view: l.view.move()}
}

// ReadLease is a scoped, move-only handle over a contiguous range of
// published ring data, acquired by Ring.Read/ReadAll/AsyncRead. Observe it
// in place through At/All, then Release it (typically via defer) to
// reclaim the range as free write capacity.
type ReadLease[T any] struct {
	view[T]
}

// Move transfers ownership of the lease to the returned value; the
// receiver becomes inert and its eventual Release is a no-op.
func (l *ReadLease[T]) Move() ReadLease[T] {
	return ReadLease[T]{view: l.view.move()}
}
