package streamring

import (
	"context"
	"runtime"
	"time"

	"github.com/valyala/fastrand"
)

// spinsBeforeBackoff mirrors the teacher's goschedEvery cadence (mpmc.go,
// taskq.go): a short run of runtime.Gosched() spins before escalating to a
// timed sleep, since most waits here resolve within a few scheduler turns.
const spinsBeforeBackoff = 64

const (
	minBackoff          = 50 * time.Microsecond
	backoffJitterMicros = 200
)

// yieldAndRetry is the "yield to the executor for the minimum quantum"
// primitive spec.md §4.5 asks for, translated to Go: a few cheap
// runtime.Gosched() spins, then a short fastrand-jittered sleep so that
// many goroutines waiting on the same manager don't all wake in lockstep.
// It returns ctx.Err() if ctx is done, and nil otherwise.
func yieldAndRetry(ctx context.Context, spins *uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	*spins++
	if *spins%spinsBeforeBackoff != 0 {
		runtime.Gosched()
		return nil
	}

	jitter := time.Duration(fastrand.Uint32n(backoffJitterMicros)) * time.Microsecond
	timer := time.NewTimer(minBackoff + jitter)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// AsyncPrepare waits until n elements of write capacity are available and
// returns a write lease over them. It retries Prepare(n), yielding between
// attempts, until it succeeds or ctx is done.
//
// If ctx is cancelled before a lease is acquired, AsyncPrepare returns
// ctx.Err() and leaves the ring state unchanged, matching spec.md §4.5's
// "terminates without having acquired a lease and without observable
// ring-state change."
func (r *Ring[T]) AsyncPrepare(ctx context.Context, n uint64) (*WriteLease[T], error) {
	var spins uint32
	for {
		lease, err := r.Prepare(n)
		if err == nil {
			return lease, nil
		}
		if werr := yieldAndRetry(ctx, &spins); werr != nil {
			return nil, werr
		}
	}
}

// AsyncRead waits until n elements of published data are available and
// returns a read lease over them, symmetrically to AsyncPrepare.
func (r *Ring[T]) AsyncRead(ctx context.Context, n uint64) (*ReadLease[T], error) {
	var spins uint32
	for {
		lease, err := r.Read(n)
		if err == nil {
			return lease, nil
		}
		if werr := yieldAndRetry(ctx, &spins); werr != nil {
			return nil, werr
		}
	}
}
