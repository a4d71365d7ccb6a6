package streamring

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned by Prepare, Read, and At when the requested
// size or index exceeds what is currently lendable or published.
//
// For Prepare: the requested size exceeds the currently free capacity.
// For Read: the requested size exceeds the currently published data.
// For At: the index is beyond the current published size.
//
// ErrOutOfRange never changes buffer state. The caller either retries
// (optionally via AsyncPrepare/AsyncRead) or abandons the request.
var ErrOutOfRange = errors.New("streamring: out of range")

// IsOutOfRange reports whether err is (or wraps) ErrOutOfRange.
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

func outOfRangeErr(requested, available uint64) error {
	return fmt.Errorf("%w: requested %d exceeds available %d", ErrOutOfRange, requested, available)
}
