package streamring

import (
	"testing"

	"github.com/valyala/fastrand"
)

func TestArenaFIFOOrder(t *testing.T) {
	a := newNodeArena()

	i0 := a.pushBack(0)
	i1 := a.pushBack(10)
	i2 := a.pushBack(20)

	if cursor, ok := a.oldest(); !ok || cursor != 0 {
		t.Fatalf("expected oldest=0, got %d ok=%v", cursor, ok)
	}

	wasHead := a.remove(i1)
	if wasHead {
		t.Fatalf("removing the middle node must not report wasHead")
	}
	if cursor, ok := a.oldest(); !ok || cursor != 0 {
		t.Fatalf("expected oldest still 0 after removing the middle node, got %d", cursor)
	}

	wasHead = a.remove(i0)
	if !wasHead {
		t.Fatalf("removing the head node must report wasHead")
	}
	if cursor, ok := a.oldest(); !ok || cursor != 20 {
		t.Fatalf("expected oldest=20 after removing head, got %d", cursor)
	}

	a.remove(i2)
	if !a.empty() {
		t.Fatalf("expected arena empty after removing all nodes")
	}
}

// TestArenaRecyclesFreeSlots checks that released slots are reused rather
// than growing the backing slice without bound.
func TestArenaRecyclesFreeSlots(t *testing.T) {
	a := newNodeArena()

	idx := a.pushBack(1)
	a.remove(idx)
	idx2 := a.pushBack(2)

	if idx2 != idx {
		t.Fatalf("expected freed slot %d to be recycled, got %d", idx, idx2)
	}
	if len(a.slots) != 1 {
		t.Fatalf("expected arena to stay at 1 slot after recycling, got %d", len(a.slots))
	}
}

// TestArenaRandomizedInterleaving fuzzes push/remove interleavings with
// fastrand-chosen release order and checks the oldest-node invariant holds
// throughout: the reported oldest value always equals the cursor of the
// earliest-inserted node still live, i.e. insertion order, not value order
// (pushBack appends to the tail regardless of the cursor value, mirroring
// how real lend calls push monotonically wrapping ring positions).
func TestArenaRandomizedInterleaving(t *testing.T) {
	a := newNodeArena()
	cursors := make(map[int]uint64)
	// order tracks live arena indices in insertion order; the oldest live
	// node is always its first element.
	var order []int

	for round := 0; round < 2000; round++ {
		if len(order) == 0 || fastrand.Uint32n(2) == 0 {
			cursor := uint64(fastrand.Uint32n(1 << 20))
			idx := a.pushBack(cursor)
			cursors[idx] = cursor
			order = append(order, idx)
		} else {
			// Pick an arbitrary live node to remove, not necessarily the oldest.
			pos := int(fastrand.Uint32n(uint32(len(order))))
			idx := order[pos]
			order = append(order[:pos], order[pos+1:]...)
			delete(cursors, idx)
			a.remove(idx)
		}

		wantCursor, wantOK := uint64(0), false
		if len(order) > 0 {
			wantCursor, wantOK = cursors[order[0]], true
		}
		gotCursor, gotOK := a.oldest()
		if gotOK != wantOK || (gotOK && gotCursor != wantCursor) {
			t.Fatalf("round %d: expected oldest=(%d,%v), got (%d,%v)", round, wantCursor, wantOK, gotCursor, gotOK)
		}
	}
}
