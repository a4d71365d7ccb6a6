package streamring

import "github.com/eapache/queue"

// noNode is the sentinel "no node" link value, analogous to a nil pointer
// inside the arena's intrusive index chain.
const noNode = -1

// arenaNode is one entry of a manager's outstanding-lease node list: the
// cursor value the lease started at, plus the prev/next links of an
// intrusive doubly linked list threaded through the arena slice.
//
// Using arena-relative int indices instead of pointers (and instead of
// container/list's boxed *list.Element) avoids a lease holding anything
// that aliases the Ring directly; the lease carries only an opaque int
// handle into its manager's arena.
type arenaNode struct {
	cursor     uint64
	prev, next int
}

// nodeArena is a growable slab of arenaNode slots with O(1) allocation and
// release via a free-index queue. It is never accessed concurrently with
// itself — every method is called with the owning manager's mutex held —
// so the free queue needs no internal synchronization of its own.
type nodeArena struct {
	slots []arenaNode
	free  *queue.Queue
	head  int
	tail  int
}

func newNodeArena() *nodeArena {
	return &nodeArena{
		free: queue.New(),
		head: noNode,
		tail: noNode,
	}
}

// pushBack allocates a node for cursor at the tail of the list (the newest
// outstanding lease) and returns its arena handle.
func (a *nodeArena) pushBack(cursor uint64) int {
	var idx int
	if a.free.Length() > 0 {
		idx = a.free.Remove().(int)
	} else {
		idx = len(a.slots)
		a.slots = append(a.slots, arenaNode{})
	}

	a.slots[idx] = arenaNode{cursor: cursor, prev: a.tail, next: noNode}
	if a.tail != noNode {
		a.slots[a.tail].next = idx
	} else {
		a.head = idx
	}
	a.tail = idx
	return idx
}

// remove unlinks idx from the list and recycles its slot. It reports
// whether idx was the head (oldest) node at the time of removal.
func (a *nodeArena) remove(idx int) (wasHead bool) {
	n := a.slots[idx]
	wasHead = idx == a.head

	if n.prev != noNode {
		a.slots[n.prev].next = n.next
	} else {
		a.head = n.next
	}
	if n.next != noNode {
		a.slots[n.next].prev = n.prev
	} else {
		a.tail = n.prev
	}

	a.free.Add(idx)
	return wasHead
}

// oldest returns the cursor value of the head (oldest outstanding) node and
// true, or (0, false) if no node is outstanding.
func (a *nodeArena) oldest() (uint64, bool) {
	if a.head == noNode {
		return 0, false
	}
	return a.slots[a.head].cursor, true
}

// empty reports whether no node is currently outstanding.
func (a *nodeArena) empty() bool {
	return a.head == noNode
}
