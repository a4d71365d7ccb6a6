package streamring

import "testing"

func TestWriteLendRejectsOversizedRequest(t *testing.T) {
	r := New[int](8)
	if _, err := r.Prepare(8); !IsOutOfRange(err) {
		t.Fatalf("expected ErrOutOfRange for Prepare(8) on capacity-8 ring, got %v", err)
	}
	if r.Size() != 0 {
		t.Fatalf("expected no state change after failed Prepare, got size=%d", r.Size())
	}
}

func TestWriteLendAllReturnsEmptyLeaseWhenFull(t *testing.T) {
	r := New[int](4)
	w, err := r.Prepare(3)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	w.Release()

	empty := r.PrepareAll()
	if empty.Len() != 0 {
		t.Fatalf("expected empty lease, got len=%d", empty.Len())
	}
	empty.Release()
}

// TestWriteOutOfOrderRelease reproduces spec.md §8 property 3 / scenario S4:
// writer A acquires before writer B; B releases first; size stays at 0
// until A releases, at which point size jumps by |A|+|B| and the data
// appears in acquire order.
func TestWriteOutOfOrderRelease(t *testing.T) {
	r := New[int](16)

	a, err := r.Prepare(3)
	if err != nil {
		t.Fatalf("Prepare(A) failed: %v", err)
	}
	for i := 0; i < a.Len(); i++ {
		*a.At(i) = i // A: 0,1,2
	}

	b, err := r.Prepare(2)
	if err != nil {
		t.Fatalf("Prepare(B) failed: %v", err)
	}
	for i := 0; i < b.Len(); i++ {
		*b.At(i) = 100 + i // B: 100,101
	}

	b.Release()
	if r.Size() != 0 {
		t.Fatalf("expected size=0 before A releases, got %d", r.Size())
	}

	a.Release()
	if r.Size() != 5 {
		t.Fatalf("expected size=5 after A releases, got %d", r.Size())
	}

	want := []int{0, 1, 2, 100, 101}
	for i, w := range want {
		if *r.Index(uint64(i)) != w {
			t.Fatalf("index %d: expected %d, got %d", i, w, *r.Index(uint64(i)))
		}
	}
}

// TestWriteThreeWayOutOfOrderRelease generalizes S4 to three outstanding
// writers releasing in a non-acquisition order.
func TestWriteThreeWayOutOfOrderRelease(t *testing.T) {
	r := New[int](32)

	a, _ := r.Prepare(2)
	b, _ := r.Prepare(2)
	c, _ := r.Prepare(2)
	for i := 0; i < 2; i++ {
		*a.At(i) = i
		*b.At(i) = 10 + i
		*c.At(i) = 20 + i
	}

	c.Release()
	if r.Size() != 0 {
		t.Fatalf("expected size=0 after releasing C only, got %d", r.Size())
	}
	b.Release()
	if r.Size() != 0 {
		t.Fatalf("expected size=0 after releasing B and C but not A, got %d", r.Size())
	}
	a.Release()
	if r.Size() != 6 {
		t.Fatalf("expected size=6 once A releases, got %d", r.Size())
	}

	want := []int{0, 1, 10, 11, 20, 21}
	for i, w := range want {
		if *r.Index(uint64(i)) != w {
			t.Fatalf("index %d: expected %d, got %d", i, w, *r.Index(uint64(i)))
		}
	}
}

func TestWriteFullAfterExactCapacity(t *testing.T) {
	const n = 11
	r := New[int](n)
	w, err := r.Prepare(n - 1)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	w.Release()

	if !r.Full() {
		t.Fatalf("expected Full() after filling capacity-1 elements")
	}
	if _, err := r.Prepare(1); !IsOutOfRange(err) {
		t.Fatalf("expected Prepare(1) on full ring to fail, got %v", err)
	}
}
