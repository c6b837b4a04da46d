package window

// ring is a growable ring deque used as the window's backing store. It
// supports amortized O(1) pushBack and O(1) popFront, so FIFO eviction never
// degenerates into an O(n) front shift of a plain slice. Indexing is logical:
// index 0 is the oldest retained element.
type ring[T any] struct {
	items []T
	head  int
	count int
}

const ringMinCapacity = 16

func (r *ring[T]) len() int {
	return r.count
}

// at returns the element at logical index i (0 = oldest). Callers must keep
// i within [0, len).
func (r *ring[T]) at(i int) T {
	return r.items[(r.head+i)%len(r.items)]
}

func (r *ring[T]) pushBack(v T) {
	if r.count == len(r.items) {
		r.grow()
	}
	r.items[(r.head+r.count)%len(r.items)] = v
	r.count++
}

func (r *ring[T]) popFront() T {
	var zero T
	v := r.items[r.head]
	r.items[r.head] = zero // release the reference for GC
	r.head = (r.head + 1) % len(r.items)
	r.count--
	return v
}

// slice copies the logical range [from, to) into a fresh slice. The copy is
// what query operations hand out, so callers can never alias internal storage.
func (r *ring[T]) slice(from, to int) []T {
	out := make([]T, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, r.at(i))
	}
	return out
}

func (r *ring[T]) reset() {
	var zero T
	for i := 0; i < r.count; i++ {
		r.items[(r.head+i)%len(r.items)] = zero
	}
	r.head = 0
	r.count = 0
}

func (r *ring[T]) grow() {
	newCap := len(r.items) * 2
	if newCap < ringMinCapacity {
		newCap = ringMinCapacity
	}
	items := make([]T, newCap)
	for i := 0; i < r.count; i++ {
		items[i] = r.at(i)
	}
	r.items = items
	r.head = 0
}
