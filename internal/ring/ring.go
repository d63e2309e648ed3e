// Package ring implements the fixed-capacity history buffers kept by the
// emotion, personality and decision components.
package ring

// Buffer holds at most Cap items. Pushing onto a full buffer evicts the
// oldest item.
type Buffer[T any] struct {
	items []T
	start int
	size  int
}

// New creates a buffer with the given capacity. Capacity below one is
// raised to one.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{items: make([]T, capacity)}
}

// Push appends v, evicting the oldest item when full.
func (b *Buffer[T]) Push(v T) {
	if b.size < len(b.items) {
		b.items[(b.start+b.size)%len(b.items)] = v
		b.size++
		return
	}
	b.items[b.start] = v
	b.start = (b.start + 1) % len(b.items)
}

// Len returns the number of stored items.
func (b *Buffer[T]) Len() int { return b.size }

// Cap returns the buffer capacity.
func (b *Buffer[T]) Cap() int { return len(b.items) }

// Items returns a copy of the stored items, oldest first.
func (b *Buffer[T]) Items() []T {
	out := make([]T, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.items[(b.start+i)%len(b.items)]
	}
	return out
}

// Last returns up to n of the newest items, oldest first.
func (b *Buffer[T]) Last(n int) []T {
	if n > b.size {
		n = b.size
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, n)
	offset := b.size - n
	for i := 0; i < n; i++ {
		out[i] = b.items[(b.start+offset+i)%len(b.items)]
	}
	return out
}

// Newest returns the most recently pushed item.
func (b *Buffer[T]) Newest() (T, bool) {
	var zero T
	if b.size == 0 {
		return zero, false
	}
	return b.items[(b.start+b.size-1)%len(b.items)], true
}
