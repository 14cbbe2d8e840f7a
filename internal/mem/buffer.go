package mem

import "fmt"

// InlineSize is the number of elements that a Buffer holds before it needs
// any allocation.
const InlineSize = 32

// DefaultChunkSize provides a default for Buffer.ChunkSize.
const DefaultChunkSize = 64

// Buffer implements a growable sequence that lives in a fixed inline array
// until its length exceeds InlineSize; after that it is backed by a heap
// slice whose capacity grows by ChunkSize whenever it runs out.
// A Buffer never moves back inline, even if its length later drops.
//
// The zero value is an empty, inline, unlimited Buffer.
type Buffer[T any] struct {
	// ChunkSize specifies how much capacity is added each time heap backing
	// is exhausted.
	ChunkSize uint

	// Limit specifies a length, past which any growth results in an error.
	Limit uint

	n      uint
	inline [InlineSize]T
	heap   []T
}

// LimitError indicates that a growth operation, like push or extend, would
// exceed a Buffer's Limit.
type LimitError struct {
	Size uint
	Op   string
}

func (lim LimitError) Error() string {
	return fmt.Sprintf("memory limit exceeded by %v to size %v", lim.Op, lim.Size)
}

// Len returns the number of elements in the buffer.
func (b *Buffer[T]) Len() uint { return b.n }

// Cap returns how many elements the buffer may hold before it needs to grow.
func (b *Buffer[T]) Cap() uint { return uint(len(b.backing())) }

// Inline returns true if the buffer has never needed an allocation.
func (b *Buffer[T]) Inline() bool { return b.heap == nil }

// Values returns a view of the buffer's elements; the view aliases buffer
// storage, and is only valid until the next growth operation.
func (b *Buffer[T]) Values() []T { return b.backing()[:b.n] }

// Load returns the value at index i, which must be less than Len.
func (b *Buffer[T]) Load(i uint) T { return b.Values()[i] }

// Stor sets the value at index i, which must be less than Len.
func (b *Buffer[T]) Stor(i uint, val T) { b.Values()[i] = val }

// Push appends a value.
// Returns a LimitError rather than growing past Limit.
func (b *Buffer[T]) Push(val T) error {
	if err := b.resize(b.n+1, "push"); err != nil {
		return err
	}
	b.backing()[b.n-1] = val
	return nil
}

// Pop removes and returns the last value, returning false if the buffer is
// empty.
func (b *Buffer[T]) Pop() (val T, ok bool) {
	if b.n == 0 {
		return val, false
	}
	b.n--
	return b.backing()[b.n], true
}

// Last returns the last value, returning false if the buffer is empty.
func (b *Buffer[T]) Last() (val T, ok bool) {
	if b.n == 0 {
		return val, false
	}
	return b.backing()[b.n-1], true
}

// Truncate drops any values past the given length; it does not give back
// any capacity.
func (b *Buffer[T]) Truncate(size uint) {
	if size < b.n {
		b.n = size
	}
}

// Extend adds n zero values to the end of the buffer.
// Returns a LimitError, and does no partial extension, if Limit would be
// exceeded.
func (b *Buffer[T]) Extend(n uint) error {
	return b.resize(b.n+n, "extend")
}

// Append adds all of the given values to the end of the buffer.
// Returns a LimitError, and does no partial append, if Limit would be
// exceeded.
func (b *Buffer[T]) Append(vals ...T) error {
	at := b.n
	if err := b.resize(b.n+uint(len(vals)), "append"); err != nil {
		return err
	}
	copy(b.backing()[at:], vals)
	return nil
}

func (b *Buffer[T]) backing() []T {
	if b.heap != nil {
		return b.heap
	}
	return b.inline[:]
}

func (b *Buffer[T]) resize(size uint, op string) error {
	if lim := b.Limit; lim != 0 && size > lim {
		return LimitError{size, op}
	}
	if size > b.Cap() {
		b.promote(size)
	}
	// values beyond Len may be left over from a prior Pop
	clear(b.backing()[b.n:size])
	b.n = size
	return nil
}

func (b *Buffer[T]) promote(size uint) {
	chunk := b.ChunkSize
	if chunk == 0 {
		chunk = DefaultChunkSize
	}
	capacity := b.Cap()
	for capacity < size {
		capacity += chunk
	}
	heap := make([]T, capacity)
	copy(heap, b.Values())
	b.heap = heap
	clear(b.inline[:])
}
