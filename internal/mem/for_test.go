package mem

// BufferDump provides data for testing.
type BufferDump[T any] struct {
	Len    uint
	Cap    uint
	Inline bool
	Values []T
}

// Dump buffer data for testing.
func (b *Buffer[T]) Dump() (d BufferDump[T]) {
	d.Len = b.Len()
	d.Cap = b.Cap()
	d.Inline = b.Inline()
	d.Values = append([]T(nil), b.Values()...)
	return d
}
