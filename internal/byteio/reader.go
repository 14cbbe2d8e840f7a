// Package byteio provides byte oriented input streams and human readable
// names for bytes.
package byteio

import (
	"bufio"
	"io"
)

// Reader is an io.Reader that also supports reading single bytes.
type Reader interface {
	io.Reader
	io.ByteReader
}

// NewReader returns a Reader from r; if r already implements it, it is simply
// returned. Otherwise a bufio.Reader is used to provide byte reading around r.
// If r implements Name() string, so will the returned Reader.
func NewReader(r io.Reader) Reader {
	if impl, ok := r.(Reader); ok {
		return impl
	}
	br := bufio.NewReader(r)
	if impl, ok := r.(interface{ Name() string }); ok {
		return namedReader{br, impl.Name()}
	}
	return br
}

type namedReader struct {
	*bufio.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }
