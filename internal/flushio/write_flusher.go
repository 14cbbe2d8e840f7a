// Package flushio provides flushable byte oriented output streams.
package flushio

import (
	"bufio"
	"io"
)

// WriteFlusher is a flush-able io.Writer.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

// ByteWriter is a flush-able io.ByteWriter, and the form of output stream
// that gotape writes into.
type ByteWriter interface {
	WriteFlusher
	io.ByteWriter
}

// NewWriteFlusher creates a buffered writer around w, unless w is already a
// ByteWriter, or is an in-memory buffer (like bytes.Buffer) that needs no
// buffering.
func NewWriteFlusher(w io.Writer) ByteWriter {
	if w == io.Discard {
		return discard
	}
	if bw, is := w.(ByteWriter); is {
		return bw
	}
	if isBuffer(w) {
		return NewByteWriter(w)
	}
	return bufio.NewWriter(w)
}

// NewByteWriter wraps w without adding any buffering: every byte written
// goes straight through to w, so any error is seen by the writer of that
// byte. Flush is passed through if w implements it, otherwise it does nothing.
func NewByteWriter(w io.Writer) ByteWriter {
	if w == io.Discard {
		return discard
	}
	if bw, is := w.(ByteWriter); is {
		return bw
	}
	var bw byteWriter
	bw.Writer = w
	bw.ByteWriter, _ = w.(io.ByteWriter)
	bw.flusher, _ = w.(interface{ Flush() error })
	return bw
}

var discard ByteWriter = byteWriter{Writer: io.Discard}

// in memory buffers, as implemented by types like bytes.Buffer and
// strings.Builder, do not need to be flushed
func isBuffer(w io.Writer) bool {
	type buffer interface {
		io.Writer
		Cap() int
		Len() int
		Grow(n int)
		Reset()
	}
	_, is := w.(buffer)
	return is
}

type byteWriter struct {
	io.Writer
	io.ByteWriter
	flusher interface{ Flush() error }
}

func (bw byteWriter) WriteByte(c byte) error {
	if bw.ByteWriter != nil {
		return bw.ByteWriter.WriteByte(c)
	}
	n, err := bw.Writer.Write([]byte{c})
	if err == nil && n != 1 {
		err = io.ErrShortWrite
	}
	return err
}

func (bw byteWriter) Flush() error {
	if bw.flusher != nil {
		return bw.flusher.Flush()
	}
	return nil
}
