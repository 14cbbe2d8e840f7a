package gotape

import (
	"io"

	"github.com/jcorbin/gotape/internal/flushio"
)

type ioCore struct {
	in  io.ByteReader
	out flushio.ByteWriter

	logfn func(mess string, args ...interface{})
}

func (ioc ioCore) logf(mess string, args ...interface{}) {
	if ioc.logfn != nil {
		ioc.logfn(mess, args...)
	}
}

// readByte returns the next input byte, with 0 standing in for the end of
// input; output is flushed first, so that any prompt is seen before input
// is awaited.
func (ioc ioCore) readByte() (byte, error) {
	if err := ioc.out.Flush(); err != nil {
		return 0, err
	}
	b, err := ioc.in.ReadByte()
	if err != nil {
		if err != io.EOF {
			ioc.logf("input error read as end of input: %v", err)
		}
		return 0, nil
	}
	return b, nil
}

func (ioc ioCore) writeByte(b byte) error {
	return ioc.out.WriteByte(b)
}
