package flushio

import "io"

// ByteWriters combines any number of ByteWriter-s into a single one that
// will write into and flush all of them.
//
// When WriteByte fails partway, the writers that already took the byte are
// remembered: the next WriteByte resumes with the writer that failed, so
// that retrying the same byte never duplicates it downstream.
func ByteWriters(bws ...ByteWriter) ByteWriter {
	switch all := appendByteWriter(nil, bws...); len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	default:
		return &byteWriters{all: all}
	}
}

type byteWriters struct {
	all    []ByteWriter
	resume int // index of the writer that failed the last WriteByte
}

func (bws *byteWriters) Write(p []byte) (n int, err error) {
	bws.resume = 0
	for _, bw := range bws.all {
		n, err = bw.Write(p)
		if err != nil {
			return n, err
		}
		if n != len(p) {
			return n, io.ErrShortWrite
		}
	}
	return len(p), nil
}

func (bws *byteWriters) WriteByte(c byte) error {
	for i := bws.resume; i < len(bws.all); i++ {
		if err := bws.all[i].WriteByte(c); err != nil {
			bws.resume = i
			return err
		}
	}
	bws.resume = 0
	return nil
}

func (bws *byteWriters) Flush() (err error) {
	for _, bw := range bws.all {
		if ferr := bw.Flush(); err == nil {
			err = ferr
		}
	}
	return err
}

func appendByteWriter(all []ByteWriter, some ...ByteWriter) []ByteWriter {
	for _, one := range some {
		if many, ok := one.(*byteWriters); ok {
			all = append(all, many.all...)
		} else if one != nil {
			all = append(all, one)
		}
	}
	return all
}
