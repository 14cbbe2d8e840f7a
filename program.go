package gotape

import (
	"io"
	"iter"
)

// program holds instruction bytes. It starts out borrowing the caller's
// slice, which it never writes into; the first append copies it into an
// owned buffer that is then appended to in place.
// Appending never renumbers existing instructions.
type program struct {
	buf   []byte
	owned bool
}

func (p *program) len() uint      { return uint(len(p.buf)) }
func (p *program) at(i uint) byte { return p.buf[i] }

func (p *program) own(extra int) {
	if p.owned {
		return
	}
	buf := make([]byte, len(p.buf), len(p.buf)+extra)
	copy(buf, p.buf)
	p.buf = buf
	p.owned = true
}

func (p *program) append(code ...byte) {
	if len(code) == 0 {
		return
	}
	p.own(len(code))
	p.buf = append(p.buf, code...)
}

func (p *program) appendSeq(seq iter.Seq[byte]) {
	for code := range seq {
		p.own(0)
		p.buf = append(p.buf, code)
	}
}

func (p *program) readFrom(r io.Reader) (n int64, err error) {
	const minRead = 512
	var scratch [minRead]byte
	for {
		var m int
		var rerr error
		if p.owned {
			if cap(p.buf)-len(p.buf) < minRead {
				buf := make([]byte, len(p.buf), 2*cap(p.buf)+minRead)
				copy(buf, p.buf)
				p.buf = buf
			}
			m, rerr = r.Read(p.buf[len(p.buf):cap(p.buf)])
			p.buf = p.buf[:len(p.buf)+m]
		} else {
			// still borrowed, only take ownership once something is read
			m, rerr = r.Read(scratch[:])
			p.append(scratch[:m]...)
		}
		n += int64(m)
		if rerr == io.EOF {
			return n, nil
		} else if rerr != nil {
			return n, rerr
		}
	}
}
