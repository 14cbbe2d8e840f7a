// Package fileinput reads program text sequentially through a queue of named
// input streams, remembering where every byte came from.
package fileinput

import (
	"fmt"
	"io"
	"sort"
)

// Location names a position within an Input stream.
type Location struct {
	Name string
	Line int
	Col  int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v:%v", loc.Name, loc.Line, loc.Col) }

// Input implements io.Reader over a Queue of one or more input streams,
// read one after another. Any stream that implements io.Closer is closed
// once exhausted.
type Input struct {
	Queue []io.Reader

	r       io.Reader
	offset  uint
	sources []source
}

type source struct {
	name  string
	base  uint
	lines []uint // offsets just past each line feed
}

// Read reads from the current input stream, moving on to the next queued
// stream when it is exhausted. Returns io.EOF only once the Queue is empty.
func (in *Input) Read(p []byte) (int, error) {
	for {
		if in.r == nil && !in.nextIn() {
			return 0, io.EOF
		}
		n, err := in.r.Read(p)
		in.scan(p[:n])
		if err == io.EOF {
			in.closeIn()
			if n == 0 {
				continue
			}
			err = nil
		}
		return n, err
	}
}

// Offset returns how many bytes have been read so far.
func (in *Input) Offset() uint { return in.offset }

// Locate returns the location of the byte at the given offset, which should
// be less than Offset.
func (in *Input) Locate(offset uint) Location {
	i := sort.Search(len(in.sources), func(i int) bool {
		return in.sources[i].base > offset
	}) - 1
	if i < 0 {
		return Location{Name: "<no input>"}
	}
	src := in.sources[i]
	start := src.base
	line := sort.Search(len(src.lines), func(j int) bool {
		return src.lines[j] > offset
	})
	if line > 0 {
		start = src.lines[line-1]
	}
	return Location{
		Name: src.name,
		Line: line + 1,
		Col:  int(offset-start) + 1,
	}
}

func (in *Input) scan(p []byte) {
	src := &in.sources[len(in.sources)-1]
	for i, b := range p {
		if b == '\n' {
			src.lines = append(src.lines, in.offset+uint(i)+1)
		}
	}
	in.offset += uint(len(p))
}

func (in *Input) closeIn() {
	if cl, ok := in.r.(io.Closer); ok {
		cl.Close()
	}
	in.r = nil
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	in.r = in.Queue[0]
	in.Queue = in.Queue[1:]
	in.sources = append(in.sources, source{
		name: nameOf(in.r),
		base: in.offset,
	})
	return true
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}

// NamedReader attaches a name to an io.Reader, for use in Location-s.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }
