package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jcorbin/gotape"
	"github.com/jcorbin/gotape/internal/fileinput"
)

// chunkSize is how much program text is appended before each run.
const chunkSize = 4096

type runner struct {
	vm  *gotape.VM
	in  *fileinput.Input
	log *slog.Logger

	// program offsets below base came from a resumed snapshot
	resumed string
	base    uint
}

// run appends program text one chunk at a time, running after each; the
// program being incomplete is only an error once all text has been read.
func (rn *runner) run(ctx context.Context) error {
	buf := make([]byte, chunkSize)
	for {
		n, rerr := rn.in.Read(buf)
		if n > 0 {
			rn.vm.Append(buf[:n])
			if err := rn.vm.Run(ctx); err != nil && !errors.Is(err, gotape.ErrIncomplete) {
				return err
			}
		}
		if rerr == io.EOF {
			break
		} else if rerr != nil {
			return rerr
		}
	}
	return rn.vm.Run(ctx)
}

// locate adds the source location of any program position to err.
func (rn *runner) locate(err error) error {
	var perr gotape.Positioned
	if !errors.As(err, &perr) {
		return err
	}
	pos := perr.Pos()
	if pos < rn.base {
		return locatedError{fmt.Sprintf("%v@%v", rn.resumed, pos), err}
	}
	return locatedError{rn.in.Locate(pos - rn.base).String(), err}
}

type locatedError struct {
	loc string
	err error
}

func (err locatedError) Error() string { return fmt.Sprintf("%v: %v", err.loc, err.err) }
func (err locatedError) Unwrap() error { return err.err }
