package gotape

import (
	"io"
	"strings"

	"github.com/jcorbin/gotape/internal/byteio"
	"github.com/jcorbin/gotape/internal/flushio"
	"github.com/jcorbin/gotape/internal/mem"
)

// VMOption customizes a VM; see the With* functions.
type VMOption interface{ apply(vm *VM) }

// VMOptions combines any number of options into one; nil options are ignored.
func VMOptions(opts ...VMOption) VMOption {
	var res vmOptions
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case vmOptions:
			res = append(res, impl...)
		default:
			res = append(res, impl)
		}
	}
	if len(res) == 1 {
		return res[0]
	}
	return res
}

type vmOptions []VMOption

func (opts vmOptions) apply(vm *VM) {
	for _, opt := range opts {
		opt.apply(vm)
	}
}

var defaultOptions = VMOptions(
	withInput(strings.NewReader("")),
	withOutput(io.Discard),
	withTapeChunk(defaultTapeChunk),
)

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) {
	vm.logfn = logfn
}

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type tapeChunkOption uint
type tapeLimitOption uint
type loopLimitOption uint
type inlineOnlyOption struct{}

func withInput(r io.Reader) inputOption        { return inputOption{r} }
func withOutput(w io.Writer) outputOption      { return outputOption{w} }
func withTee(w io.Writer) teeOption            { return teeOption{w} }
func withTapeChunk(size uint) tapeChunkOption  { return tapeChunkOption(size) }
func withTapeLimit(limit uint) tapeLimitOption { return tapeLimitOption(limit) }
func withLoopLimit(limit uint) loopLimitOption { return loopLimitOption(limit) }

func (i inputOption) apply(vm *VM) {
	vm.in = byteio.NewReader(i.Reader)
}

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		if err := vm.out.Flush(); err != nil {
			vm.logf("flush of replaced output failed: %v", err)
		}
	}
	vm.out = flushio.NewByteWriter(o.Writer)
}

func (o teeOption) apply(vm *VM) {
	vm.out = flushio.ByteWriters(vm.out, flushio.NewByteWriter(o.Writer))
}

func (size tapeChunkOption) apply(vm *VM) {
	if size > 0 {
		vm.tape.ChunkSize = uint(size)
	}
}

func (lim tapeLimitOption) apply(vm *VM) {
	vm.tape.Limit = uint(lim)
}

func (lim loopLimitOption) apply(vm *VM) {
	vm.loops.Limit = uint(lim)
}

func (inlineOnlyOption) apply(vm *VM) {
	vm.tape.Limit = mem.InlineSize
	vm.loops.Limit = mem.InlineSize
}
