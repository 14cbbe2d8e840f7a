package gotape

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jcorbin/gotape/internal/logio"
	"github.com/stretchr/testify/assert"
)

var traceFlag = flag.Bool("vm.trace", false, "trace every VM test step through t.Logf")

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	{
		var exclusive []vmTestCase
		for _, vmt := range vmts {
			if vmt.exclusive {
				exclusive = append(exclusive, vmt)
			}
		}
		if len(exclusive) > 0 {
			vmts = exclusive
		}
	}
	for _, vmt := range vmts {
		t.Run(vmt.name, vmt.run)
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type vmTestCase struct {
	name    string
	prog    []string
	opts    []interface{}
	ops     []func(vm *VM) error
	expect  []func(t *testing.T, vm *VM)
	timeout time.Duration
	wantErr error
	trace   bool

	exclusive bool
}

func (vmt vmTestCase) apply(wraps ...func(vmTestCase) vmTestCase) vmTestCase {
	for _, wrap := range wraps {
		vmt = wrap(vmt)
	}
	return vmt
}

func (vmt vmTestCase) exclusiveTest() vmTestCase {
	vmt.exclusive = true
	return vmt
}

func (vmt vmTestCase) withTestTrace() vmTestCase {
	vmt.trace = true
	return vmt
}

// withProgram sets the program as a series of chunks: the VM is created with
// the first, and each one after is appended once the prior run ends.
func (vmt vmTestCase) withProgram(chunks ...string) vmTestCase {
	vmt.prog = append(vmt.prog, chunks...)
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	for _, opt := range opts {
		vmt.opts = append(vmt.opts, opt)
	}
	return vmt
}

func (vmt vmTestCase) withInput(input string) vmTestCase {
	vmt.opts = append(vmt.opts, func(t *testing.T) VMOption {
		return WithInput(strings.NewReader(input))
	})
	return vmt
}

func (vmt vmTestCase) withTimeout(timeout time.Duration) vmTestCase {
	vmt.timeout = timeout
	return vmt
}

// do replaces running the program with a sequence of operations; any
// ErrIncomplete from an operation other than the last is ignored.
func (vmt vmTestCase) do(ops ...func(vm *VM) error) vmTestCase {
	vmt.ops = append(vmt.ops, ops...)
	return vmt
}

func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

func (vmt vmTestCase) expectPC(pc uint) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, pc, vm.PC(), "expected program counter")
	})
	return vmt
}

func (vmt vmTestCase) expectPtr(ptr uint) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, ptr, vm.Ptr(), "expected cell pointer")
	})
	return vmt
}

// expectTape checks cell values from the start of the tape; any further
// cells are not checked.
func (vmt vmTestCase) expectTape(values ...byte) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		tape := vm.Tape()
		if len(tape) > len(values) {
			tape = tape[:len(values)]
		}
		assert.Equal(t, values, tape, "expected tape values")
	})
	return vmt
}

func (vmt vmTestCase) expectTapeLen(n uint) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, int(n), len(vm.Tape()), "expected tape length")
	})
	return vmt
}

func (vmt vmTestCase) expectLoops(values ...uint) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		if values == nil {
			values = []uint{}
		}
		loops := vm.Loops()
		if loops == nil {
			loops = []uint{}
		}
		assert.Equal(t, values, loops, "expected open loops")
	})
	return vmt
}

func (vmt vmTestCase) expectSkip(depth uint) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		skip, pending := vm.PendingSkip()
		assert.Equal(t, depth, skip, "expected pending skip depth")
		assert.Equal(t, depth != 0, pending, "expected pending skip")
	})
	return vmt
}

func (vmt vmTestCase) expectInline(inline bool) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, inline, vm.Inline(), "expected inline storage")
	})
	return vmt
}

func (vmt vmTestCase) expectOutput(output string) vmTestCase {
	var out strings.Builder
	vmt.opts = append(vmt.opts, func(t *testing.T) VMOption {
		out.Reset()
		return WithOutput(&out)
	})
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return vmt
}

func (vmt vmTestCase) expectDump(dump string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		var out strings.Builder
		vm.Dump(&out)
		assert.Equal(t, dump, out.String(), "expected dump")
	})
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	const defaultTimeout = time.Second
	timeout := vmt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	vm := vmt.buildVM(t)
	defer func() {
		if t.Failed() {
			vmt.dumpToTest(t, vm)
		}
	}()

	if err := vmt.runVM(ctx, vm); vmt.wantErr != nil {
		assert.True(t, errors.Is(err, vmt.wantErr), "expected error: %v\ngot: %+v", vmt.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected VM run error")
	}

	for _, expect := range vmt.expect {
		expect(t, vm)
	}
}

func (vmt vmTestCase) runVM(ctx context.Context, vm *VM) (err error) {
	if len(vmt.ops) > 0 {
		for _, op := range vmt.ops {
			if err = op(vm); err != nil && !errors.Is(err, ErrIncomplete) {
				return err
			}
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
		}
		return err
	}

	err = vm.Run(ctx)
	for i := 1; i < len(vmt.prog); i++ {
		if err != nil && !errors.Is(err, ErrIncomplete) {
			return fmt.Errorf("run before chunk #%v failed: %w", i, err)
		}
		vm.Append([]byte(vmt.prog[i]))
		err = vm.Run(ctx)
	}
	return err
}

func (vmt vmTestCase) buildVM(t *testing.T) *VM {
	var opts []VMOption
	for _, o := range vmt.opts {
		switch impl := o.(type) {
		case func(t *testing.T) VMOption:
			opts = append(opts, impl(t))
		case VMOption:
			opts = append(opts, impl)
		default:
			t.Fatalf("unsupported vmTestCase opt type %T", o)
		}
	}
	if vmt.trace || *traceFlag {
		opts = append(opts, WithLogf(t.Logf))
	}

	var prog []byte
	if len(vmt.prog) > 0 {
		prog = []byte(vmt.prog[0])
	}
	return New(prog, opts...)
}

func (vmt vmTestCase) dumpToTest(t *testing.T, vm *VM) {
	lw := logio.Writer{Logf: t.Logf, Prefix: "dump: "}
	defer lw.Close()
	vm.Dump(&lw)
}

//// operations for vmTestCase.do

func step(vm *VM) error { return vm.Step() }

func steps(n int) func(vm *VM) error {
	return func(vm *VM) (err error) {
		for i := 0; i < n; i++ {
			if err = vm.Step(); err != nil && !errors.Is(err, ErrIncomplete) {
				return err
			}
		}
		return err
	}
}

func appendCode(code string) func(vm *VM) error {
	return func(vm *VM) error {
		vm.Append([]byte(code))
		return nil
	}
}

func runToEnd(vm *VM) error { return vm.Run(context.Background()) }

// ignoring runs op, expecting it to fail with target.
func ignoring(target error, op func(vm *VM) error) func(vm *VM) error {
	return func(vm *VM) error {
		err := op(vm)
		if err == nil {
			return fmt.Errorf("expected %v error", target)
		}
		if !errors.Is(err, target) {
			return err
		}
		return nil
	}
}

//// utilities

type failWriter struct{ err error }

func (fw failWriter) Write(p []byte) (int, error) { return 0, fw.err }

// flakyWriter fails its first few writes.
type flakyWriter struct {
	fails int
	buf   strings.Builder
}

func (fw *flakyWriter) Write(p []byte) (int, error) {
	if fw.fails > 0 {
		fw.fails--
		return 0, errBoom
	}
	return fw.buf.Write(p)
}

type failReader struct{ err error }

func (fr failReader) Read(p []byte) (int, error) { return 0, fr.err }

var _ io.Reader = failReader{}
