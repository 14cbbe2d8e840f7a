package gotape

import (
	"context"
	"io"
	"iter"
)

// New creates a VM to run the given program, which may be empty or partial.
// The VM only reads from prog; it is copied before anything is appended.
func New(prog []byte, opts ...VMOption) *VM {
	var vm VM
	vm.prog.buf = prog
	defaultOptions.apply(&vm)
	VMOptions(opts...).apply(&vm)
	vm.init()
	return &vm
}

// Step executes a single instruction; a [ whose loop body is skipped counts
// as one instruction, however far it scans. Stepping past the end of the
// program does nothing, returning an IncompleteError if any loops are open.
//
// Output is not flushed after each step; see Flush.
func (vm *VM) Step() error {
	return vm.step()
}

// Run steps until the end of the program, returning nil if the program is
// complete; returns an IncompleteError if the end was reached with loops
// still open, or while skipping a loop body. Run stops early with any step
// error, or if ctx is done between steps. Output is flushed before returning.
func (vm *VM) Run(ctx context.Context) (err error) {
	defer func() {
		if ferr := vm.out.Flush(); ferr != nil && err == nil {
			err = OutputError{vm.pc, ferr}
		}
	}()
	return vm.run(ctx)
}

// Flush flushes output.
func (vm *VM) Flush() error {
	if err := vm.out.Flush(); err != nil {
		return OutputError{vm.pc, err}
	}
	return nil
}

// Append adds instructions to the end of the program.
func (vm *VM) Append(code []byte) { vm.prog.append(code...) }

// AppendByte adds a single instruction to the end of the program.
func (vm *VM) AppendByte(code byte) { vm.prog.append(code) }

// AppendSeq adds every instruction from seq to the end of the program.
func (vm *VM) AppendSeq(seq iter.Seq[byte]) { vm.prog.appendSeq(seq) }

// ReadFrom reads instructions from r until EOF, appending them to the end of
// the program.
func (vm *VM) ReadFrom(r io.Reader) (int64, error) { return vm.prog.readFrom(r) }

// Program returns the program; it must not be modified.
func (vm *VM) Program() []byte { return vm.prog.buf }

// Owned returns true once the program has been copied into a VM owned buffer.
func (vm *VM) Owned() bool { return vm.prog.owned }

// PC returns the program counter: the offset of the next instruction.
func (vm *VM) PC() uint { return vm.pc }

// Ptr returns the cell pointer.
func (vm *VM) Ptr() uint { return vm.ptr }

// Cell returns the value of the current cell.
func (vm *VM) Cell() byte { return vm.cell() }

// Tape returns a copy of every tape cell.
func (vm *VM) Tape() []byte { return append([]byte(nil), vm.tape.Values()...) }

// Loops returns the offsets of every open loop's [, innermost last.
func (vm *VM) Loops() []uint { return append([]uint(nil), vm.loops.Values()...) }

// PendingSkip returns the nesting depth of an unfinished loop body skip.
func (vm *VM) PendingSkip() (depth uint, pending bool) { return vm.skip, vm.skip != 0 }

// Inline returns true if neither the tape nor the loop stack has needed any
// allocation.
func (vm *VM) Inline() bool { return vm.tape.Inline() && vm.loops.Inline() }

// WithInput sets the input stream read by the , instruction.
func WithInput(r io.Reader) VMOption { return withInput(r) }

// WithOutput sets the output stream written by the . instruction. Bytes are
// written straight through, so any buffering is up to w.
func WithOutput(w io.Writer) VMOption { return withOutput(w) }

// WithTee copies output into an additional stream.
func WithTee(w io.Writer) VMOption { return withTee(w) }

// WithTapeChunk sets how many cells the tape starts with, and grows by.
func WithTapeChunk(size uint) VMOption { return withTapeChunk(size) }

// WithTapeLimit limits how many cells the tape may grow to; 0 means no limit.
func WithTapeLimit(limit uint) VMOption { return withTapeLimit(limit) }

// WithLoopLimit limits how deeply loops may nest; 0 means no limit.
func WithLoopLimit(limit uint) VMOption { return withLoopLimit(limit) }

// WithInlineOnly limits the tape and loop stack to their inline capacity,
// so that the VM never allocates for them.
func WithInlineOnly() VMOption { return inlineOnlyOption{} }

// WithLogf enables trace logging of every step.
func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }
