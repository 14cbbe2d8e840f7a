package gotape

import (
	"github.com/jcorbin/gotape/internal/byteio"
	"github.com/jcorbin/gotape/internal/mem"
)

const (
	defaultTapeChunk = 16
	defaultLoopChunk = 16
)

// VM is a resumable tape machine; create one with New, or with Restore.
// A VM is not safe for concurrent use.
type VM struct {
	ioCore

	prog program
	pc   uint // program counter
	ptr  uint // cell pointer

	// The tape starts out as one chunk of zeroed cells, and grows by another
	// chunk whenever the cell pointer advances past its end.
	tape mem.Buffer[byte]

	// Loops holds the program offset of every [ entered, but whose ] has not
	// yet been reached on the current pass.
	loops mem.Buffer[uint]

	// Skip is the nesting depth of a loop body skip that ran out of program;
	// 0 when no skip is pending.
	skip uint
}

// The instruction table maps every possible program byte to its operation.
// Operations are dispatched with the program counter already advanced past
// their instruction; an operation that fails need not restore it.
var vmCodeTable [256]func(vm *VM) error

func init() {
	for code := range vmCodeTable {
		if byteio.IsSpace(byte(code)) {
			vmCodeTable[code] = (*VM).nop
		} else {
			vmCodeTable[code] = (*VM).unexpected
		}
	}
	vmCodeTable['>'] = (*VM).right
	vmCodeTable['<'] = (*VM).left
	vmCodeTable['+'] = (*VM).inc
	vmCodeTable['-'] = (*VM).dec
	vmCodeTable['.'] = (*VM).put
	vmCodeTable[','] = (*VM).get
	vmCodeTable['['] = (*VM).open
	vmCodeTable[']'] = (*VM).close
}

// at returns the offset of the instruction being executed.
func (vm *VM) at() uint { return vm.pc - 1 }

// > advances the cell pointer, growing the tape when it passes the end.
func (vm *VM) right() error {
	if next := vm.ptr + 1; next >= vm.tape.Len() {
		if err := vm.growTape(); err != nil {
			return LimitError{vm.at(), err}
		}
	}
	vm.ptr++
	return nil
}

// < retreats the cell pointer, which may not pass the first cell.
func (vm *VM) left() error {
	if vm.ptr == 0 {
		return UnderflowError{vm.at()}
	}
	vm.ptr--
	return nil
}

// + increments the current cell, modulo 256.
func (vm *VM) inc() error { vm.tape.Stor(vm.ptr, vm.cell()+1); return nil }

// - decrements the current cell, modulo 256.
func (vm *VM) dec() error { vm.tape.Stor(vm.ptr, vm.cell()-1); return nil }

// . writes the current cell to output.
func (vm *VM) put() error {
	if err := vm.writeByte(vm.cell()); err != nil {
		return OutputError{vm.at(), err}
	}
	return nil
}

// , reads an input byte into the current cell, 0 once input is exhausted.
func (vm *VM) get() error {
	b, err := vm.readByte()
	if err != nil {
		return OutputError{vm.at(), err}
	}
	vm.tape.Stor(vm.ptr, b)
	return nil
}

// [ enters a loop if the current cell is non-zero, otherwise it skips past
// the matching ].
func (vm *VM) open() error {
	if vm.cell() == 0 {
		vm.skip = 1
		return vm.skipLoop()
	}
	if err := vm.loops.Push(vm.at()); err != nil {
		return LimitError{vm.at(), err}
	}
	return nil
}

// ] leaves the innermost loop, jumping back to its [ if the current cell is
// non-zero; the [ is then evaluated again.
func (vm *VM) close() error {
	start, ok := vm.loops.Pop()
	if !ok {
		return UnmatchedCloseError{vm.at()}
	}
	if vm.cell() != 0 {
		vm.pc = start
	}
	return nil
}

// whitespace
func (vm *VM) nop() error { return nil }

func (vm *VM) unexpected() error {
	at := vm.at()
	return InstructionError{at, vm.prog.at(at)}
}
