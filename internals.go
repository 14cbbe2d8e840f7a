package gotape

import (
	"context"
	"errors"

	"github.com/jcorbin/gotape/internal/byteio"
)

func (vm *VM) init() {
	vm.loops.ChunkSize = defaultLoopChunk
	if vm.tape.Len() == 0 {
		vm.growTape()
	}
}

func (vm *VM) cell() byte { return vm.tape.Load(vm.ptr) }

// growTape extends the tape by one chunk, or by whatever remains under its
// limit if a full chunk would exceed it.
func (vm *VM) growTape() error {
	n := vm.tape.ChunkSize
	if lim := vm.tape.Limit; lim != 0 && vm.tape.Len()+n > lim && vm.tape.Len() < lim {
		n = lim - vm.tape.Len()
	}
	return vm.tape.Extend(n)
}

// skipLoop scans forward for the ] that brings the pending skip depth to 0,
// leaving the program counter just past it. If the program runs out first,
// the depth reached is kept pending, so that the next call continues from
// exactly there.
func (vm *VM) skipLoop() error {
	depth := vm.skip
	vm.logf("skip @%v depth:%v", vm.pc, depth)
	for end := vm.prog.len(); vm.pc < end; {
		switch vm.prog.at(vm.pc) {
		case '[':
			depth++
		case ']':
			depth--
		}
		vm.pc++
		if depth == 0 {
			vm.skip = 0
			return nil
		}
	}
	vm.skip = depth
	vm.logf("skip pending @%v depth:%v", vm.pc, depth)
	return vm.incomplete()
}

// incomplete returns an IncompleteError if any loops are open or a skip is
// pending; nil otherwise.
func (vm *VM) incomplete() error {
	if vm.loops.Len() == 0 && vm.skip == 0 {
		return nil
	}
	return IncompleteError{Open: vm.loops.Len(), Skip: vm.skip}
}

func (vm *VM) step() error {
	if vm.skip != 0 {
		return vm.skipLoop()
	}

	at := vm.pc
	if at >= vm.prog.len() {
		return vm.incomplete()
	}

	code := vm.prog.at(at)
	if vm.logfn != nil {
		vm.logf("exec @%v %v ptr:%v cell:%v loops:%v", at, byteio.Quote(code), vm.ptr, vm.cell(), vm.loops.Values())
	}

	vm.pc++
	err := vmCodeTable[code](vm)
	if err != nil && !errors.Is(err, ErrIncomplete) {
		vm.pc = at
		vm.logf("halt error: %v", err)
	}
	return err
}

func (vm *VM) run(ctx context.Context) error {
	for vm.pc < vm.prog.len() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := vm.step(); err != nil {
			return err
		}
	}
	return vm.incomplete()
}
