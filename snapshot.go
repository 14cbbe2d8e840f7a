package gotape

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Snapshot captures the state of a VM, less its input and output streams,
// so that it may be resumed later, possibly by another process.
type Snapshot struct {
	Program []byte `cbor:"1,keyasint"`
	PC      uint   `cbor:"2,keyasint"`
	Ptr     uint   `cbor:"3,keyasint"`
	Tape    []byte `cbor:"4,keyasint"`
	Loops   []uint `cbor:"5,keyasint,omitempty"`
	Skip    uint   `cbor:"6,keyasint,omitempty"`
}

// ErrInvalidSnapshot is wrapped by any error from Restore that rejects a
// snapshot as inconsistent.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot returns a copy of the VM's state.
func (vm *VM) Snapshot() Snapshot {
	return Snapshot{
		Program: append([]byte(nil), vm.prog.buf...),
		PC:      vm.pc,
		Ptr:     vm.ptr,
		Tape:    vm.Tape(),
		Loops:   vm.Loops(),
		Skip:    vm.skip,
	}
}

// Restore creates a VM from a snapshot, with the given options; any limit
// options must leave room for the snapshot's tape and loops.
func Restore(snap Snapshot, opts ...VMOption) (*VM, error) {
	if err := snap.check(); err != nil {
		return nil, err
	}

	vm := New(nil, opts...)
	vm.prog = program{buf: append([]byte(nil), snap.Program...), owned: true}
	vm.pc = snap.PC
	vm.ptr = snap.Ptr
	vm.skip = snap.Skip

	vm.tape.Truncate(0) // discard the initial chunk, keeping limits
	if err := vm.tape.Append(snap.Tape...); err != nil {
		return nil, fmt.Errorf("%w: tape: %v", ErrInvalidSnapshot, err)
	}
	if err := vm.loops.Append(snap.Loops...); err != nil {
		return nil, fmt.Errorf("%w: loops: %v", ErrInvalidSnapshot, err)
	}
	return vm, nil
}

func (snap Snapshot) check() error {
	if snap.PC > uint(len(snap.Program)) {
		return fmt.Errorf("%w: pc %v past program end %v", ErrInvalidSnapshot, snap.PC, len(snap.Program))
	}
	if snap.Ptr >= uint(len(snap.Tape)) {
		return fmt.Errorf("%w: cell pointer %v past tape end %v", ErrInvalidSnapshot, snap.Ptr, len(snap.Tape))
	}
	var last uint
	for i, start := range snap.Loops {
		if start >= snap.PC || (i > 0 && start <= last) {
			return fmt.Errorf("%w: loop #%v start %v out of order", ErrInvalidSnapshot, i, start)
		}
		if code := snap.Program[start]; code != '[' {
			return fmt.Errorf("%w: loop #%v start @%v is not [", ErrInvalidSnapshot, i, start)
		}
		last = start
	}
	return nil
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("gotape: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalSnapshot serializes a Snapshot to canonical CBOR bytes.
func MarshalSnapshot(snap Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(snap)
}

// UnmarshalSnapshot deserializes a Snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("gotape: unmarshal snapshot: %w", err)
	}
	return snap, nil
}
