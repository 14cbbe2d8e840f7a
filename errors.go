package gotape

import (
	"errors"
	"fmt"

	"github.com/jcorbin/gotape/internal/byteio"
)

var (
	// ErrIncomplete indicates that the program ran out while loops were
	// still open, or while skipping over a loop body; it is not fatal, more
	// program may be appended and run.
	ErrIncomplete = errors.New("incomplete program")

	ErrUnmatchedClose        = errors.New("unmatched ]")
	ErrUnexpectedInstruction = errors.New("unexpected instruction")
	ErrTapeUnderflow         = errors.New("tape underflow")
	ErrOutput                = errors.New("output failed")
	ErrLimit                 = errors.New("memory limit exceeded")
)

// Positioned is implemented by errors that arose from executing the
// instruction at a particular program offset.
type Positioned interface {
	error
	Pos() uint
}

// IncompleteError is the ErrIncomplete returned when the program ran out
// with Open loops still open, or while skipping a loop body nested Skip deep.
type IncompleteError struct {
	Open uint
	Skip uint
}

func (err IncompleteError) Error() string {
	if err.Skip != 0 {
		return fmt.Sprintf("%v: skipping loop body at depth %v", ErrIncomplete, err.Skip)
	}
	return fmt.Sprintf("%v: %v loops still open", ErrIncomplete, err.Open)
}

func (err IncompleteError) Is(target error) bool { return target == ErrIncomplete }

// InstructionError reports a byte outside of the instruction alphabet.
type InstructionError struct {
	At   uint
	Code byte
}

func (err InstructionError) Error() string {
	return fmt.Sprintf("%v %v @%v", ErrUnexpectedInstruction, byteio.Quote(err.Code), err.At)
}

func (err InstructionError) Is(target error) bool { return target == ErrUnexpectedInstruction }
func (err InstructionError) Pos() uint            { return err.At }

// UnmatchedCloseError reports a ] with no open loop.
type UnmatchedCloseError struct{ At uint }

func (err UnmatchedCloseError) Error() string {
	return fmt.Sprintf("%v @%v", ErrUnmatchedClose, err.At)
}

func (err UnmatchedCloseError) Is(target error) bool { return target == ErrUnmatchedClose }
func (err UnmatchedCloseError) Pos() uint            { return err.At }

// UnderflowError reports a < executed on the first tape cell.
type UnderflowError struct{ At uint }

func (err UnderflowError) Error() string {
	return fmt.Sprintf("%v: cell pointer moved left of 0 @%v", ErrTapeUnderflow, err.At)
}

func (err UnderflowError) Is(target error) bool { return target == ErrTapeUnderflow }
func (err UnderflowError) Pos() uint            { return err.At }

// OutputError wraps an error from the output stream.
type OutputError struct {
	At  uint
	Err error
}

func (err OutputError) Error() string {
	return fmt.Sprintf("%v @%v: %v", ErrOutput, err.At, err.Err)
}

func (err OutputError) Is(target error) bool { return target == ErrOutput }
func (err OutputError) Unwrap() error        { return err.Err }
func (err OutputError) Pos() uint            { return err.At }

// LimitError wraps a tape or loop stack limit violation.
type LimitError struct {
	At  uint
	Err error
}

func (err LimitError) Error() string {
	return fmt.Sprintf("%v @%v", err.Err, err.At)
}

func (err LimitError) Is(target error) bool { return target == ErrLimit }
func (err LimitError) Unwrap() error        { return err.Err }
func (err LimitError) Pos() uint            { return err.At }
