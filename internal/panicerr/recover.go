// Package panicerr turns abnormal exits of a function, panics and
// runtime.Goexit, into plain error returns.
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Recover runs f in a new goroutine, returning its error, or an Error if f
// panics or calls runtime.Goexit instead of returning.
func Recover(name string, f func() error) error {
	errch := make(chan error, 1)
	go func() {
		defer close(errch)
		defer recoverExit(name, errch)
		defer recoverPanic(name, errch)
		errch <- f()
	}()
	return <-errch
}

// Error describes an abnormal exit recovered by Recover.
type Error struct {
	Name  string
	Value interface{} // non-nil for a panic
	Stack []byte
}

func recoverPanic(name string, errch chan<- error) {
	if e := recover(); e != nil {
		select {
		case errch <- Error{Name: name, Value: e, Stack: debug.Stack()}:
		default:
		}
	}
}

func recoverExit(name string, errch chan<- error) {
	select {
	case errch <- Error{Name: name}:
	default:
		// the normal return path, or a panic, already sent
	}
}

func (pe Error) Error() string {
	return fmt.Sprint(pe)
}

// Format prints the panic stack trace under the "%+v" verb.
func (pe Error) Format(f fmt.State, c rune) {
	switch {
	case pe.Value == nil && pe.Name == "":
		fmt.Fprint(f, "runtime.Goexit called")
		return
	case pe.Value == nil:
		fmt.Fprintf(f, "%v called runtime.Goexit", pe.Name)
		return
	case pe.Name == "":
		fmt.Fprintf(f, "paniced: %v", pe.Value)
	default:
		fmt.Fprintf(f, "%v paniced: %v", pe.Name, pe.Value)
	}
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.Stack)
	}
}

// Unwrap returns the panic value if it was an error.
func (pe Error) Unwrap() error {
	err, _ := pe.Value.(error)
	return err
}

// IsPanic returns true if err indicates a recovered panic.
func IsPanic(err error) bool {
	var pe Error
	return errors.As(err, &pe) && pe.Value != nil
}

// IsExit returns true if err indicates a recovered runtime.Goexit.
func IsExit(err error) bool {
	var pe Error
	return errors.As(err, &pe) && pe.Value == nil
}

// PanicStack returns a non-empty stack trace if err is a recovered panic.
func PanicStack(err error) string {
	var pe Error
	if errors.As(err, &pe) {
		return string(pe.Stack)
	}
	return ""
}
