package gotape

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jcorbin/gotape/internal/byteio"
)

// Dump writes a human readable description of the VM's state: its counters,
// a program listing marked at the program counter, and every tape row that
// is non-zero or holds the current cell.
func (vm *VM) Dump(out io.Writer) {
	vmDumper{vm: vm, out: out}.dump()
}

type vmDumper struct {
	vm  *VM
	out io.Writer

	addrWidth int
	progRow   uint
	tapeRow   uint
}

func (dump vmDumper) dump() {
	if dump.progRow == 0 {
		dump.progRow = 32
	}
	if dump.tapeRow == 0 {
		dump.tapeRow = 16
	}
	if dump.addrWidth == 0 {
		size := dump.vm.prog.len()
		if n := dump.vm.tape.Len(); n > size {
			size = n
		}
		dump.addrWidth = len(strconv.Itoa(int(size)))
	}

	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  pc: %v of %v\n", dump.vm.pc, dump.vm.prog.len())
	fmt.Fprintf(dump.out, "  ptr: %v\n", dump.vm.ptr)
	fmt.Fprintf(dump.out, "  loops: %v\n", dump.vm.loops.Values())
	if depth, pending := dump.vm.PendingSkip(); pending {
		fmt.Fprintf(dump.out, "  skip: %v\n", depth)
	}
	fmt.Fprintf(dump.out, "  tape: %v cells\n", dump.vm.tape.Len())

	dump.dumpProg()
	dump.dumpTape()
}

func (dump vmDumper) dumpProg() {
	fmt.Fprintf(dump.out, "# Program\n")
	var buf strings.Builder
	prog := dump.vm.prog.buf
	for row := uint(0); row < uint(len(prog)); row += dump.progRow {
		end := row + dump.progRow
		if end > uint(len(prog)) {
			end = uint(len(prog))
		}
		fmt.Fprintf(&buf, "  @%*v ", dump.addrWidth, row)
		for _, code := range prog[row:end] {
			buf.WriteByte(printable(code))
		}
		buf.WriteByte('\n')
		if pc := dump.vm.pc; row <= pc && pc < row+dump.progRow {
			buf.WriteString(strings.Repeat(" ", 4+dump.addrWidth+int(pc-row)))
			buf.WriteString("^\n")
		}
		io.WriteString(dump.out, buf.String())
		buf.Reset()
	}
}

func (dump vmDumper) dumpTape() {
	fmt.Fprintf(dump.out, "# Tape\n")
	var buf strings.Builder
	cells := dump.vm.tape.Values()
	for row := uint(0); row < uint(len(cells)); row += dump.tapeRow {
		end := row + dump.tapeRow
		if end > uint(len(cells)) {
			end = uint(len(cells))
		}
		if !dump.hasPtr(row, end) && allZero(cells[row:end]) {
			continue
		}
		fmt.Fprintf(&buf, "  @%*v", dump.addrWidth, row)
		for i := row; i < end; i++ {
			if i == dump.vm.ptr {
				buf.WriteByte('>')
			} else {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(&buf, "%3d", cells[i])
		}
		buf.WriteByte('\n')
		io.WriteString(dump.out, buf.String())
		buf.Reset()
	}
}

func (dump vmDumper) hasPtr(row, end uint) bool {
	return row <= dump.vm.ptr && dump.vm.ptr < end
}

func allZero(cells []byte) bool {
	for _, c := range cells {
		if c != 0 {
			return false
		}
	}
	return true
}

// printable renders whitespace as a space, and any other non printable byte
// as a ?, so that listings keep one column per program byte.
func printable(code byte) byte {
	switch {
	case byteio.IsSpace(code):
		return ' '
	case code < 0x20 || code > 0x7e:
		return '?'
	}
	return code
}
