package byteio

import (
	"fmt"
	"strconv"
)

// ControlByte represents a named control byte.
type ControlByte struct {
	N string
	B byte
}

// C0Ctls contains the classic ASCII control characters.
var C0Ctls = [32]ControlByte{
	{"<NUL>", 0x00},
	{"<SOH>", 0x01},
	{"<STX>", 0x02},
	{"<ETX>", 0x03},
	{"<EOT>", 0x04},
	{"<ENQ>", 0x05},
	{"<ACK>", 0x06},
	{"<BEL>", 0x07},
	{"<BS>", 0x08},
	{"<HT>", 0x09},
	{"<NL>", 0x0A},
	{"<VT>", 0x0B},
	{"<NP>", 0x0C},
	{"<CR>", 0x0D},
	{"<SO>", 0x0E},
	{"<SI>", 0x0F},
	{"<DLE>", 0x10},
	{"<DC1>", 0x11},
	{"<DC2>", 0x12},
	{"<DC3>", 0x13},
	{"<DC4>", 0x14},
	{"<NAK>", 0x15},
	{"<SYN>", 0x16},
	{"<ETB>", 0x17},
	{"<CAN>", 0x18},
	{"<EM>", 0x19},
	{"<SUB>", 0x1A},
	{"<ESC>", 0x1B},
	{"<FS>", 0x1C},
	{"<GS>", 0x1D},
	{"<RS>", 0x1E},
	{"<US>", 0x1F},
}

// PseudoCtls provides the typical mnemonics for space and delete.
var PseudoCtls = [2]ControlByte{
	{"<SP>", 0x20},
	{"<DEL>", 0x7F},
}

// Name returns the control mnemonic for b, or the empty string if b is not a
// C0 control, space, or delete.
func Name(b byte) string {
	switch {
	case b < 0x20:
		return C0Ctls[b].N
	case b == 0x20:
		return PseudoCtls[0].N
	case b == 0x7f:
		return PseudoCtls[1].N
	}
	return ""
}

// Quote renders b for humans: printable ASCII as a single quoted character,
// controls by their mnemonic, anything else as a hex escape.
func Quote(b byte) string {
	if name := Name(b); name != "" {
		return name
	}
	if b < 0x80 {
		return strconv.QuoteRune(rune(b))
	}
	return fmt.Sprintf(`'\x%02x'`, b)
}

// IsSpace returns true for the ASCII whitespace bytes: space, tab, line feed,
// vertical tab, form feed, and carriage return.
func IsSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
