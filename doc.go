/* Package gotape: a resumable tape machine

The machine runs programs written in an eight instruction language over a
linear tape of byte cells; the language is the one usually known by a much
less polite name. There are two counters: the program counter, which indexes
the next instruction byte, and the cell pointer, which indexes the current
tape cell.

	>   advance the cell pointer
	<   retreat the cell pointer
	+   increment the current cell, 255 wraps around to 0
	-   decrement the current cell, 0 wraps around to 255
	.   write the current cell to output
	,   read a byte of input into the current cell; end of input reads as 0
	[   if the current cell is zero, jump just past the matching ]
	]   if the current cell is non-zero, jump back to the matching [

ASCII whitespace is ignored; any other byte is an error when executed, but
not when merely skipped over by a [ jump.

There is no parse phase: the program buffer is the program, consumed one
byte at a time. This is what makes the machine resumable. A program may be
run before all of it has been supplied: execution proceeds until it needs an
instruction that isn't there yet, at which point Run returns ErrIncomplete,
rather than complaining about unbalanced brackets. More program may then be
appended, and running picks up exactly where it left off; no instruction is
ever executed twice because of a resumption.

The one subtle case is a [ jump that runs off the end of the program while
scanning for its matching ]: the scan's nesting depth is saved as a pending
skip, and the next step resumes scanning from exactly that depth.

Memory

Both the tape and the stack of open loop starts live in a small fixed inline
array until they outgrow it; only then is anything allocated. The tape grows
in fixed size chunks as the cell pointer advances past its end. Limits may be
set on either, or both may be confined to their inline arrays, for hosts that
cannot afford to allocate; exceeding a limit is an error.

Moving the cell pointer left of the first cell is an error; the tape is not
circular.

Errors

Any error from Step or Run leaves the program counter at the instruction that
failed, with the rest of the machine untouched, so it may be inspected (see
Dump) or saved (see Snapshot). ErrIncomplete is the only non-fatal error: it
means "append more program, then run again".
*/
package gotape
