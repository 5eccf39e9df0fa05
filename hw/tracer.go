package hw

import (
	"fmt"
	"io"
)

// cpuState stores the CPU state for the execution trace.
type cpuState struct {
	A, X, Y uint8
	P       P
	SP      uint8
	PC      uint16

	Clock uint64
}

type disasmer interface {
	Disasm(pc uint16) DisasmOp
}

type tracer struct {
	d disasmer
	w io.Writer

	buf []byte
}

// write appends the execution trace line for the current instruction.
func (t *tracer) write(state cpuState) {
	const disasmWidth = 40

	dis := t.d.Disasm(state.PC)
	t.buf = append(t.buf[:0], dis.Bytes()...)
	for len(t.buf) < disasmWidth {
		t.buf = append(t.buf, ' ')
	}

	t.buf = fmt.Appendf(t.buf, "A:%02X X:%02X Y:%02X S:%02X P:%s CYC:%d\n",
		state.A, state.X, state.Y, state.SP, state.P, state.Clock)

	t.w.Write(t.buf)
}
