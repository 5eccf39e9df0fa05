package hw

import (
	"io"

	"caracal/emu/log"
)

// Locations reserved for vector pointers.
const (
	NMIVector   = uint16(0xFFFA) // Non-Maskable Interrupt
	ResetVector = uint16(0xFFFC) // Reset
	IRQVector   = uint16(0xFFFE) // Interrupt Request / BRK
)

// CPU is the machine's 65C02 core. Every cycle it spends goes through the
// MMU, which charges bus ticks and advances the co-processors, so the
// instruction stream is interruptible at memory-access granularity.
type CPU struct {
	Bus *MMU

	// cpu registers
	A, X, Y, SP uint8
	PC          uint16
	P           P

	// interrupt handling
	irqLine              func() bool // level-sensitive, sampled at fetch boundaries
	nmiFlag, prevNmiFlag bool
	needNmi              bool

	asleep  bool // entered via CPUSLEEP, cleared by any interrupt request
	waiting bool // WAI
	halted  bool // STP, cleared by reset

	breakOnBrk bool
	brkHit     bool

	// Non-nil when execution tracing is enabled.
	tracer *tracer
	dbg    Debugger
}

// NewCPU creates a new CPU at power-up state.
func NewCPU(bus *MMU) *CPU {
	return &CPU{
		Bus: bus,
		SP:  0xFD,
		dbg: nopDebugger{},
	}
}

// SetIRQLine plugs the level-sensitive interrupt source (the interrupt
// aggregator of the timer unit).
func (c *CPU) SetIRQLine(line func() bool) {
	c.irqLine = line
}

func (c *CPU) Reset() {
	c.SP = 0xFD
	c.P = 1 << pbitU
	c.P.setI(true)
	c.P.setD(false)

	c.asleep = false
	c.waiting = false
	c.halted = false
	c.nmiFlag = false
	c.prevNmiFlag = false
	c.needNmi = false
	c.brkHit = false

	// Directly peek the bus to avoid side effects.
	c.PC = c.Bus.Peek16(ResetVector)
	c.dbg.Reset()

	// The CPU burns a few cycles before going on with ROM execution.
	for i := 0; i < 8; i++ {
		c.tick()
	}
}

func (c *CPU) irqAsserted() bool {
	return c.irqLine != nil && c.irqLine()
}

// Step executes exactly one instruction, or services a pending interrupt.
// Interrupts are only latched here, at opcode fetch boundaries.
func (c *CPU) Step() {
	if c.halted {
		c.tick()
		return
	}

	if c.needNmi {
		c.needNmi = false
		c.interrupt(true)
	} else if c.irqAsserted() && !c.P.I() {
		c.interrupt(false)
	}

	opcode := c.Read8(c.PC)
	c.traceOp()
	ops[opcode](c)

	// NMI is edge-sensitive: a low-to-high transition arms a single service.
	if c.nmiFlag && !c.prevNmiFlag {
		c.needNmi = true
	}
	c.prevNmiFlag = c.nmiFlag
}

func (c *CPU) traceOp() {
	if c.tracer != nil {
		c.tracer.write(cpuState{
			A:     c.A,
			X:     c.X,
			Y:     c.Y,
			P:     c.P,
			SP:    c.SP,
			PC:    c.PC,
			Clock: c.Bus.Now(),
		})
	}
	c.dbg.Trace(c.PC)
}

// Sleep stalls the CPU until the next interrupt request (CPUSLEEP register).
// The sprite engine gets the bus while the CPU sleeps.
func (c *CPU) Sleep() {
	c.asleep = true
}

// Wake ends a CPUSLEEP or WAI stall. Called on every interrupt request, even
// a masked one: the hardware wakes on the request, not on its servicing.
func (c *CPU) Wake() {
	c.asleep = false
	c.waiting = false
}

func (c *CPU) Stalled() bool {
	return c.asleep || c.waiting || c.halted
}

func (c *CPU) SetNMI(assert bool) {
	c.nmiFlag = assert
	if assert {
		c.Wake()
	}
}

// SetBreakOnBrk arms the debugger trap on the BRK instruction.
func (c *CPU) SetBreakOnBrk(on bool) { c.breakOnBrk = on }

// TakeBrkHit reports and clears the pending BRK trap.
func (c *CPU) TakeBrkHit() bool {
	hit := c.brkHit
	c.brkHit = false
	return hit
}

/* memory access, all billed through the MMU */

func (c *CPU) Read8(addr uint16) uint8 {
	return c.Bus.Read(addr)
}

func (c *CPU) Write8(addr uint16, val uint8) {
	c.Bus.Write(addr, val)
}

func (c *CPU) Read16(addr uint16) uint16 {
	lo := c.Read8(addr)
	hi := c.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// tick burns one internal cycle. The 65C02 keeps the bus busy on internal
// cycles too, so this is a dummy read of the current PC.
func (c *CPU) tick() {
	_ = c.Bus.Read(c.PC)
}

/* stack operations */

func push8(c *CPU, val uint8) {
	c.Write8(0x0100+uint16(c.SP), val)
	c.SP--
}

func push16(c *CPU, val uint16) {
	push8(c, uint8(val>>8))
	push8(c, uint8(val&0xff))
}

func pull8(c *CPU) uint8 {
	c.SP++
	return c.Read8(0x0100 + uint16(c.SP))
}

func pull16(c *CPU) uint16 {
	lo := pull8(c)
	hi := pull8(c)
	return uint16(hi)<<8 | uint16(lo)
}

/* interrupt servicing */

func (c *CPU) interrupt(nmi bool) {
	c.tick()
	c.tick()

	prevpc := c.PC
	push16(c, c.PC)

	p := c.P
	p.writeBit(pbitB, false)
	p.writeBit(pbitU, true)
	push8(c, uint8(p))

	c.P.setI(true)
	c.P.setD(false)

	if nmi {
		c.PC = c.Read16(NMIVector)
	} else {
		c.PC = c.Read16(IRQVector)
	}
	c.dbg.Interrupt(prevpc, c.PC, nmi)

	log.ModCPU.DebugZ("interrupt").
		Bool("nmi", nmi).
		Hex16("from", prevpc).
		Hex16("to", c.PC).
		End()
}

/* tracing / debugging */

func (c *CPU) SetTraceOutput(w io.Writer) {
	c.tracer = &tracer{w: w, d: c}
}

func (c *CPU) SetDebugger(dbg Debugger) {
	c.dbg = dbg
}
