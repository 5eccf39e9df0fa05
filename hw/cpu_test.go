package hw

import "testing"

func TestPString(t *testing.T) {
	p := P(0b00110100)
	if got := p.String(); got != "nvUBdIzc" {
		t.Errorf("got P = %s, want %s", got, "nvUBdIzc")
	}
	p = P(0b00000100)
	if p.String() != "nvubdIzc" {
		t.Errorf("got P = %s, want %s", p.String(), "nvubdIzc")
	}
}

func TestOpcodeTableComplete(t *testing.T) {
	for op, fn := range ops {
		if fn == nil {
			t.Errorf("opcode %02X has no handler", op)
		}
	}
}

func TestLoadStoreFlags(t *testing.T) {
	cpu := newTestCPU(t)
	load(cpu, 0x0200,
		0xA9, 0x00, // LDA #$00
		0xA9, 0x80, // LDA #$80
		0xA2, 0x7F, // LDX #$7F
		0x85, 0x10, // STA $10
	)

	cpu.Step()
	wantFlag(t, "Z", cpu.P.Z(), true)
	wantFlag(t, "N", cpu.P.N(), false)

	cpu.Step()
	wantFlag(t, "Z", cpu.P.Z(), false)
	wantFlag(t, "N", cpu.P.N(), true)

	cpu.Step()
	if cpu.X != 0x7F {
		t.Errorf("X = %02X, want 7F", cpu.X)
	}
	wantFlag(t, "N", cpu.P.N(), false)

	cpu.Step()
	if got := cpu.Bus.Peek(0x10); got != 0x80 {
		t.Errorf("mem[10] = %02X, want 80", got)
	}
}

func TestADCBinary(t *testing.T) {
	tests := []struct {
		a, operand uint8
		carryIn    bool
		want       uint8
		c, v, n, z bool
	}{
		{0x01, 0x01, false, 0x02, false, false, false, false},
		{0x7F, 0x01, false, 0x80, false, true, true, false},
		{0xFF, 0x01, false, 0x00, true, false, false, true},
		{0x80, 0x80, false, 0x00, true, true, false, true},
		{0x50, 0x50, false, 0xA0, false, true, true, false},
		{0xFF, 0xFF, true, 0xFF, true, false, true, false},
	}

	for _, tt := range tests {
		cpu := newTestCPU(t)
		cpu.A = tt.a
		cpu.P.setC(tt.carryIn)
		load(cpu, 0x0200, 0x69, tt.operand) // ADC #imm
		cpu.Step()

		if cpu.A != tt.want {
			t.Errorf("%02X+%02X: A = %02X, want %02X", tt.a, tt.operand, cpu.A, tt.want)
		}
		wantFlag(t, "C", cpu.P.C(), tt.c)
		wantFlag(t, "V", cpu.P.V(), tt.v)
		wantFlag(t, "N", cpu.P.N(), tt.n)
		wantFlag(t, "Z", cpu.P.Z(), tt.z)
	}
}

// Decimal mode adjusts like the CMOS core: V from the binary intermediate,
// N/Z from the adjusted result.
func TestADCDecimal(t *testing.T) {
	tests := []struct {
		a, operand uint8
		carryIn    bool
		want       uint8
		carryOut   bool
	}{
		{0x09, 0x01, false, 0x10, false},
		{0x50, 0x50, false, 0x00, true},
		{0x99, 0x01, false, 0x00, true},
		{0x12, 0x34, false, 0x46, false},
		{0x15, 0x26, false, 0x41, false},
		{0x81, 0x92, false, 0x73, true},
	}

	for _, tt := range tests {
		cpu := newTestCPU(t)
		cpu.A = tt.a
		cpu.P.setD(true)
		cpu.P.setC(tt.carryIn)
		load(cpu, 0x0200, 0x69, tt.operand)
		cpu.Step()

		if cpu.A != tt.want {
			t.Errorf("BCD %02X+%02X: A = %02X, want %02X", tt.a, tt.operand, cpu.A, tt.want)
		}
		wantFlag(t, "C", cpu.P.C(), tt.carryOut)
	}
}

func TestSBCDecimal(t *testing.T) {
	tests := []struct {
		a, operand uint8
		carryIn    bool
		want       uint8
		carryOut   bool
	}{
		{0x00, 0x01, true, 0x99, false},
		{0x46, 0x12, true, 0x34, true},
		{0x40, 0x13, true, 0x27, true},
		{0x32, 0x02, false, 0x29, true},
	}

	for _, tt := range tests {
		cpu := newTestCPU(t)
		cpu.A = tt.a
		cpu.P.setD(true)
		cpu.P.setC(tt.carryIn)
		load(cpu, 0x0200, 0xE9, tt.operand) // SBC #imm
		cpu.Step()

		if cpu.A != tt.want {
			t.Errorf("BCD %02X-%02X: A = %02X, want %02X", tt.a, tt.operand, cpu.A, tt.want)
		}
		wantFlag(t, "C", cpu.P.C(), tt.carryOut)
	}
}

// Branches cost 2 cycles not taken, 3 taken, 4 across a page. On this bus a
// same-page cycle is 4 ticks, so the deltas below are exact.
func TestBranchTiming(t *testing.T) {
	measure := func(prog []uint8, setup func(*CPU)) uint64 {
		cpu := newTestCPU(t)
		load(cpu, 0x0280, prog...)
		cpu.PC = 0x0280
		if setup != nil {
			setup(cpu)
		}
		// Align the page-tracking with the code page.
		_ = cpu.Bus.Read(0x0280)
		start := cpu.Bus.Now()
		cpu.Step()
		return cpu.Bus.Now() - start
	}

	// BNE not taken: fetch + operand.
	got := measure([]uint8{0xD0, 0x02}, func(c *CPU) { c.P.setZ(true) })
	if got != 8 {
		t.Errorf("BNE not taken: %d ticks, want 8", got)
	}

	// BNE taken, same page.
	got = measure([]uint8{0xD0, 0x02}, func(c *CPU) { c.P.setZ(false) })
	if got != 12 {
		t.Errorf("BNE taken: %d ticks, want 12", got)
	}

	// BNE taken, crossing into the next page (0280+2+7E = 0300).
	got = measure([]uint8{0xD0, 0x7E}, func(c *CPU) { c.P.setZ(false) })
	if got != 16 {
		t.Errorf("BNE taken across page: %d ticks, want 16", got)
	}
}

func TestJSRRTS(t *testing.T) {
	cpu := newTestCPU(t)
	load(cpu, 0x0200,
		0x20, 0x20, 0x02, // JSR $0220
		0xEA, // NOP
	)
	load(cpu, 0x0220,
		0xE8, // INX
		0x60, // RTS
	)

	run(cpu, 3)
	if cpu.PC != 0x0203 {
		t.Errorf("PC after RTS = %04X, want 0203", cpu.PC)
	}
	if cpu.X != 1 {
		t.Errorf("X = %d, want 1", cpu.X)
	}
	if cpu.SP != 0xFD {
		t.Errorf("SP = %02X, want FD", cpu.SP)
	}
}

func TestBRK(t *testing.T) {
	cpu := newTestCPU(t)
	cpu.P.setD(true)
	load(cpu, 0x0200, 0x00, 0xFF) // BRK + padding
	cpu.Step()

	if cpu.PC != 0x0180 {
		t.Errorf("PC = %04X, want 0180 (IRQ vector)", cpu.PC)
	}
	wantFlag(t, "I", cpu.P.I(), true)
	wantFlag(t, "D", cpu.P.D(), false)

	// Stack: PCH, PCL (=0202), then P with B set.
	if hi := cpu.Bus.Peek(0x01FD); hi != 0x02 {
		t.Errorf("pushed PCH = %02X, want 02", hi)
	}
	if lo := cpu.Bus.Peek(0x01FC); lo != 0x02 {
		t.Errorf("pushed PCL = %02X, want 02", lo)
	}
	if p := P(cpu.Bus.Peek(0x01FB)); !p.bit(pbitB) {
		t.Errorf("pushed P = %s, want B set", p)
	}
}

func TestIRQLatching(t *testing.T) {
	irq := false
	cpu := newTestCPU(t)
	cpu.SetIRQLine(func() bool { return irq })
	cpu.P.setI(false)
	load(cpu, 0x0200, 0xEA, 0xEA) // NOPs
	load(cpu, 0x0180, 0xEA, 0x40) // handler: NOP, RTI

	cpu.Step()
	if cpu.PC != 0x0201 {
		t.Fatalf("PC = %04X, want 0201", cpu.PC)
	}

	// Level raised: the next step services the interrupt, then runs the
	// handler's first instruction.
	irq = true
	cpu.Step()
	if cpu.PC != 0x0181 {
		t.Errorf("PC = %04X, want 0181 (inside handler)", cpu.PC)
	}
	wantFlag(t, "I", cpu.P.I(), true)

	// RTI restores the pre-interrupt P, including the clear I.
	irq = false
	cpu.Step()
	if cpu.PC != 0x0201 {
		t.Errorf("PC = %04X, want 0201 after RTI", cpu.PC)
	}
	if cpu.P.I() {
		t.Errorf("I still set after RTI")
	}
}

func TestNMIEdge(t *testing.T) {
	cpu := newTestCPU(t)
	cpu.P.setI(true) // NMI ignores the mask
	load(cpu, 0x0200, 0xEA, 0xEA, 0xEA)
	load(cpu, 0x0180, 0xEA, 0xEA)

	cpu.SetNMI(true)
	cpu.Step() // executes NOP, latches the edge
	cpu.Step() // services NMI, runs the handler's first NOP
	if cpu.PC != 0x0181 {
		t.Errorf("PC = %04X, want 0181", cpu.PC)
	}

	// Level stays high: no second service without an edge.
	cpu.Step()
	if cpu.PC != 0x0182 {
		t.Errorf("PC = %04X, want 0182 (no retrigger)", cpu.PC)
	}
}

func TestRMWTiming(t *testing.T) {
	cpu := newTestCPU(t)
	cpu.Bus.Poke(0x10, 0x41)
	load(cpu, 0x0200, 0x06, 0x10) // ASL $10
	_ = cpu.Bus.Read(0x0200)
	start := cpu.Bus.Now()
	cpu.Step()

	// fetch(4) + operand(4) + read zp(5, page change) + dummy write(4) +
	// write(4) = 21 ticks.
	if got := cpu.Bus.Now() - start; got != 21 {
		t.Errorf("ASL zp: %d ticks, want 21", got)
	}
	if got := cpu.Bus.Peek(0x10); got != 0x82 {
		t.Errorf("mem[10] = %02X, want 82", got)
	}
}

func TestCMOSOps(t *testing.T) {
	t.Run("STZ", func(t *testing.T) {
		cpu := newTestCPU(t)
		cpu.Bus.Poke(0x10, 0xFF)
		load(cpu, 0x0200, 0x64, 0x10) // STZ $10
		cpu.Step()
		if got := cpu.Bus.Peek(0x10); got != 0 {
			t.Errorf("mem[10] = %02X, want 00", got)
		}
	})

	t.Run("TSB/TRB", func(t *testing.T) {
		cpu := newTestCPU(t)
		cpu.A = 0x0F
		cpu.Bus.Poke(0x10, 0xF0)
		load(cpu, 0x0200,
			0x04, 0x10, // TSB $10
			0x14, 0x10, // TRB $10
		)
		cpu.Step()
		if got := cpu.Bus.Peek(0x10); got != 0xFF {
			t.Errorf("after TSB: %02X, want FF", got)
		}
		wantFlag(t, "Z", cpu.P.Z(), true) // A & old == 0

		cpu.Step()
		if got := cpu.Bus.Peek(0x10); got != 0xF0 {
			t.Errorf("after TRB: %02X, want F0", got)
		}
		wantFlag(t, "Z", cpu.P.Z(), false)
	})

	t.Run("PHX/PLY", func(t *testing.T) {
		cpu := newTestCPU(t)
		cpu.X = 0x42
		load(cpu, 0x0200,
			0xDA, // PHX
			0x7A, // PLY
		)
		run(cpu, 2)
		if cpu.Y != 0x42 {
			t.Errorf("Y = %02X, want 42", cpu.Y)
		}
	})

	t.Run("INC A", func(t *testing.T) {
		cpu := newTestCPU(t)
		cpu.A = 0xFF
		load(cpu, 0x0200, 0x1A)
		cpu.Step()
		wantA(t, cpu, 0x00)
		wantFlag(t, "Z", cpu.P.Z(), true)
	})

	t.Run("BIT imm only sets Z", func(t *testing.T) {
		cpu := newTestCPU(t)
		cpu.A = 0x01
		cpu.P.setN(true)
		cpu.P.setV(true)
		load(cpu, 0x0200, 0x89, 0xC0) // BIT #$C0
		cpu.Step()
		wantFlag(t, "Z", cpu.P.Z(), true)
		wantFlag(t, "N", cpu.P.N(), true) // untouched
		wantFlag(t, "V", cpu.P.V(), true) // untouched
	})

	t.Run("LDA (zp)", func(t *testing.T) {
		cpu := newTestCPU(t)
		cpu.Bus.Poke(0x20, 0x34)
		cpu.Bus.Poke(0x21, 0x12)
		cpu.Bus.Poke(0x1234, 0x99)
		load(cpu, 0x0200, 0xB2, 0x20) // LDA ($20)
		cpu.Step()
		wantA(t, cpu, 0x99)
	})

	t.Run("RMB/SMB/BBR/BBS", func(t *testing.T) {
		cpu := newTestCPU(t)
		cpu.Bus.Poke(0x10, 0b0000_0100)
		load(cpu, 0x0200,
			0x27, 0x10, // RMB2 $10
			0x87, 0x10, // SMB0 $10
			0x0F, 0x10, 0x01, // BBR0 $10,+1 (not taken: bit 0 is set)
			0xEA,             // NOP
			0x8F, 0x10, 0x01, // BBS0 $10,+1 (taken)
			0xEA, // skipped
			0xEA, // target
		)
		run(cpu, 2)
		if got := cpu.Bus.Peek(0x10); got != 0x01 {
			t.Fatalf("mem[10] = %02X, want 01", got)
		}
		cpu.Step() // BBR0, not taken
		if cpu.PC != 0x0207 {
			t.Errorf("PC = %04X, want 0207", cpu.PC)
		}
		cpu.Step() // NOP
		cpu.Step() // BBS0, taken over one byte
		if cpu.PC != 0x020C {
			t.Errorf("PC = %04X, want 020C", cpu.PC)
		}
	})
}

func TestWAIAndSTP(t *testing.T) {
	cpu := newTestCPU(t)
	load(cpu, 0x0200, 0xCB, 0xEA) // WAI, NOP
	cpu.Step()
	if !cpu.Stalled() {
		t.Fatal("CPU not stalled after WAI")
	}
	cpu.Wake()
	cpu.Step()
	if cpu.PC != 0x0202 {
		t.Errorf("PC = %04X, want 0202", cpu.PC)
	}

	cpu2 := newTestCPU(t)
	load(cpu2, 0x0200, 0xDB) // STP
	cpu2.Step()
	if !cpu2.Stalled() {
		t.Fatal("CPU not halted after STP")
	}
	cpu2.Wake() // STP only clears on reset
	if !cpu2.Stalled() {
		t.Fatal("Wake cleared STP halt")
	}
}

func TestBreakOnBrk(t *testing.T) {
	cpu := newTestCPU(t)
	cpu.SetBreakOnBrk(true)
	load(cpu, 0x0200, 0x00, 0x00)
	cpu.Step()
	if !cpu.TakeBrkHit() {
		t.Error("BRK trap not latched")
	}
	if cpu.TakeBrkHit() {
		t.Error("BRK trap not cleared by TakeBrkHit")
	}
}
