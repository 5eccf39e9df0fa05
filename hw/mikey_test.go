package hw

import "testing"

// Timer 0 on prescaler 0, timer 2 linked to it: timer 2's done must land
// exactly every (backup0+1)*(backup2+1) prescaler periods, with no drift
// over many frames' worth of ticks.
func TestTimerCascade(t *testing.T) {
	c := newTestCore(t)
	c.runUntil(c.clock.Tick + 100) // park the CPU
	m := c.MMU

	m.Write(0xFD00, 0x66) // timer0 backup = 102
	m.Write(0xFD02, 0x66) // timer0 count
	m.Write(0xFD08, 0x67) // timer2 backup = 103
	m.Write(0xFD0A, 0x67) // timer2 count
	m.Write(0xFD09, 0x9F) // timer2: irq, reload, count, linked
	m.Write(0xFD01, 0x18) // timer0: reload, count, 1us clock. Starts here.
	t0 := c.clock.Tick

	const period = 103 * 104 * 16

	for i := uint64(1); i <= 6; i++ {
		c.runUntil(t0 + i*period - 16)
		if c.Mikey.intpend&intTimer2 != 0 {
			t.Fatalf("period %d: timer2 fired early", i)
		}
		c.runUntil(t0 + i*period)
		if c.Mikey.intpend&intTimer2 == 0 {
			t.Fatalf("period %d: timer2 did not fire", i)
		}
		m.Write(0xFD80, intTimer2) // acknowledge
	}
}

func TestTimerCountReads(t *testing.T) {
	c := newTestCore(t)
	c.runUntil(c.clock.Tick + 100)
	m := c.MMU

	m.Write(0xFD04, 10)   // timer1 backup
	m.Write(0xFD06, 10)   // timer1 count
	m.Write(0xFD05, 0x18) // reload, count, 1us
	t0 := c.clock.Tick

	c.runUntil(t0 + 5*16)
	if got := m.Read(0xFD06); got != 5 {
		t.Errorf("count after 5 edges = %d, want 5", got)
	}

	// Underflow raises the done latch; a control write with the reset-done
	// bit clears it.
	c.runUntil(t0 + 12*16)
	if got := m.Read(0xFD07); got&timerDone == 0 {
		t.Errorf("ctlB = %02X, want done set", got)
	}
	m.Write(0xFD05, 0x18|0x40)
	if got := m.Read(0xFD07); got&timerDone != 0 {
		t.Errorf("ctlB = %02X, want done cleared", got)
	}
}

func TestTimerOneShotParks(t *testing.T) {
	c := newTestCore(t)
	c.runUntil(c.clock.Tick + 100)
	m := c.MMU

	m.Write(0xFD04, 3)
	m.Write(0xFD06, 3)
	m.Write(0xFD05, 0x08) // count, no reload
	t0 := c.clock.Tick

	c.runUntil(t0 + 100*16)
	if got := m.Read(0xFD06); got != 0 {
		t.Errorf("one-shot count = %d, want 0", got)
	}
	if got := m.Read(0xFD07); got&timerDone == 0 {
		t.Errorf("one-shot done not set")
	}
}

func TestInterruptSetReset(t *testing.T) {
	c := newTestCore(t)
	c.runUntil(c.clock.Tick + 100)
	m := c.MMU

	m.Write(0xFD81, 0x05) // INTSET
	if got := m.Read(0xFD80); got != 0x05 {
		t.Errorf("INTRST read = %02X, want 05", got)
	}
	if !c.Mikey.IRQAsserted() {
		t.Error("IRQ line not asserted")
	}

	m.Write(0xFD80, 0x01) // clear bit 0
	if got := m.Read(0xFD81); got != 0x04 {
		t.Errorf("INTSET read = %02X, want 04", got)
	}
	m.Write(0xFD80, 0xFF)
	if c.Mikey.IRQAsserted() {
		t.Error("IRQ line still asserted after full reset")
	}
}

func TestPaletteRecomposition(t *testing.T) {
	c := newTestCore(t)
	m := c.MMU

	m.Write(0xFDA3, 0x0C) // green for entry 3
	m.Write(0xFDB3, 0x5A) // blue 5, red A
	want := uint32(0xFF000000 | 0xAA<<16 | 0xCC<<8 | 0x55)
	if got := c.Mikey.pal[3]; got != want {
		t.Errorf("palette[3] = %08X, want %08X", got, want)
	}

	// Raw register values read back.
	if got := m.Read(0xFDA3); got != 0x0C {
		t.Errorf("GREEN readback = %02X, want 0C", got)
	}
	if got := m.Read(0xFDB3); got != 0x5A {
		t.Errorf("BLUERED readback = %02X, want 5A", got)
	}
}

func TestAudioChannelProducesSamples(t *testing.T) {
	c := newTestCore(t)
	c.runUntil(c.clock.Tick + 100)
	m := c.MMU

	m.Write(0xFD20, 100)  // channel 0 volume
	m.Write(0xFD21, 0x01) // feedback tap 0
	m.Write(0xFD24, 200)  // backup
	m.Write(0xFD26, 200)  // count
	m.Write(0xFD25, 0x18) // reload, count, 1us

	buf := make([]int16, 2048)
	n, reason := c.RunAudio(44100, buf)
	if n != len(buf)/2 {
		t.Fatalf("RunAudio returned %d pairs, want %d", n, len(buf)/2)
	}
	if reason != BreakNone && reason != BreakFrame {
		t.Fatalf("RunAudio reason = %s", reason)
	}

	nonzero := false
	for _, s := range buf {
		if s != 0 {
			nonzero = true
			break
		}
	}
	if !nonzero {
		t.Error("audio buffer is all silence")
	}
}

func TestCancellation(t *testing.T) {
	c := newTestCore(t)
	c.RequestStop()
	buf := make([]int16, 512)
	_, reason := c.RunAudio(44100, buf)
	if reason != BreakCancelled {
		t.Errorf("reason = %s, want Cancelled", reason)
	}
}
