package hw

import "caracal/emu/log"

// Timer control A bits.
const (
	timerIntEnable = 0x80
	timerResetDone = 0x40
	timerReload    = 0x10
	timerCount     = 0x08
	timerClockMask = 0x07
	timerClockLink = 0x07 // clock select 7 means "linked"
)

// Timer control B bits.
const (
	timerDone      = 0x08
	timerLastClock = 0x04
	timerBorrowIn  = 0x02
	timerBorrowOut = 0x01
)

// hwTimer is one of the eight cascadable counters. A timer either counts
// edges of its prescaler (clock select 0-6: 1 us << sel, in 16 MHz ticks) or
// the borrow-outs of its upstream link (clock select 7).
type hwTimer struct {
	backup uint8
	ctlA   uint8
	count  uint8
	ctlB   uint8

	lastEdge uint64 // tick of the last prescaler edge taken
}

func (t *hwTimer) period() uint64 {
	sel := t.ctlA & timerClockMask
	if sel == timerClockLink {
		return 0
	}
	return 16 << sel
}

// runnable reports whether the timer takes prescaler edges on its own.
// A non-reloading timer parks once its done latch is set.
func (t *hwTimer) runnable() bool {
	if t.ctlA&timerCount == 0 || t.ctlA&timerClockMask == timerClockLink {
		return false
	}
	return t.ctlA&timerReload != 0 || t.ctlB&timerDone == 0
}

func (t *hwTimer) nextDeadline() uint64 {
	if !t.runnable() {
		return noDeadline
	}
	return t.lastEdge + t.period()
}

// The cascade topology. Index 0-7 are the timers, 8-11 the audio channels.
// A borrow-out of entry i clocks entry linkDst[i] when that one has clock
// select 7.
var linkDst = [12]int{
	0:  2,
	1:  3,
	2:  4,
	3:  5,
	4:  -1,
	5:  7,
	6:  -1,
	7:  8,
	8:  9,
	9:  10,
	10: 11,
	11: -1,
}

const noDeadline = ^uint64(0)

// CatchUp advances the whole cascade to now, firing every edge that is due
// in global time order. It is called from the bus on every access, so it is
// the reason software always reads fresh counter values.
func (mk *Mikey) CatchUp(now uint64) {
	if mk.inCatchUp {
		return
	}
	mk.inCatchUp = true

	for {
		best := noDeadline
		idx := -1
		for i := range mk.timers {
			if dl := mk.timers[i].nextDeadline(); dl < best {
				best = dl
				idx = i
			}
		}
		for i := range mk.chans {
			if dl := mk.chans[i].nextDeadline(); dl < best {
				best = dl
				idx = 8 + i
			}
		}
		if idx < 0 || best > now {
			break
		}

		if idx < 8 {
			t := &mk.timers[idx]
			t.lastEdge += t.period()
			mk.clockTimer(idx)
		} else {
			ch := &mk.chans[idx-8]
			ch.lastEdge += ch.period()
			mk.clockAudio(idx-8, best)
		}
	}

	mk.inCatchUp = false
}

// NextTimerDeadline returns the tick of the earliest pending edge, for the
// scheduler.
func (mk *Mikey) NextTimerDeadline() uint64 {
	best := noDeadline
	for i := range mk.timers {
		if dl := mk.timers[i].nextDeadline(); dl < best {
			best = dl
		}
	}
	for i := range mk.chans {
		if dl := mk.chans[i].nextDeadline(); dl < best {
			best = dl
		}
	}
	return best
}

// clockTimer takes one counting edge on timer i, cascading borrows downhill.
func (mk *Mikey) clockTimer(i int) {
	t := &mk.timers[i]
	if t.count > 0 {
		t.count--
		t.ctlB &^= timerBorrowOut
		return
	}

	// Underflow: raise done for this edge and reload if asked to.
	t.ctlB |= timerDone | timerBorrowOut
	if t.ctlA&timerReload != 0 {
		t.count = t.backup
	}

	if t.ctlA&timerIntEnable != 0 {
		mk.setIRQ(1 << uint(i))
	}

	switch i {
	case 0:
		mk.hblank()
	case 2:
		mk.frameEnd()
	}

	mk.cascade(i)
}

// cascade forwards a borrow-out of entry i to its linked downstream entry.
func (mk *Mikey) cascade(i int) {
	dst := linkDst[i]
	if dst < 0 {
		return
	}
	if dst < 8 {
		t := &mk.timers[dst]
		if t.ctlA&timerCount != 0 && t.ctlA&timerClockMask == timerClockLink {
			mk.clockTimer(dst)
		}
		return
	}
	ch := &mk.chans[dst-8]
	if ch.ctl&timerCount != 0 && ch.ctl&timerClockMask == timerClockLink {
		mk.clockAudio(dst-8, mk.clock.Tick)
	}
}

/* timer register file: FD00-FD1F, 4 bytes each */

func (mk *Mikey) ReadTIMERS(addr uint16) uint8 {
	i := int(addr-0xFD00) >> 2
	t := &mk.timers[i]
	switch addr & 3 {
	case 0:
		return t.backup
	case 1:
		return t.ctlA
	case 2:
		return t.count
	default:
		return t.ctlB
	}
}

func (mk *Mikey) PeekTIMERS(addr uint16) uint8 {
	return mk.ReadTIMERS(addr)
}

func (mk *Mikey) WriteTIMERS(addr uint16, val uint8) {
	i := int(addr-0xFD00) >> 2
	t := &mk.timers[i]
	switch addr & 3 {
	case 0:
		t.backup = val
	case 1:
		if val&timerResetDone != 0 {
			t.ctlB &^= timerDone | timerLastClock | timerBorrowIn | timerBorrowOut
		}
		t.ctlA = val &^ timerResetDone
		t.lastEdge = mk.clock.Tick
	case 2:
		t.count = val
		t.lastEdge = mk.clock.Tick
	default:
		t.ctlB = val & (timerDone | timerLastClock | timerBorrowIn | timerBorrowOut)
	}

	log.ModMikey.DebugZ("timer write").
		Int("timer", i).
		Hex16("addr", addr).
		Hex8("val", val).
		End()
}
