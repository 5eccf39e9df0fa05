package serial

import "caracal/emu/log"

/* per-bit transport: every slot of the frame crosses the wire.

   Frame layout, one slot per Pulse: start (low), 8 data bits LSB-first, a
   parity slot (computed parity when enabled, the PAREVEN bit otherwise),
   stop (high). Transmitter and receiver counters stay aligned because both
   transition on the same pulse cadence. */

type bitTx struct {
	wire *Wire
	id   int

	dataV   uint8
	hasData bool

	level   int
	counter int
	parity  int
	shifter uint8

	parEn  bool
	intEn  bool
	txBrk  bool
	parBit uint8
}

func (t *bitTx) setCtrl(ctrl uint8) {
	t.intEn = ctrl&CtlTxIntEn != 0
	t.parEn = ctrl&CtlParEn != 0
	t.parBit = ctrl & CtlParEven
	t.txBrk = ctrl&CtlTxBrk != 0
}

func (t *bitTx) setData(v uint8) {
	t.dataV = v
	t.hasData = true
}

func (t *bitTx) status() uint8 {
	var s uint8
	if !t.hasData {
		s |= StatTxRdy
	}
	if t.counter == 0 {
		s |= StatTxEmpty
	}
	return s
}

func (t *bitTx) interrupt() bool {
	return !t.hasData && t.intEn
}

func (t *bitTx) pull(bit int) {
	if t.level == bit {
		return
	}
	t.level = bit
	if bit != 0 {
		t.wire.PullUp()
	} else {
		t.wire.PullDown()
	}
}

func (t *bitTx) process() {
	switch t.counter {
	case 2:
		if t.parEn {
			t.pull(t.parity)
		} else {
			t.pull(int(t.parBit))
		}
		t.counter = 1
	case 1:
		t.pull(1) // stop bit
		t.counter = 0
	case 0:
		switch {
		case t.txBrk:
			t.pull(0)
		case t.hasData:
			t.pull(0) // start bit
			t.shifter = t.dataV
			t.hasData = false
			t.counter = 10
			t.parity = 0
			log.ModSerial.DebugZ("tx start").Int("id", t.id).Hex8("val", t.shifter).End()
		default:
			t.pull(1) // idle releases the line, ending any break
		}
	default:
		t.pull(int(t.shifter & 1))
		t.parity ^= int(t.shifter & 1)
		t.shifter >>= 1
		t.counter--
	}
}

type bitRx struct {
	wire *Wire
	id   int

	dataV   uint8
	hasData bool

	counter int
	parity  int
	shifter uint8

	intEn    bool
	parEn    bool
	parBit   uint8 // last sampled parity slot, visible in SERCTL
	parErr   uint8
	frameErr uint8
	overrun  uint8
	rxBrk    uint8
}

func (r *bitRx) setCtrl(ctrl uint8) {
	r.intEn = ctrl&CtlRxIntEn != 0
	r.parEn = ctrl&CtlParEn != 0
	if ctrl&CtlResetErr != 0 {
		r.parErr = 0
		r.frameErr = 0
		r.overrun = 0
		r.rxBrk = 0
	}
}

func (r *bitRx) data() uint8 {
	if !r.hasData {
		log.ModSerial.DebugZ("rx data empty").Int("id", r.id).End()
		return 0
	}
	r.hasData = false
	return r.dataV
}

func (r *bitRx) status() uint8 {
	var s uint8
	if r.hasData {
		s |= StatRxRdy
	}
	return s | r.parErr | r.overrun | r.frameErr | r.rxBrk | r.parBit&StatParBit
}

func (r *bitRx) interrupt() bool {
	return r.hasData && r.intEn
}

func (r *bitRx) process() {
	switch r.counter {
	case 10, 9, 8, 7, 6, 5, 4, 3:
		bit := uint8(r.wire.Level())
		r.shifter = r.shifter>>1 | bit<<7
		r.parity ^= int(bit)
		r.counter--
	case 2:
		r.parBit = uint8(r.wire.Level())
		if r.parEn && r.parity&1 != int(r.parBit) {
			r.parErr = StatParErr
		}
		r.counter = 1
	case 1:
		if r.wire.Level() != 0 {
			if r.hasData {
				r.overrun = StatOverrun
			}
			r.dataV = r.shifter
			r.hasData = true
			r.counter = 0
			log.ModSerial.DebugZ("rx stop").Int("id", r.id).Hex8("val", r.shifter).End()
		} else {
			r.frameErr = StatFrameErr
			r.counter = 11 // watch for a break
		}
	case 0:
		if r.wire.Level() == 0 {
			r.counter = 10
			r.parity = 0
			r.shifter = 0
		}
	default:
		// Post-error state: a held-low line turns into a break, a release
		// re-arms the receiver.
		if r.wire.Level() == 0 {
			r.counter++
			if r.counter > breakBitTimes {
				r.rxBrk = StatRxBrk
			}
		} else {
			r.counter = 0
		}
	}
}
