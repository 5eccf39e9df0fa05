package serial

import (
	"math/bits"

	"caracal/emu/log"
)

// SERCTL write bits.
const (
	CtlTxIntEn  = 0x80
	CtlRxIntEn  = 0x40
	CtlParEn    = 0x10
	CtlResetErr = 0x08
	CtlTxOpen   = 0x04
	CtlTxBrk    = 0x02
	CtlParEven  = 0x01
)

// SERCTL read bits.
const (
	StatTxRdy    = 0x80
	StatRxRdy    = 0x40
	StatTxEmpty  = 0x20
	StatParErr   = 0x10
	StatOverrun  = 0x08
	StatFrameErr = 0x04
	StatRxBrk    = 0x02
	StatParBit   = 0x01
)

// A byte frame is start + 8 data bits + parity slot + stop: 11 bit times.
// The receiver calls the line broken after this many bit times of
// uninterrupted low.
const breakBitTimes = 24

type transmitter interface {
	process()
	setCtrl(v uint8)
	status() uint8
	setData(v uint8)
	interrupt() bool
}

type receiver interface {
	process()
	setCtrl(v uint8)
	status() uint8
	data() uint8
	interrupt() bool
}

// ComLynx is one party's serial front-end: a transmitter/receiver pair
// sharing the wire, both advanced one bit time per Pulse.
type ComLynx struct {
	id int
	tx transmitter
	rx receiver
}

// New connects a party using the coarse byte transport.
func New(wire *Wire) *ComLynx {
	id := wire.Connect()
	return &ComLynx{
		id: id,
		tx: &coarseTx{wire: wire, id: id, level: 1},
		rx: &coarseRx{wire: wire, id: id},
	}
}

// NewDetailed connects a party using the per-bit transport.
func NewDetailed(wire *Wire) *ComLynx {
	id := wire.Connect()
	return &ComLynx{
		id: id,
		tx: &bitTx{wire: wire, id: id, level: 1},
		rx: &bitRx{wire: wire, id: id},
	}
}

// Pulse advances both state machines by one bit time and reports whether a
// serial interrupt is asserted.
func (c *ComLynx) Pulse() bool {
	c.tx.process()
	c.rx.process()
	return c.rx.interrupt() || c.tx.interrupt()
}

func (c *ComLynx) SetCtrl(v uint8) {
	c.tx.setCtrl(v)
	c.rx.setCtrl(v)
}

func (c *ComLynx) Status() uint8 {
	return c.tx.status() | c.rx.status()
}

func (c *ComLynx) SetData(v uint8) {
	c.tx.setData(v)
}

func (c *ComLynx) Data() uint8 {
	return c.rx.data()
}

func (c *ComLynx) Interrupt() bool {
	return c.rx.interrupt() || c.tx.interrupt()
}

/* coarse transport: whole bytes posted on the wire, two transitions each */

type coarseTx struct {
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

func (t *coarseTx) setCtrl(ctrl uint8) {
	t.intEn = ctrl&CtlTxIntEn != 0
	t.parEn = ctrl&CtlParEn != 0
	t.parBit = ctrl & CtlParEven
	t.txBrk = ctrl&CtlTxBrk != 0
}

func (t *coarseTx) setData(v uint8) {
	t.dataV = v
	t.hasData = true
	log.ModSerial.DebugZ("tx data").Int("id", t.id).Hex8("val", v).End()
}

func (t *coarseTx) status() uint8 {
	var s uint8
	if !t.hasData {
		s |= StatTxRdy
	}
	if t.counter == 0 {
		s |= StatTxEmpty
	}
	return s
}

func (t *coarseTx) interrupt() bool {
	return !t.hasData && t.intEn
}

func (t *coarseTx) pull(bit int) {
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

func (t *coarseTx) process() {
	switch t.counter {
	case 1:
		// Byte time elapsed: post it and release the line for the stop bit.
		t.parity = bits.OnesCount8(t.shifter) & 1
		par := uint8(t.parity)
		if !t.parEn {
			par = t.parBit
		}
		t.pull(1)
		t.wire.postCoarse(t.shifter, par)
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
		t.counter--
	}
}

type coarseRx struct {
	wire *Wire
	id   int

	seq     uint64
	dataV   uint8
	hasData bool

	counter int

	intEn    bool
	parEn    bool
	parEven  uint8
	parity   uint8 // last received parity bit, visible in SERCTL
	parErr   uint8
	frameErr uint8
	overrun  uint8
	rxBrk    uint8
}

func (r *coarseRx) setCtrl(ctrl uint8) {
	r.intEn = ctrl&CtlRxIntEn != 0
	r.parEn = ctrl&CtlParEn != 0
	r.parEven = ctrl & CtlParEven
	if ctrl&CtlResetErr != 0 {
		r.parErr = 0
		r.frameErr = 0
		r.overrun = 0
		r.rxBrk = 0
	}
}

func (r *coarseRx) data() uint8 {
	if !r.hasData {
		log.ModSerial.DebugZ("rx data empty").Int("id", r.id).End()
		return 0
	}
	r.hasData = false
	return r.dataV
}

func (r *coarseRx) status() uint8 {
	var s uint8
	if r.hasData {
		s |= StatRxRdy
	}
	return s | r.parErr | r.overrun | r.frameErr | r.rxBrk | r.parity
}

func (r *coarseRx) interrupt() bool {
	return r.hasData && r.intEn
}

func (r *coarseRx) process() {
	if r.counter == 0 {
		// Monitoring for a start bit: a pulled line arms reception. Drain
		// the coarse slot so a stale posting isn't mistaken for this frame.
		r.wire.takeCoarse(&r.seq)
		if r.wire.Level() == 0 {
			r.counter = 1
		}
		return
	}

	d, par, ok := r.wire.takeCoarse(&r.seq)
	switch {
	case ok:
		if r.counter <= breakBitTimes {
			if r.hasData {
				r.overrun = StatOverrun
			}
			r.dataV = d
			r.hasData = true
			r.parity = par & StatParBit
			if r.parEn && par != uint8(bits.OnesCount8(d))&1 {
				r.parErr = StatParErr
			}
			log.ModSerial.DebugZ("rx stop").Int("id", r.id).Hex8("val", d).End()
		}
		r.counter = 0
	case r.wire.Level() == 0:
		r.counter++
		if r.counter > breakBitTimes {
			r.rxBrk = StatRxBrk
		}
	default:
		// Line released without a posted byte: a break ended, or the frame
		// fell apart.
		if r.counter <= breakBitTimes {
			r.frameErr = StatFrameErr
		}
		r.counter = 0
	}
}
