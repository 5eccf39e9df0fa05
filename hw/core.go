package hw

import (
	"sync"
	"sync/atomic"

	"caracal/emu/log"
	"caracal/hw/serial"
	"caracal/lnx"
)

// BreakReason tells the caller why an emulation run returned.
type BreakReason uint8

//go:generate go tool stringer -type=BreakReason -trimprefix=Break

const (
	BreakNone BreakReason = iota
	BreakFrame
	BreakTrap
	BreakCancelled
)

// One serial bit time, in system ticks.
const serialBitTicks = 16

// Config carries everything the core needs from the host.
type Config struct {
	Image   *lnx.Image
	BootROM []byte // 512 bytes at FE00, optional

	// Wire connects this machine to its serial peers. Nil gets a private,
	// unconnected wire.
	Wire *serial.Wire
	// DetailedSerial selects the per-bit serial backend over the coarse one.
	DetailedSerial bool

	Video VideoSink
}

// Core is the whole machine: CPU, bus, both co-processors, cartridge and
// serial port, sequenced by one cooperative scheduler.
type Core struct {
	CPU   *CPU
	MMU   *MMU
	Mikey *Mikey
	Suzy  *Suzy
	Cart  *Cartridge
	Com   *serial.ComLynx

	clock Clock
	sched *scheduler
	mixer *Mixer
	input InputState
	image *lnx.Image
	sink  VideoSink

	// mu guards the externally observable state: the committed frame, the
	// debug snapshot and the keypad. The emulation thread takes it during
	// commit, host threads during reads.
	mu         sync.Mutex
	lastFrame  Frame
	frameCount uint64

	stopReq  atomic.Bool
	suzyResp uint32
}

func New(cfg Config) *Core {
	c := &Core{
		sched: newScheduler(),
		mixer: NewMixer(),
		image: cfg.Image,
		sink:  cfg.Video,
	}

	c.MMU = NewMMU(&c.clock)
	c.CPU = NewCPU(c.MMU)
	c.Cart = NewCartridge(cfg.Image)
	c.Mikey = NewMikey(&c.clock, c.mixer)

	wire := cfg.Wire
	if wire == nil {
		wire = serial.NewWire()
	}
	if cfg.DetailedSerial {
		c.Com = serial.NewDetailed(wire)
	} else {
		c.Com = serial.New(wire)
	}

	c.Suzy = NewSuzy()
	c.Suzy.InitBus(c.MMU, c.Cart, &c.input)
	c.Mikey.InitBus(c.MMU, c.CPU, c.Cart, c.Com)
	c.CPU.SetIRQLine(c.Mikey.IRQAsserted)

	boot := cfg.BootROM
	if boot == nil {
		boot = lnx.BootStub()
	}
	copy(c.MMU.Boot[:], boot)

	// Scheduler hooks.
	c.Mikey.requestDMA = func() {
		c.sched.schedule(actVideoDMA, c.clock.Tick)
	}
	c.Mikey.commit = c.commitFrame
	c.Mikey.onSleep = func() {
		if c.Suzy.Working() {
			c.sched.schedule(actSuzy, c.clock.Tick)
		}
	}
	c.Suzy.onSpriteGo = func() {
		c.sched.schedule(actSuzy, c.clock.Tick)
	}

	c.Reset()
	return c
}

// Reset puts the machine back to power-on state.
func (c *Core) Reset() {
	c.clock.Tick = 0
	c.sched.reset()
	c.mixer.Reset()

	c.MMU.Reset()
	c.Mikey.Reset()
	c.Suzy.Reset()
	c.Cart.Reset()

	if c.image != nil && c.image.Kind == lnx.KindBS93 {
		for i, b := range c.image.Program {
			c.MMU.RAM[c.image.LoadAddr+uint16(i)] = b
		}
	}

	c.CPU.Reset()
	if c.image != nil && c.image.Kind == lnx.KindBS93 {
		c.CPU.PC = c.image.LoadAddr
	}

	c.sched.schedule(actSerial, c.clock.Tick+serialBitTicks)
	log.ModEmu.InfoZ("machine reset").Hex16("pc", c.CPU.PC).End()
}

// RequestStop makes the next scheduler iteration return BreakCancelled.
// Safe to call from any thread.
func (c *Core) RequestStop() {
	c.stopReq.Store(true)
}

// SetInput publishes the keypad state to the pad registers.
func (c *Core) SetInput(k Keys) {
	c.mu.Lock()
	c.input.Set(k)
	c.mu.Unlock()
}

// ReadMem and WriteMem give the debugger memory access with no ticks and no
// side effects. ReadMem sees the bus as mapped (registers, boot ROM,
// vectors); WriteMem always lands in RAM.
func (c *Core) ReadMem(addr uint16) uint8 {
	return c.MMU.Peek(addr)
}

func (c *Core) WriteMem(addr uint16, val uint8) {
	c.MMU.Poke(addr, val)
}

// Now returns the current tick.
func (c *Core) Now() uint64 {
	return c.clock.Tick
}

// FrameCount returns the number of frames committed since power-on.
func (c *Core) FrameCount() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameCount
}

// LastFrame copies the most recently committed frame into out.
func (c *Core) LastFrame(out *Frame) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	*out = c.lastFrame
	return c.frameCount
}

// DebugSnapshot is a stopped-world view of the CPU and memory.
type DebugSnapshot struct {
	A, X, Y, SP uint8
	PC          uint16
	P           P
	Tick        uint64
	RAM         [0x10000]byte
}

func (c *Core) DebugSnapshot() *DebugSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := &DebugSnapshot{
		A: c.CPU.A, X: c.CPU.X, Y: c.CPU.Y, SP: c.CPU.SP,
		PC: c.CPU.PC, P: c.CPU.P, Tick: c.clock.Tick,
	}
	snap.RAM = c.MMU.RAM
	return snap
}

func (c *Core) commitFrame(f *Frame) {
	c.mu.Lock()
	c.lastFrame = *f
	c.frameCount++
	c.mu.Unlock()

	if c.sink != nil {
		c.sink.VBlank(f)
	}
	c.CPU.dbg.FrameEnd()
}

// refreshSchedule re-derives the data-dependent queue entries: the earliest
// timer edge, the sprite engine while it holds the bus, and the CPU when
// nothing stalls it.
func (c *Core) refreshSchedule() {
	if dl := c.Mikey.NextTimerDeadline(); dl != noDeadline {
		c.sched.schedule(actTimers, dl)
	} else {
		c.sched.cancel(actTimers)
	}

	if c.Suzy.Working() {
		if !c.sched.has(actSuzy) {
			c.sched.schedule(actSuzy, c.clock.Tick)
		}
		c.sched.cancel(actCPU)
		return
	}
	c.sched.cancel(actSuzy)

	if c.CPU.Stalled() {
		c.sched.cancel(actCPU)
	} else if !c.sched.has(actCPU) {
		c.sched.schedule(actCPU, c.clock.Tick)
	}
}

func (c *Core) dispatch(kind actionKind) {
	switch kind {
	case actTimers:
		c.Mikey.CatchUp(c.clock.Tick)
	case actVideoDMA:
		c.Mikey.LineDMA()
	case actSerial:
		c.Mikey.SerialPulse()
		c.sched.schedule(actSerial, c.clock.Tick+serialBitTicks)
	case actSuzy:
		c.stepSuzy()
	case actCPU:
		c.CPU.Step()
	}
}

// stepSuzy resumes the sprite engine until its next memory operation and
// services that operation, billing the bus time. The scheduler gets control
// back after every access, so due timers and DMA interleave between any two
// of them.
func (c *Core) stepSuzy() {
	p := c.Suzy.proc
	if p == nil {
		c.Suzy.working = false
		return
	}

	req := p.advance(c.suzyResp)
	switch req.kind {
	case reqRead:
		c.suzyResp = uint32(c.MMU.SuzyRead(req.addr))
	case reqRead4:
		c.suzyResp = c.MMU.SuzyRead4(req.addr)
	case reqWrite:
		c.MMU.SuzyWrite(req.addr, req.value)
		c.suzyResp = 0
	case reqVidRMW:
		c.MMU.SuzyVidRMW(req.addr, req.value, req.mask)
		c.suzyResp = 0
	case reqColRMW:
		c.suzyResp = uint32(c.MMU.SuzyColRMW(req.addr, req.value, req.mask))
	case reqXor:
		c.MMU.SuzyXOR(req.addr, req.value)
		c.suzyResp = 0
	case reqDone:
		c.Suzy.proc = nil
		c.suzyResp = 0
	}
}

// runUntil drains the queue up to target. It returns early on a debug trap
// or a host stop request; otherwise the clock ends on target, or past it when
// the last action dispatched ran beyond target.
func (c *Core) runUntil(target uint64) BreakReason {
	for {
		if c.stopReq.CompareAndSwap(true, false) {
			return BreakCancelled
		}

		c.refreshSchedule()
		kind, deadline, ok := c.sched.peek()
		if !ok || deadline > target {
			if c.clock.Tick < target {
				c.clock.Tick = target
				c.Mikey.CatchUp(target)
			}
			return BreakNone
		}
		c.sched.pop()
		if deadline > c.clock.Tick {
			c.clock.Tick = deadline
		}
		c.dispatch(kind)

		if c.CPU.TakeBrkHit() {
			return BreakTrap
		}
	}
}

// RunAudio runs the emulation for exactly as long as it takes to produce
// len(buf)/2 stereo sample pairs at the given rate, then fills buf. It
// returns the pairs written and why it stopped: BreakNone for a full
// buffer, BreakFrame if a frame was also committed, BreakTrap/BreakCancelled
// on early exit.
func (c *Core) RunAudio(sampleRate int, buf []int16) (int, BreakReason) {
	c.mixer.SetSampleRate(sampleRate)
	c.mixer.Rebase(c.clock.Tick)

	pairs := len(buf) / 2
	filled := 0
	startFrames := c.FrameCount()

	for filled < pairs {
		chunk := min(pairs-filled, maxSamplesPerRead/2)
		need := c.mixer.ClocksNeeded(chunk)
		r := c.runUntil(c.clock.Tick + uint64(need))
		c.mixer.EndFrame(c.clock.Tick)
		filled += c.mixer.ReadSamples(buf[filled*2:])
		if r != BreakNone {
			return filled, r
		}
	}

	if c.FrameCount() != startFrames {
		return filled, BreakFrame
	}
	return filled, BreakNone
}

// RunFrame runs the emulation until the next vertical blank and returns the
// committed frame. Returns nil if the display never starts within an
// emulated second (display timers not programmed).
func (c *Core) RunFrame() (*Frame, BreakReason) {
	start := c.FrameCount()
	limit := c.clock.Tick + SystemClockHz

	for c.FrameCount() == start {
		if c.clock.Tick >= limit {
			return nil, BreakNone
		}
		if r := c.runUntil(c.clock.Tick + SystemClockHz/1000); r != BreakNone {
			return nil, r
		}
	}

	frame := new(Frame)
	c.LastFrame(frame)
	return frame, BreakNone
}
