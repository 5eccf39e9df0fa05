package hw

import (
	"caracal/emu/log"
	"caracal/hw/hwio"
)

// Sprite types, SPRCTL0 bits 2-0.
type SpriteType uint8

//go:generate go tool stringer -type=SpriteType -trimprefix=Sprite

const (
	SpriteBackShadow SpriteType = iota
	SpriteBackNonColl
	SpriteBoundShadow
	SpriteBound
	SpriteNormal
	SpriteNonColl
	SpriteXorShadow
	SpriteShadow
)

// SPRGO bits.
const (
	sprGoEnable = 0x01
	sprGoEveron = 0x04
)

// SPRSYS write bits.
const (
	sprSysSignMath   = 0x80
	sprSysAccumulate = 0x40
	sprSysNoCollide  = 0x20
	sprSysVStretch   = 0x10
	sprSysLeftHand   = 0x08
	sprSysUnsafeRst  = 0x04
	sprSysStop       = 0x02
)

// SPRSYS read bits.
const (
	sprSysMathWorking = 0x80
	sprSysMathWarning = 0x40
	sprSysMathCarry   = 0x20
	sprSysUnsafe      = 0x04
	sprSysWorking     = 0x01
)

// scbRegs is the sprite engine's working register file: the on-chip shadow
// of the current Sprite Control Block plus the pointers and accumulators the
// quadrant renderer runs on. All 16-bit, mapped as byte pairs at FC00-FC2F.
type scbRegs struct {
	tmpadr   uint16
	tiltacum uint16
	hoff     uint16
	voff     uint16
	vidbas   uint16
	collbas  uint16
	vidadr   uint16
	colladr  uint16
	scbnext  uint16
	sprdline uint16
	hposstrt uint16
	vposstrt uint16
	sprhsiz  uint16
	sprvsiz  uint16
	stretch  uint16
	tilt     uint16
	sprdoff  uint16
	sprvpos  uint16
	colloff  uint16
	vsizacum uint16
	hsizoff  uint16
	vsizoff  uint16
	scbadr   uint16
	procadr  uint16
}

func (s *scbRegs) reg(i int) *uint16 {
	regs := [...]*uint16{
		&s.tmpadr, &s.tiltacum, &s.hoff, &s.voff,
		&s.vidbas, &s.collbas, &s.vidadr, &s.colladr,
		&s.scbnext, &s.sprdline, &s.hposstrt, &s.vposstrt,
		&s.sprhsiz, &s.sprvsiz, &s.stretch, &s.tilt,
		&s.sprdoff, &s.sprvpos, &s.colloff, &s.vsizacum,
		&s.hsizoff, &s.vsizoff, &s.scbadr, &s.procadr,
	}
	return regs[i]
}

// Suzy is the sprite/blitter co-processor: the SCB walker and quadrant
// renderer, the hardware math unit, and the cartridge/joystick read ports.
type Suzy struct {
	Regs *hwio.Table

	// FC00-FC7F: SCB shadow file and math unit, hand-dispatched.
	File hwio.Device `hwio:"offset=0x00,size=0x80,rcb,wcb,pcb=PeekFILE"`

	SprCtl0 hwio.Reg8 `hwio:"offset=0x80,wcb"`
	SprCtl1 hwio.Reg8 `hwio:"offset=0x81,wcb"`
	SprColl hwio.Reg8 `hwio:"offset=0x82,wcb"`
	SprInit hwio.Reg8 `hwio:"offset=0x83"`

	HRev hwio.Reg8 `hwio:"offset=0x88,reset=0x01"`
	SRev hwio.Reg8 `hwio:"offset=0x89"`

	BusEn  hwio.Reg8 `hwio:"offset=0x90,reset=0x01"`
	SprGo  hwio.Reg8 `hwio:"offset=0x91,wcb"`
	SprSys hwio.Reg8 `hwio:"offset=0x92,rcb,wcb"`

	Joystick hwio.Reg8 `hwio:"offset=0xB0,rcb"`
	Switches hwio.Reg8 `hwio:"offset=0xB1,rcb"`
	RCart0   hwio.Reg8 `hwio:"offset=0xB2,rcb,wcb"`
	RCart1   hwio.Reg8 `hwio:"offset=0xB3,rcb,wcb"`

	scb  scbRegs
	math mathUnit

	// SPRCTL0/1, SPRCOLL decoded at write time.
	bpp        int
	hflip      bool
	vflip      bool
	sprType    SpriteType
	literal    bool
	reload     int // 0 none, 1 HV, 2 HVS, 3 HVST
	reusePal   bool
	skip       bool
	startUp    int
	startLeft  int
	collNum    uint8
	collideOff bool // SPRCOLL no-collide bit

	palette [16]uint8

	// SPRSYS state
	signMath   bool
	accumulate bool
	noCollide  bool
	vstretch   bool
	stopReq    bool
	unsafeAcc  bool

	working bool
	everon  bool // SPRGO everon enable
	proc    *suzyProcess

	cart  *Cartridge
	input *InputState

	// scheduler hook, set by the core
	onSpriteGo func()
}

func NewSuzy() *Suzy {
	return &Suzy{
		Regs: hwio.NewTable("suzy"),
	}
}

func (s *Suzy) InitBus(mmu *MMU, cart *Cartridge, input *InputState) {
	s.cart = cart
	s.input = input

	hwio.MustInitRegs(s)
	s.Regs.MapBank(0xFC00, s, 0)
	s.Regs.Unmapped = openBus{}

	mmu.suzy = s
}

func (s *Suzy) Reset() {
	s.scb = scbRegs{}
	s.math = mathUnit{}
	s.working = false
	s.proc = nil
	s.stopReq = false
	s.unsafeAcc = false
	s.signMath = false
	s.accumulate = false
	s.noCollide = false
	s.vstretch = false
	s.everon = false
	s.BusEn.Value = 0x01
	s.SprGo.Value = 0
	for i := range s.palette {
		s.palette[i] = 0
	}
}

// Working reports whether the sprite engine holds the bus.
func (s *Suzy) Working() bool {
	return s.working
}

/* SCB shadow file and math unit: FC00-FC7F */

func (s *Suzy) ReadFILE(addr uint16) uint8 {
	off := addr - 0xFC00
	switch {
	case off < 0x30:
		r := *s.scb.reg(int(off >> 1))
		if off&1 != 0 {
			return uint8(r >> 8)
		}
		return uint8(r)
	case off >= 0x52 && off <= 0x6F:
		return s.math.read(off)
	}
	return 0xFF
}

func (s *Suzy) PeekFILE(addr uint16) uint8 {
	return s.ReadFILE(addr)
}

func (s *Suzy) WriteFILE(addr uint16, val uint8) {
	off := addr - 0xFC00
	switch {
	case off < 0x30:
		r := s.scb.reg(int(off >> 1))
		if off&1 != 0 {
			*r = *r&0x00ff | uint16(val)<<8
		} else {
			// Writing the low byte of a sprite register clears the high
			// byte, the way the address latches behave.
			*r = uint16(val)
		}
	case off >= 0x52 && off <= 0x6F:
		s.math.write(s, off, val)
	}
}

/* sprite control */

func (s *Suzy) WriteSPRCTL0(old, val uint8) {
	s.bpp = int(val>>6) + 1
	s.hflip = val&0x20 != 0
	s.vflip = val&0x10 != 0
	s.sprType = SpriteType(val & 0x07)
}

func (s *Suzy) WriteSPRCTL1(old, val uint8) {
	s.literal = val&0x80 != 0
	s.reload = int(val>>4) & 0x03
	s.reusePal = val&0x08 != 0
	s.skip = val&0x04 != 0
	s.startUp = int(val>>1) & 1
	s.startLeft = int(val) & 1
}

func (s *Suzy) WriteSPRCOLL(old, val uint8) {
	s.collNum = val & 0x0f
	s.collideOff = val&0x20 != 0
}

func (s *Suzy) WriteSPRGO(old, val uint8) {
	s.everon = val&sprGoEveron != 0
	if val&sprGoEnable != 0 && s.BusEn.TestBits(0x01) {
		s.working = true
		s.proc = newSuzyProcess(s)
		log.ModSuzy.DebugZ("sprite go").
			Hex16("scbnext", s.scb.scbnext).
			End()
		if s.onSpriteGo != nil {
			s.onSpriteGo()
		}
	} else {
		s.working = false
		s.proc = nil
	}
}

func (s *Suzy) WriteSPRSYS(old, val uint8) {
	s.signMath = val&sprSysSignMath != 0
	s.accumulate = val&sprSysAccumulate != 0
	s.noCollide = val&sprSysNoCollide != 0
	s.vstretch = val&sprSysVStretch != 0
	s.stopReq = val&sprSysStop != 0
	if val&sprSysUnsafeRst != 0 {
		s.unsafeAcc = false
	}
}

func (s *Suzy) ReadSPRSYS(val uint8) uint8 {
	var v uint8
	if s.math.working {
		v |= sprSysMathWorking
	}
	if s.math.warning {
		v |= sprSysMathWarning
	}
	if s.math.carry {
		v |= sprSysMathCarry
	}
	if s.vstretch {
		v |= sprSysVStretch
	}
	if s.unsafeAcc {
		v |= sprSysUnsafe
	}
	if s.stopReq {
		v |= sprSysStop
	}
	if s.working {
		v |= sprSysWorking
	}
	return v
}

/* pads and cartridge ports */

func (s *Suzy) ReadJOYSTICK(val uint8) uint8 {
	return s.input.Joystick()
}

func (s *Suzy) ReadSWITCHES(val uint8) uint8 {
	return s.input.Switches()
}

func (s *Suzy) ReadRCART0(val uint8) uint8 {
	return s.cart.Read(0)
}

func (s *Suzy) WriteRCART0(old, val uint8) {
	s.cart.Write(0, val)
}

func (s *Suzy) ReadRCART1(val uint8) uint8 {
	return s.cart.Read(1)
}

func (s *Suzy) WriteRCART1(old, val uint8) {
	s.cart.Write(1, val)
}

/* pen visibility per sprite type */

func penDrawn(t SpriteType, pen uint8) bool {
	switch t {
	case SpriteBackShadow, SpriteBackNonColl:
		return true
	case SpriteBoundShadow, SpriteBound:
		return pen != 0x0 && pen != 0xF
	default:
		return pen != 0x0
	}
}

func penCollides(t SpriteType, pen uint8) bool {
	switch t {
	case SpriteBackShadow:
		return pen != 0xF
	case SpriteBackNonColl, SpriteNonColl:
		return false
	case SpriteBound:
		return pen != 0x0
	default: // boundary-shadow, normal, xor-shadow, shadow
		return pen != 0x0 && pen != 0xF
	}
}
