package hw

import "caracal/emu/log"

// The sprite engine must give the bus back to the scheduler on every memory
// access. suzyProcess is the renderer unrolled into an explicit resumable
// machine: advance() runs until the next memory operation, returns it as a
// request, and picks up from the same spot when the serviced result comes
// back in. The drawing phases mirror the hardware sequence: walk the SCB
// chain, load the header, then per quadrant, per source row, per screen row,
// parse pens and place pixels through the video and collision operators.

type suzyReqKind uint8

const (
	reqNone suzyReqKind = iota
	reqRead
	reqRead4
	reqWrite
	reqVidRMW
	reqColRMW
	reqXor
	reqDone
)

type suzyRequest struct {
	kind  suzyReqKind
	addr  uint16
	value uint8
	mask  uint8
}

type spPhase uint8

const (
	spNextSprite spPhase = iota
	spHeader
	spPalette
	spSpriteSetup
	spQuadrant
	spRowStart
	spRowLoop
	spRowParse
	spPen
	spPenRefill
	spPixel
	spColAwait
	spVidAwait
	spVidFlush
	spVidFlushAwait
	spColFlush
	spColFlushAwait
	spRowNext
	spSpriteEnd
	spDepositAwait
	spStop
	spFinish
)

// Quadrant drawing order. The renderer starts in the quadrant selected by
// SPRCTL1 and rotates through the other three.
type quadFlags struct {
	left, up int
}

var quadCycle = [4]quadFlags{
	{0, 0}, // down-right
	{1, 0}, // down-left
	{1, 1}, // up-left
	{0, 1}, // up-right
}

type suzyProcess struct {
	s   *Suzy
	scb *scbRegs

	phase spPhase
	req   suzyRequest

	disableColl bool
	vidOp       vidOperator
	colOp       colOperator

	fetchIdx int
	palBuf   [8]uint8
	palIdx   int

	quad      int
	startQuad int
	left, up  int

	pixelHeight int
	pixelRow    int

	sh  shifter
	slp lineParser

	pen        int
	pixelWidth int
	penCol     int
	hsizacum   int
	sprhpos    int
	didCol     bool

	everon  bool
	fred    uint8
	hasFred bool
}

func newSuzyProcess(s *Suzy) *suzyProcess {
	return &suzyProcess{
		s:     s,
		scb:   &s.scb,
		phase: spNextSprite,
	}
}

/* request constructors: each one parks the machine until the scheduler
   services the memory operation and calls advance with the result */

func (p *suzyProcess) read(addr uint16) *suzyRequest {
	p.req = suzyRequest{kind: reqRead, addr: addr}
	return &p.req
}

func (p *suzyProcess) read4(addr uint16) *suzyRequest {
	p.req = suzyRequest{kind: reqRead4, addr: addr}
	return &p.req
}

func (p *suzyProcess) write(addr uint16, val uint8) *suzyRequest {
	p.req = suzyRequest{kind: reqWrite, addr: addr, value: val}
	return &p.req
}

func (p *suzyProcess) vidMem(op vidMemOp) *suzyRequest {
	kind := reqVidRMW
	switch op.kind {
	case vidOpWrite:
		kind = reqWrite
	case vidOpXor:
		kind = reqXor
	}
	p.req = suzyRequest{kind: kind, addr: op.addr, value: op.value, mask: op.mask}
	return &p.req
}

func (p *suzyProcess) colMem(op colMemOp) *suzyRequest {
	p.req = suzyRequest{kind: reqColRMW, addr: op.addr, value: op.value, mask: op.mask}
	return &p.req
}

func (p *suzyProcess) done() *suzyRequest {
	p.req = suzyRequest{kind: reqDone}
	return &p.req
}

// advance resumes the renderer with the result of the previous request and
// runs until the next one.
func (p *suzyProcess) advance(resp uint32) *suzyRequest {
	s := p.s
	scb := p.scb

	for {
		switch p.phase {

		case spNextSprite:
			if scb.scbnext&0xff00 == 0 {
				p.phase = spFinish
				continue
			}
			scb.scbadr = scb.scbnext
			scb.tmpadr = scb.scbadr
			p.fetchIdx = 0
			p.phase = spHeader
			return p.readTmp()

		case spHeader:
			b := uint8(resp)
			idx := p.fetchIdx
			p.fetchIdx++
			switch {
			case idx == 0:
				s.WriteSPRCTL0(0, b)
			case idx == 1:
				s.WriteSPRCTL1(0, b)
			case idx == 2:
				s.WriteSPRCOLL(0, b)
			case idx == 3:
				scb.scbnext = uint16(b)
			case idx == 4:
				scb.scbnext |= uint16(b) << 8
				if s.skip {
					p.phase = spFinish
					continue
				}
			case idx == 5:
				scb.sprdline = uint16(b)
			case idx == 6:
				scb.sprdline |= uint16(b) << 8
			case idx == 7:
				scb.hposstrt = uint16(b)
			case idx == 8:
				scb.hposstrt |= uint16(b) << 8
			case idx == 9:
				scb.vposstrt = uint16(b)
			case idx == 10:
				scb.vposstrt |= uint16(b) << 8
				scb.stretch = 0
				scb.tilt = 0
			default:
				// Optional size/stretch/tilt words, in SCB order.
				regs := [...]*uint16{
					&scb.sprhsiz, &scb.sprvsiz, &scb.stretch, &scb.tilt,
				}
				r := regs[(idx-11)/2]
				if (idx-11)&1 == 0 {
					*r = uint16(b)
				} else {
					*r |= uint16(b) << 8
				}
			}

			if p.fetchIdx < 11+p.reloadBytes() {
				return p.readTmp()
			}
			if !s.reusePal {
				p.palIdx = 0
				p.phase = spPalette
				return p.read4Tmp()
			}
			p.phase = spSpriteSetup

		case spPalette:
			v := resp
			base := p.palIdx * 4
			p.palBuf[base+0] = uint8(v >> 24)
			p.palBuf[base+1] = uint8(v >> 16)
			p.palBuf[base+2] = uint8(v >> 8)
			p.palBuf[base+3] = uint8(v)
			p.palIdx++
			if p.palIdx < 2 {
				return p.read4Tmp()
			}
			for i, b := range p.palBuf {
				s.palette[2*i] = b >> 4
				s.palette[2*i+1] = b & 0x0f
			}
			p.phase = spSpriteSetup

		case spSpriteSetup:
			p.disableColl = s.noCollide || s.collideOff ||
				s.sprType == SpriteBackNonColl || s.sprType == SpriteNonColl
			p.vidOp.init(s.sprType)
			p.colOp.init(s.sprType, s.collNum)
			p.everon = false
			p.fred = 0
			p.hasFred = false
			p.quad = 0
			p.startQuad = startQuadrant(s.startLeft, s.startUp)
			p.phase = spQuadrant

		case spQuadrant:
			q := quadCycle[(p.startQuad+p.quad)&3]
			p.left = q.left
			p.up = q.up
			if s.hflip {
				p.left ^= 1
			}
			if s.vflip {
				p.up ^= 1
			}
			scb.tiltacum = 0
			if p.up == 0 {
				scb.vsizacum = scb.vsizoff
			} else {
				scb.vsizacum = 0
			}
			scb.sprvpos = scb.vposstrt - scb.voff
			// Off-by-one at the seam: quadrants drawing away from the
			// start quadrant's vertical direction skip the shared row.
			if q.up != quadCycle[p.startQuad].up {
				if p.up != 0 {
					scb.sprvpos--
				} else {
					scb.sprvpos++
				}
			}
			p.phase = spRowStart

		case spRowStart:
			scb.vsizacum &= 0x00ff
			scb.vsizacum += scb.sprvsiz
			p.pixelHeight = int(scb.vsizacum >> 8)
			scb.vsizacum &= 0x00ff
			p.pixelRow = 0
			if p.pixelHeight == 0 && scb.sprvsiz == 0 {
				// A zero vertical size can never terminate the row loop;
				// treat the sprite as finished.
				p.phase = spSpriteEnd
				continue
			}
			p.phase = spRowLoop

		case spRowLoop:
			if p.pixelRow >= p.pixelHeight {
				// Source row consumed on every screen row it spans.
				scb.sprdline += scb.sprdoff
				if scb.sprdoff < 2 {
					if scb.sprdoff == 0 {
						p.phase = spSpriteEnd
					} else {
						p.quad++
						if p.quad < 4 {
							p.phase = spQuadrant
						} else {
							p.phase = spSpriteEnd
						}
					}
					continue
				}
				p.phase = spRowStart
				continue
			}
			scb.procadr = scb.sprdline
			p.sh.reset()
			p.phase = spRowParse
			return p.read4Proc()

		case spRowParse:
			p.sh.push4(resp)
			scb.sprdoff = uint16(p.sh.pull(8))
			p.slp = newLineParser(s.literal, s.bpp, (int(scb.sprdoff)-1)*8)

			// Vertical clip: the row's data is consumed either way.
			if (p.up == 0 && scb.sprvpos >= ScreenHeight) ||
				(p.up == 1 && int16(scb.sprvpos) < 0) {
				p.phase = spRowNext
				continue
			}

			scb.vidadr = scb.vidbas + scb.sprvpos*lineBytes
			scb.colladr = scb.collbas + scb.sprvpos*lineBytes
			p.vidOp.newLine(scb.vidadr)
			p.colOp.newLine(scb.colladr)

			scb.hposstrt += uint16(int16(int8(scb.tiltacum >> 8)))
			scb.tiltacum &= 0x00ff
			if p.left == 0 {
				p.hsizacum = int(scb.hsizoff)
			} else {
				p.hsizacum = 0
			}
			p.sprhpos = int(int16(scb.hposstrt - scb.hoff))
			q := quadCycle[(p.startQuad+p.quad)&3]
			if q.left != quadCycle[p.startQuad].left {
				if p.left != 0 {
					p.sprhpos--
				} else {
					p.sprhpos++
				}
			}
			p.phase = spPen

		case spPen:
			pen, ok := p.slp.getPen(&p.sh)
			if !ok {
				p.phase = spVidFlush
				continue
			}
			p.pen = pen
			if p.sh.size < 24 && p.slp.totalBits() > p.sh.size {
				p.phase = spPenRefill
				return p.readProc()
			}
			p.beginPen()

		case spPenRefill:
			p.sh.push8(uint8(resp))
			p.beginPen()

		case spPixel:
			if p.penCol >= p.pixelWidth {
				p.phase = spPen
				continue
			}
			if p.sprhpos >= 0 && p.sprhpos < ScreenWidth {
				pen := uint8(p.pen)
				pixel := s.palette[p.pen]
				if !p.didCol && !p.disableColl {
					p.didCol = true
					if op, ok := p.colOp.process(p.sprhpos, pen); ok {
						p.phase = spColAwait
						return p.colMem(op)
					}
				}
				p.didCol = true
				if op := p.vidOp.process(p.sprhpos, pen, pixel); op.kind != vidOpNone {
					p.phase = spVidAwait
					return p.vidMem(op)
				}
				p.everon = true
			}
			p.nextColumn()

		case spColAwait:
			p.colOp.receiveHiColl(uint8(resp))
			p.phase = spPixel

		case spVidAwait:
			p.everon = true
			p.nextColumn()
			p.phase = spPixel

		case spVidFlush:
			if op := p.vidOp.flush(); op.kind != vidOpNone {
				p.phase = spVidFlushAwait
				return p.vidMem(op)
			}
			p.phase = spColFlush

		case spVidFlushAwait:
			p.phase = spColFlush

		case spColFlush:
			if !p.disableColl {
				if op, ok := p.colOp.flush(); ok {
					p.phase = spColFlushAwait
					return p.colMem(op)
				}
			}
			p.phase = spRowNext

		case spColFlushAwait:
			p.colOp.receiveHiColl(uint8(resp))
			p.phase = spRowNext

		case spRowNext:
			p.pixelRow++
			if p.up != 0 {
				scb.sprvpos--
			} else {
				scb.sprvpos++
			}
			scb.tiltacum += scb.tilt
			scb.sprhsiz += scb.stretch
			if s.vstretch {
				scb.sprvsiz += scb.stretch
			}
			p.phase = spRowLoop

		case spSpriteEnd:
			if !p.disableColl {
				p.fred = p.colOp.hiColl & 0x0f
				p.hasFred = true
			}
			if s.everon && p.everon && p.hasFred {
				p.fred |= 0x80
			}
			if p.hasFred {
				p.phase = spDepositAwait
				return p.write(scb.scbadr+scb.colloff, p.fred)
			}
			p.phase = spStop

		case spDepositAwait:
			p.phase = spStop

		case spStop:
			log.ModSuzy.DebugZ("sprite done").
				Hex16("scb", scb.scbadr).
				Hex16("next", scb.scbnext).
				Bool("everon", p.everon).
				End()
			if s.stopReq {
				p.phase = spFinish
			} else {
				p.phase = spNextSprite
			}

		case spFinish:
			s.working = false
			return p.done()
		}
	}
}

func (p *suzyProcess) beginPen() {
	p.hsizacum += int(p.scb.sprhsiz)
	p.pixelWidth = p.hsizacum >> 8
	p.hsizacum &= 0xff
	p.penCol = 0
	p.didCol = false
	p.phase = spPixel
}

func (p *suzyProcess) nextColumn() {
	if p.left != 0 {
		p.sprhpos--
	} else {
		p.sprhpos++
	}
	p.penCol++
	p.didCol = false
}

func (p *suzyProcess) reloadBytes() int {
	switch p.s.reload {
	case 1: // HV
		return 4
	case 2: // HVS
		return 6
	case 3: // HVST
		return 8
	}
	return 0
}

func (p *suzyProcess) readTmp() *suzyRequest {
	r := p.read(p.scb.tmpadr)
	p.scb.tmpadr++
	return r
}

func (p *suzyProcess) read4Tmp() *suzyRequest {
	r := p.read4(p.scb.tmpadr)
	p.scb.tmpadr += 4
	return r
}

func (p *suzyProcess) readProc() *suzyRequest {
	r := p.read(p.scb.procadr)
	p.scb.procadr++
	return r
}

func (p *suzyProcess) read4Proc() *suzyRequest {
	r := p.read4(p.scb.procadr)
	p.scb.procadr += 4
	return r
}

func startQuadrant(left, up int) int {
	for i, q := range quadCycle {
		if q.left == left && q.up == up {
			return i
		}
	}
	return 0
}
