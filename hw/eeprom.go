package hw

import "caracal/emu/log"

// EEPROM is the 93C46 serial EEPROM some carts carry for saves: 64 words of
// 16 bits, clocked bit-serially over the cartridge pins. Commands start
// with a 1 bit, then a 2-bit opcode and a 6-bit address; data moves MSB
// first.
type EEPROM struct {
	mem [64]uint16

	shiftIn uint32
	inBits  int

	shiftOut uint32
	outBits  int

	writeEnabled bool
	busy         bool
}

const (
	eeAddrBits = 6
	eeDataBits = 16
	eeCmdBits  = 1 + 2 + eeAddrBits
)

func NewEEPROM() *EEPROM {
	e := &EEPROM{}
	for i := range e.mem {
		e.mem[i] = 0xFFFF
	}
	return e
}

// Data returns the memory contents, for save persistence by the host.
func (e *EEPROM) Data() []uint16 {
	out := make([]uint16, len(e.mem))
	copy(out, e.mem[:])
	return out
}

func (e *EEPROM) Load(words []uint16) {
	copy(e.mem[:], words)
}

// Out is the DO pin level.
func (e *EEPROM) Out() bool {
	if e.outBits == 0 {
		// Idle DO reads high (ready).
		return true
	}
	return e.shiftOut&(1<<uint(e.outBits-1)) != 0
}

// Clock shifts one DI bit in on a strobe edge and advances any readout.
func (e *EEPROM) Clock(di bool) {
	if e.outBits > 0 {
		e.outBits--
		return
	}

	bit := uint32(0)
	if di {
		bit = 1
	}

	if e.inBits == 0 && bit == 0 {
		// Waiting for a start bit.
		return
	}
	e.shiftIn = e.shiftIn<<1 | bit
	e.inBits++

	switch {
	case e.inBits == eeCmdBits:
		op := e.shiftIn >> eeAddrBits & 0x3
		addr := e.shiftIn & (1<<eeAddrBits - 1)
		switch op {
		case 0b10: // READ
			e.shiftOut = uint32(e.mem[addr])
			e.outBits = eeDataBits
			e.finish()
		case 0b11: // ERASE
			if e.writeEnabled {
				e.mem[addr] = 0xFFFF
			}
			e.finish()
		case 0b01: // WRITE: wait for the data word
		case 0b00:
			switch addr >> (eeAddrBits - 2) {
			case 0b11: // EWEN
				e.writeEnabled = true
			case 0b00: // EWDS
				e.writeEnabled = false
			case 0b10: // ERAL
				if e.writeEnabled {
					for i := range e.mem {
						e.mem[i] = 0xFFFF
					}
				}
			case 0b01: // WRAL: wait for the data word
				return
			}
			e.finish()
		}

	case e.inBits == eeCmdBits+eeDataBits:
		op := e.shiftIn >> (eeAddrBits + eeDataBits) & 0x3
		addr := e.shiftIn >> eeDataBits & (1<<eeAddrBits - 1)
		data := uint16(e.shiftIn)
		switch {
		case op == 0b01: // WRITE
			if e.writeEnabled {
				e.mem[addr] = data
			}
		case op == 0b00 && addr>>(eeAddrBits-2) == 0b01: // WRAL
			if e.writeEnabled {
				for i := range e.mem {
					e.mem[i] = data
				}
			}
		}
		e.finish()
	}
}

func (e *EEPROM) finish() {
	if e.inBits >= eeCmdBits {
		log.ModCart.DebugZ("eeprom command").
			Hex32("shift", e.shiftIn).
			Int("bits", e.inBits).
			End()
	}
	e.shiftIn = 0
	e.inBits = 0
}
