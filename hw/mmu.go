package hw

import (
	"caracal/emu/log"
)

// MAPCTL bits: each one, when set, removes an overlay and exposes the RAM
// underneath.
const (
	mapSuzyDisable   = 0x01
	mapMikeyDisable  = 0x02
	mapRomDisable    = 0x04
	mapVectorDisable = 0x08
)

const (
	// Bus access costs, in system ticks.
	busTickFast = 4
	busTickSlow = 5 // page crossing or hardware register
)

// Clock is the machine's single source of time.
type Clock struct {
	Tick uint64
}

// MMU is the machine's 16-bit bus: 64 KiB of RAM with the Suzy, Mikey, boot
// ROM and vector overlays switched by MAPCTL. Every Read/Write charges bus
// ticks and lets the timer unit catch up before the access completes, so
// co-processor state is always current when software looks at it.
type MMU struct {
	RAM  [0x10000]byte
	Boot [0x200]byte // FE00-FFFF, kernel ROM and vectors

	MapCtl uint8

	clock *Clock
	mikey *Mikey
	suzy  *Suzy

	lastPage uint8
}

func NewMMU(clock *Clock) *MMU {
	return &MMU{clock: clock}
}

// Reset clears RAM, the overlay control and the page tracking.
func (m *MMU) Reset() {
	for i := range m.RAM {
		m.RAM[i] = 0
	}
	m.MapCtl = 0
	m.lastPage = 0
}

func (m *MMU) Now() uint64 {
	return m.clock.Tick
}

// charge bills one bus access and brings the timer cascade up to date.
func (m *MMU) charge(addr uint16, hardware bool) {
	page := uint8(addr >> 8)
	cost := uint64(busTickFast)
	if hardware || page != m.lastPage {
		cost = busTickSlow
	}
	m.lastPage = page
	m.clock.Tick += cost
	if m.mikey != nil {
		m.mikey.CatchUp(m.clock.Tick)
	}
}

func (m *MMU) suzyMapped(addr uint16) bool {
	return addr >= 0xFC00 && addr <= 0xFCFF && m.MapCtl&mapSuzyDisable == 0
}

func (m *MMU) mikeyMapped(addr uint16) bool {
	return addr >= 0xFD00 && addr <= 0xFDFF && m.MapCtl&mapMikeyDisable == 0
}

func (m *MMU) romMapped(addr uint16) bool {
	return addr >= 0xFE00 && addr <= 0xFFF7 && m.MapCtl&mapRomDisable == 0
}

func (m *MMU) vectorMapped(addr uint16) bool {
	return addr >= 0xFFFA && m.MapCtl&mapVectorDisable == 0
}

func (m *MMU) Read(addr uint16) uint8 {
	switch {
	case m.suzyMapped(addr):
		m.charge(addr, true)
		return m.suzy.Regs.Read8(addr)
	case m.mikeyMapped(addr):
		m.charge(addr, true)
		return m.mikey.Regs.Read8(addr)
	case m.romMapped(addr) || m.vectorMapped(addr):
		m.charge(addr, false)
		return m.Boot[addr-0xFE00]
	case addr == 0xFFF9:
		m.charge(addr, true)
		return m.MapCtl
	default:
		m.charge(addr, false)
		return m.RAM[addr]
	}
}

func (m *MMU) Write(addr uint16, val uint8) {
	switch {
	case m.suzyMapped(addr):
		m.charge(addr, true)
		m.suzy.Regs.Write8(addr, val)
	case m.mikeyMapped(addr):
		m.charge(addr, true)
		m.mikey.Regs.Write8(addr, val)
	case m.romMapped(addr) || m.vectorMapped(addr):
		// ROM: the write still lands in the RAM underneath.
		m.charge(addr, false)
		m.RAM[addr] = val
	case addr == 0xFFF9:
		m.charge(addr, true)
		m.MapCtl = val
		log.ModMem.DebugZ("MAPCTL").Hex8("val", val).End()
	default:
		m.charge(addr, false)
		m.RAM[addr] = val
	}
}

// Peek reads a byte with no tick charge and no side effects (debugger path).
func (m *MMU) Peek(addr uint16) uint8 {
	switch {
	case m.suzyMapped(addr):
		return m.suzy.Regs.Peek8(addr)
	case m.mikeyMapped(addr):
		return m.mikey.Regs.Peek8(addr)
	case m.romMapped(addr) || m.vectorMapped(addr):
		return m.Boot[addr-0xFE00]
	case addr == 0xFFF9:
		return m.MapCtl
	default:
		return m.RAM[addr]
	}
}

func (m *MMU) Peek16(addr uint16) uint16 {
	lo := m.Peek(addr)
	hi := m.Peek(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Poke writes straight to RAM, bypassing overlays and tick accounting
// (debugger and image loading path).
func (m *MMU) Poke(addr uint16, val uint8) {
	m.RAM[addr] = val
}

/* sprite engine accesses: Suzy only ever sees RAM, whatever MAPCTL says */

func (m *MMU) SuzyRead(addr uint16) uint8 {
	m.charge(addr, false)
	return m.RAM[addr]
}

// SuzyRead4 reads four consecutive bytes, as the sprite data fetcher does.
func (m *MMU) SuzyRead4(addr uint16) uint32 {
	m.charge(addr, false)
	b0 := m.RAM[addr]
	b1 := m.RAM[addr+1]
	b2 := m.RAM[addr+2]
	b3 := m.RAM[addr+3]
	return uint32(b0)<<24 | uint32(b1)<<16 | uint32(b2)<<8 | uint32(b3)
}

func (m *MMU) SuzyWrite(addr uint16, val uint8) {
	m.charge(addr, false)
	m.RAM[addr] = val
}

// SuzyVidRMW merges the masked nibbles of val into video memory.
func (m *MMU) SuzyVidRMW(addr uint16, val, mask uint8) {
	m.charge(addr, false)
	m.RAM[addr] = (m.RAM[addr] &^ mask) | (val & mask)
}

// SuzyColRMW merges the masked nibbles of val into the collision buffer and
// returns the previous byte, which feeds the collision depository.
func (m *MMU) SuzyColRMW(addr uint16, val, mask uint8) uint8 {
	m.charge(addr, false)
	old := m.RAM[addr]
	m.RAM[addr] = (old &^ mask) | (val & mask)
	return old
}

// SuzyXOR xors val into video memory.
func (m *MMU) SuzyXOR(addr uint16, val uint8) {
	m.charge(addr, false)
	m.RAM[addr] ^= val
}
