package hwio_test

import (
	"bytes"
	"testing"

	"caracal/hw/hwio"
)

// Open-bus fallback: reads float to a known value.
type openbus struct{}

func (ob *openbus) Read8(addr uint16) uint8       { return 0xFF }
func (ob *openbus) Peek8(addr uint16) uint8       { return 0xFE }
func (ob *openbus) Write8(addr uint16, val uint8) {}

type testBank struct {
	t   testing.TB
	Bus *hwio.Table

	// mapped to $0000-$0FFF, mirrored at $1000-$3FFF
	RAM hwio.Mem `hwio:"bank=0,offset=0x0,size=0x1000,vsize=0x4000"`

	// $FD00
	Ctl hwio.Reg8 `hwio:"bank=1,offset=0x0,reset=0x18"`
	// $FD01
	Stat hwio.Reg8 `hwio:"bank=1,offset=0x1,rwmask=0x0F,rcb,reset=0x42"`
	// $FD02
	Rev hwio.Reg8 `hwio:"bank=1,offset=0x2,readonly,pcb=PeekRev"`

	// $FC00-$FC7F
	Quiet hwio.Device `hwio:"bank=2,offset=0x0,size=0x80"`
	// $FC80-$FCFF
	Regs hwio.Device `hwio:"bank=2,offset=0x80,size=0x80,rcb,wcb"`

	devval uint8
}

func newTestBank(tb testing.TB) *testBank {
	bank := &testBank{t: tb}
	hwio.MustInitRegs(bank)

	bank.Bus = hwio.NewTable("bus")
	bank.Bus.MapBank(0x0000, bank, 0)
	bank.Bus.MapBank(0xFD00, bank, 1)
	bank.Bus.MapBank(0xFC00, bank, 2)
	bank.Bus.Unmapped = &openbus{}
	return bank
}

// $FD01
func (bank *testBank) ReadSTAT(val uint8) uint8 { return val | 0x80 }

// $FD02
func (bank *testBank) PeekRev(val uint8) uint8 { return 0x29 }

// $FC80-$FCFF
func (bank *testBank) ReadREGS(addr uint16) uint8       { return uint8(addr) }
func (bank *testBank) WriteREGS(addr uint16, val uint8) { bank.devval = uint8(addr) ^ val }

func (bank *testBank) wantRead8(addr uint16, want uint8) {
	bank.t.Helper()

	if got := bank.Bus.Read8(addr); got != want {
		bank.t.Errorf("Read8(%04X) = %02X, want %02X", addr, got, want)
	}
}

func (bank *testBank) wantPeek8(addr uint16, want uint8) {
	bank.t.Helper()

	if got := bank.Bus.Peek8(addr); got != want {
		bank.t.Errorf("Peek8(%04X) = %02X, want %02X", addr, got, want)
	}
}

func TestTableMem(t *testing.T) {
	bank := newTestBank(t)

	bank.wantRead8(0x0000, 0)
	bank.Bus.Write8(0x0000, 0x5A)
	bank.wantRead8(0x0000, 0x5A)
	bank.wantRead8(0x1000, 0x5A) // mirror
	bank.wantRead8(0x3000, 0x5A) // mirror
}

func TestTableRegs(t *testing.T) {
	bank := newTestBank(t)

	// Ctl: plain value register.
	bank.wantRead8(0xFD00, 0x18)
	bank.Bus.Write8(0xFD00, 0xA5)
	bank.wantRead8(0xFD00, 0xA5)

	// Stat: only low nibble writable, read callback forces bit 7.
	bank.wantRead8(0xFD01, 0xC2)
	bank.Bus.Write8(0xFD01, 0xFF)
	bank.wantRead8(0xFD01, 0xCF)
	bank.Bus.Write8(0xFD01, 0x30)
	bank.wantRead8(0xFD01, 0xC0)

	// Rev: read-only, peek callback.
	bank.Bus.Write8(0xFD02, 0x77)
	bank.wantRead8(0xFD02, 0x00)
	bank.wantPeek8(0xFD02, 0x29)
}

func TestTableDevice(t *testing.T) {
	bank := newTestBank(t)

	// Quiet device: no callbacks.
	bank.wantRead8(0xFC00, 0x00)
	bank.Bus.Write8(0xFC00, 0xFF)
	bank.wantRead8(0xFC00, 0x00)

	// Regs device: addr-derived reads, write captured.
	bank.wantRead8(0xFC84, 0x84)
	bank.Bus.Write8(0xFC90, 0x0F)
	if bank.devval != 0x9F {
		t.Errorf("devval = %02X, want 0x9F", bank.devval)
	}
	bank.wantPeek8(0xFC84, 0x00) // no peek callback
}

func TestTableUnmapped(t *testing.T) {
	bank := newTestBank(t)

	bank.wantRead8(0x8000, 0xFF)
	bank.wantPeek8(0x8000, 0xFE)
}

func TestTableMapMemorySlice(t *testing.T) {
	bank := newTestBank(t)

	rom := bytes.Repeat([]byte("\xA9\x00"), 0x100)
	bank.Bus.MapMemorySlice(0xFE00, 0xFFF7, rom, true)

	bank.wantRead8(0xFE00, 0xA9)
	bank.wantRead8(0xFE01, 0x00)
	bank.wantRead8(0xFFF7, 0x00)
	bank.wantRead8(0xFFF8, 0xFF) // unmapped
}

func TestUnmapBank(t *testing.T) {
	t.Run("hwio.Mem", func(t *testing.T) {
		bank := newTestBank(t)

		bank.Bus.Write8(0x40, 0x12)
		bank.Bus.UnmapBank(0x0000, bank, 0)
		bank.wantRead8(0x40, 0xFF) // openbus
	})
	t.Run("hwio.Reg8", func(t *testing.T) {
		bank := newTestBank(t)

		bank.wantRead8(0xFD00, 0x18)
		bank.Bus.UnmapBank(0xFD00, bank, 1)
		bank.wantRead8(0xFD00, 0xFF) // openbus
	})
	t.Run("hwio.Device", func(t *testing.T) {
		bank := newTestBank(t)

		bank.wantRead8(0xFC84, 0x84)
		bank.Bus.UnmapBank(0xFC00, bank, 2)
		bank.wantRead8(0xFC84, 0xFF) // openbus
	})
}

func TestUnmapPartial(t *testing.T) {
	bank := newTestBank(t)

	bank.Bus.Write8(0x40, 0x12)
	bank.wantRead8(0x40, 0x12)
	bank.Bus.Unmap(0x0000, 0x003F)
	bank.wantRead8(0x00, 0xFF) // openbus
	bank.wantRead8(0x40, 0x12) // still mapped
}

func TestReadWrite16(t *testing.T) {
	bank := newTestBank(t)

	hwio.Write16(bank.Bus, 0x0200, 0xBEEF)
	if got := hwio.Read16(bank.Bus, 0x0200); got != 0xBEEF {
		t.Errorf("Read16 = %04X, want BEEF", got)
	}
	bank.wantRead8(0x0200, 0xEF)
	bank.wantRead8(0x0201, 0xBE)
}
