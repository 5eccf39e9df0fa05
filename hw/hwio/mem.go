package hwio

import "caracal/emu/log"

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlag8ReadOnly MemFlags = (1 << iota) // reject writes
	MemFlagNoROLog                          // reject writes, but don't log the attempts
)

// Mem is a linear memory area that can be mapped into a Table.
//
// The backing buffer size must be a power of two: mirroring falls out of the
// address mask, so the mapped window (VSize) can be larger than the physical
// buffer.
type Mem struct {
	Name    string              // name of the memory area (for debugging)
	Data    []byte              // actual memory buffer
	VSize   int                 // virtual size of the memory (can be bigger than physical size)
	Flags   MemFlags            // flags determining how the memory can be accessed
	WriteCb func(uint16, uint8) // optional write callback, called after the write lands
}

// mem is the adaptor actually stored in the table. Mem itself does not
// implement BankIO8: flags are folded into the adaptor once, at map time, so
// the per-access path doesn't re-parse them.
type mem struct {
	data []byte
	mask uint16
	wcb  func(uint16, uint8)
	ro   MemFlags
}

func (m *Mem) BankIO8() BankIO8 {
	if len(m.Data)&(len(m.Data)-1) != 0 {
		panic("memory buffer size is not pow2")
	}
	return &mem{
		data: m.Data,
		mask: uint16(len(m.Data) - 1),
		wcb:  m.WriteCb,
		ro:   m.Flags,
	}
}

func (m *mem) Read8(addr uint16) uint8 {
	return m.data[addr&m.mask]
}

func (m *mem) Peek8(addr uint16) uint8 {
	return m.data[addr&m.mask]
}

func (m *mem) Write8(addr uint16, val uint8) {
	switch m.ro {
	case MemFlagReadWrite:
		m.data[addr&m.mask] = val
		if m.wcb != nil {
			m.wcb(addr, val)
		}
	case MemFlag8ReadOnly:
		log.ModHwIo.ErrorZ("Write8 to readonly memory").
			Hex8("val", val).
			Hex16("addr", addr).
			End()
	case MemFlagNoROLog:
		return
	}
}

// FetchPointer returns a slice aliasing the memory backing addr, up to the
// end of the buffer. Nil if addr is not backed by a linear memory.
func (m *mem) FetchPointer(addr uint16) []uint8 {
	off := addr & m.mask
	return m.data[off:]
}
