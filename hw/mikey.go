package hw

import (
	"caracal/emu/log"
	"caracal/hw/hwio"
	"caracal/hw/serial"
)

// openBus is what unmapped hardware addresses read as.
type openBus struct{}

func (openBus) Read8(addr uint16) uint8       { return 0xFF }
func (openBus) Peek8(addr uint16) uint8       { return 0xFF }
func (openBus) Write8(addr uint16, val uint8) {}

// Interrupt bits in INTRST/INTSET, one per timer. Serial interrupts come in
// through timer 4's slot, vertical blank through timer 2's.
const (
	intTimer0 = 1 << iota
	intTimer1
	intTimer2
	intTimer3
	intSerial
	intTimer5
	intTimer6
	intTimer7
)

// Mikey owns the timer cascade, video DMA, palette, audio channels, serial
// control and the interrupt aggregation.
type Mikey struct {
	Regs *hwio.Table

	Timers  hwio.Device `hwio:"offset=0x00,size=0x20,rcb,wcb,pcb=PeekTIMERS"`
	Audio   hwio.Device `hwio:"offset=0x20,size=0x20,rcb,wcb,pcb=PeekAUDIO"`
	AttenA  hwio.Reg8   `hwio:"offset=0x40,reset=0xff"`
	AttenB  hwio.Reg8   `hwio:"offset=0x41,reset=0xff"`
	AttenC  hwio.Reg8   `hwio:"offset=0x42,reset=0xff"`
	AttenD  hwio.Reg8   `hwio:"offset=0x43,reset=0xff"`
	MPan    hwio.Reg8   `hwio:"offset=0x44"`
	MStereo hwio.Reg8   `hwio:"offset=0x50"`

	IntRst hwio.Reg8 `hwio:"offset=0x80,rcb,wcb"`
	IntSet hwio.Reg8 `hwio:"offset=0x81,rcb,wcb"`

	AudInReg hwio.Reg8 `hwio:"offset=0x86,rcb"`
	SysCtl1  hwio.Reg8 `hwio:"offset=0x87,wcb"`
	HwRev    hwio.Reg8 `hwio:"offset=0x88,reset=0x01"`
	SwRev    hwio.Reg8 `hwio:"offset=0x89"`
	IODir    hwio.Reg8 `hwio:"offset=0x8A,wcb"`
	IODat    hwio.Reg8 `hwio:"offset=0x8B,rcb,wcb"`
	SerCtl   hwio.Reg8 `hwio:"offset=0x8C,rcb,wcb"`
	SerDat   hwio.Reg8 `hwio:"offset=0x8D,rcb,wcb"`

	SDoneAck hwio.Reg8 `hwio:"offset=0x90,writeonly,wcb"`
	CpuSleep hwio.Reg8 `hwio:"offset=0x91,writeonly,wcb"`
	DispCtl  hwio.Reg8 `hwio:"offset=0x92,wcb"`
	PBkup    hwio.Reg8 `hwio:"offset=0x93"`
	DispAdrL hwio.Reg8 `hwio:"offset=0x94"`
	DispAdrH hwio.Reg8 `hwio:"offset=0x95"`

	Palette hwio.Device `hwio:"offset=0xA0,size=0x20,rcb,wcb,pcb=PeekPALETTE"`

	clock *Clock
	mmu   *MMU
	cpu   *CPU
	cart  *Cartridge
	com   *serial.ComLynx
	port  parallelPort

	timers [8]hwTimer
	chans  [4]audioChannel
	mixer  *Mixer

	intpend uint8

	// video state
	pal      [16]uint32
	greenRaw [16]uint8
	bredRaw  [16]uint8
	lineIdx  int
	frames   [2]Frame
	curFrame int

	// scheduler hooks, set by the core
	requestDMA func()
	commit     func(*Frame)
	onSleep    func()

	inCatchUp bool
}

func NewMikey(clock *Clock, mixer *Mixer) *Mikey {
	mk := &Mikey{
		Regs:  hwio.NewTable("mikey"),
		clock: clock,
		mixer: mixer,
	}
	return mk
}

func (mk *Mikey) InitBus(mmu *MMU, cpu *CPU, cart *Cartridge, com *serial.ComLynx) {
	mk.mmu = mmu
	mk.cpu = cpu
	mk.cart = cart
	mk.com = com
	mk.port.mikey = mk

	hwio.MustInitRegs(mk)
	mk.Regs.MapBank(0xFD00, mk, 0)
	mk.Regs.Unmapped = openBus{}

	mmu.mikey = mk
}

func (mk *Mikey) Reset() {
	mk.intpend = 0
	mk.lineIdx = 0
	mk.curFrame = 0

	mk.AttenA.Value = 0xff
	mk.AttenB.Value = 0xff
	mk.AttenC.Value = 0xff
	mk.AttenD.Value = 0xff
	mk.MPan.Value = 0
	mk.MStereo.Value = 0
	mk.SysCtl1.Value = 0
	mk.IODir.Value = 0
	mk.IODat.Value = 0
	mk.DispCtl.Value = 0
	mk.PBkup.Value = 0
	mk.DispAdrL.Value = 0
	mk.DispAdrH.Value = 0
	mk.port = parallelPort{mikey: mk}
	for i := range mk.timers {
		mk.timers[i] = hwTimer{}
	}
	for i := range mk.chans {
		mk.chans[i] = audioChannel{}
	}
	for i := range mk.pal {
		mk.pal[i] = 0xFF000000
		mk.greenRaw[i] = 0
		mk.bredRaw[i] = 0
	}
	mk.mixer.Reset()
}

/* interrupt aggregation */

func (mk *Mikey) setIRQ(bit uint8) {
	mk.intpend |= bit
	if mk.cpu != nil {
		mk.cpu.Wake()
	}
}

// IRQAsserted is the CPU's level-sensitive interrupt line.
func (mk *Mikey) IRQAsserted() bool {
	return mk.intpend != 0
}

func (mk *Mikey) ReadINTRST(val uint8) uint8 { return mk.intpend }
func (mk *Mikey) ReadINTSET(val uint8) uint8 { return mk.intpend }

func (mk *Mikey) WriteINTRST(old, val uint8) {
	mk.intpend &^= val
}

func (mk *Mikey) WriteINTSET(old, val uint8) {
	mk.intpend |= val
	if mk.intpend != 0 && mk.cpu != nil {
		mk.cpu.Wake()
	}
}

/* system control */

func (mk *Mikey) WriteSYSCTL1(old, val uint8) {
	if old&0x02 == 0 && val&0x02 != 0 {
		// Rising edge on the cart address strobe shifts the page register.
		data := mk.port.cartAddrData()
		mk.cart.AddressStrobe(data)
	}
	if val&0x01 == 0 {
		log.ModMikey.WarnZ("power off requested").End()
	}
}

func (mk *Mikey) WriteSDONEACK(old, val uint8) {
	log.ModMikey.DebugZ("suzy done ack").Hex8("val", val).End()
}

func (mk *Mikey) WriteCPUSLEEP(old, val uint8) {
	mk.cpu.Sleep()
	if mk.onSleep != nil {
		mk.onSleep()
	}
}

func (mk *Mikey) WriteDISPCTL(old, val uint8) {
	log.ModMikey.DebugZ("DISPCTL").Hex8("val", val).End()
}

func (mk *Mikey) dispAdr() uint16 {
	return uint16(mk.DispAdrH.Value)<<8 | uint16(mk.DispAdrL.Value)
}

/* parallel port */

func (mk *Mikey) WriteIODIR(old, val uint8) {
	mk.port.setDirection(val)
}

func (mk *Mikey) WriteIODAT(old, val uint8) {
	mk.port.setData(val)
}

func (mk *Mikey) ReadIODAT(val uint8) uint8 {
	return mk.port.getData()
}

func (mk *Mikey) ReadAUDINREG(val uint8) uint8 {
	if mk.cart.AudIn() {
		return 0x80
	}
	return 0
}

/* serial */

func (mk *Mikey) WriteSERCTL(old, val uint8) {
	mk.com.SetCtrl(val)
}

func (mk *Mikey) ReadSERCTL(val uint8) uint8 {
	return mk.com.Status()
}

func (mk *Mikey) WriteSERDAT(old, val uint8) {
	mk.com.SetData(val)
}

func (mk *Mikey) ReadSERDAT(val uint8) uint8 {
	return mk.com.Data()
}

// SerialPulse advances both serial state machines by one bit slot and
// forwards a raised interrupt into timer 4's slot.
func (mk *Mikey) SerialPulse() {
	if mk.com.Pulse() {
		mk.setIRQ(intSerial)
	}
}
