package hw

import (
	"caracal/emu/log"
	"caracal/lnx"
)

// The cart address is split: an 8-bit page register loaded bit-serially
// through the address strobe, and an 11-bit ripple counter that advances on
// every data read. Double-banked carts swap in their "A" variant when the
// AUDIN line is driven high.
const cartPageShift = 11
const cartCounterMask = 0x7ff

// Cartridge is the game card: up to two bank arrays with optional AUDIN
// variants, the address counter, and an optional serial EEPROM.
type Cartridge struct {
	bank0  []byte
	bank0A []byte
	bank1  []byte
	bank1A []byte

	page    uint8
	counter uint16

	cad   bool // CART_ADDR_DATA line level
	power bool
	audin bool

	eeprom *EEPROM
}

func NewCartridge(img *lnx.Image) *Cartridge {
	c := &Cartridge{}
	if img != nil {
		c.bank0 = img.Bank0
		c.bank0A = img.Bank0A
		c.bank1 = img.Bank1
		c.bank1A = img.Bank1A
		if img.EEPROM != 0 {
			c.eeprom = NewEEPROM()
		}
	}
	return c
}

func (c *Cartridge) Reset() {
	c.page = 0
	c.counter = 0
	c.cad = false
	c.audin = false
}

// AddressStrobe shifts one bit into the page register and rewinds the
// ripple counter.
func (c *Cartridge) AddressStrobe(data bool) {
	bit := uint8(0)
	if data {
		bit = 1
	}
	c.page = c.page<<1 | bit
	c.counter = 0

	if c.eeprom != nil {
		c.eeprom.Clock(data)
	}
}

func (c *Cartridge) SetCartAddressData(v bool) { c.cad = v }
func (c *Cartridge) SetPower(on bool)          { c.power = on }

// SetAudIn drives the AUDIN line from the parallel port.
func (c *Cartridge) SetAudIn(v bool) {
	c.audin = v
}

// AudIn returns the level on the AUDIN line: the EEPROM's data-out when one
// is present, the driven level otherwise.
func (c *Cartridge) AudIn() bool {
	if c.eeprom != nil {
		return c.eeprom.Out()
	}
	return c.audin
}

func (c *Cartridge) selectBank(bank int) []byte {
	if bank == 0 {
		if c.audin && len(c.bank0A) > 0 {
			return c.bank0A
		}
		return c.bank0
	}
	if c.audin && len(c.bank1A) > 0 {
		return c.bank1A
	}
	return c.bank1
}

// Read returns the current byte of the selected bank and steps the counter.
func (c *Cartridge) Read(bank int) uint8 {
	data := c.selectBank(bank)
	addr := int(c.page)<<cartPageShift | int(c.counter)
	c.counter = (c.counter + 1) & cartCounterMask

	if len(data) == 0 {
		return 0xFF
	}
	return data[addr%len(data)]
}

// Write steps the counter like a read. Plain carts are not writable; the
// access still exists on the bus.
func (c *Cartridge) Write(bank int, val uint8) {
	c.counter = (c.counter + 1) & cartCounterMask
	log.ModCart.DebugZ("cart write ignored").
		Int("bank", bank).
		Hex8("val", val).
		End()
}
