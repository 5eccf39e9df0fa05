// Package lnx reads the cartridge and program images the console consumes:
// headered cart dumps, raw dumps, and BS93 RAM programs.
package lnx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInvalidImage reports a file that matches no known image layout.
var ErrInvalidImage = errors.New("invalid image")

// Kind discriminates what an image file contained.
type Kind int

const (
	KindCart Kind = iota
	KindBS93
)

// Rotation is the display rotation a cart asks for.
type Rotation uint8

const (
	RotationNone Rotation = iota
	RotationLeft
	RotationRight
)

// Image is a loaded input file.
type Image struct {
	Kind Kind

	// Cart fields.
	Bank0, Bank0A []byte
	Bank1, Bank1A []byte
	Title         string
	Manufacturer  string
	Rotation      Rotation
	AudIn         uint8
	EEPROM        uint8

	// BS93 fields: a program loaded straight into RAM.
	LoadAddr uint16
	Program  []byte
}

const headerSize = 64

const Magic = "LYNX"
const magicBS93 = "BS93"

// Open loads an image from file.
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img := new(Image)
	if _, err := img.ReadFrom(f); err != nil {
		return nil, err
	}
	return img, nil
}

// ReadFrom implements the io.ReaderFrom interface.
func (img *Image) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	n := int64(len(buf))

	switch {
	case len(buf) >= headerSize && string(buf[:4]) == Magic:
		err = img.decodeCart(buf)
	case len(buf) > 6 && string(buf[2:6]) == magicBS93:
		err = img.decodeBS93(buf)
	case len(buf) > 0 && len(buf)%256 == 0:
		// Headerless dump: everything is bank 0.
		img.Kind = KindCart
		img.Bank0 = buf
	default:
		err = fmt.Errorf("%w: no magic and odd size %d", ErrInvalidImage, len(buf))
	}
	return n, err
}

// decodeCart parses the 64-byte header: magic, the two bank page sizes, a
// version word, title and manufacturer strings, then rotation and the
// AUDIN/EEPROM configuration bytes. A bank holds 256 pages of its page
// size; carts using AUDIN as an extra address line carry an "A" variant
// image for each bank after the plain ones.
func (img *Image) decodeCart(buf []byte) error {
	img.Kind = KindCart

	page0 := int(binary.LittleEndian.Uint16(buf[4:6]))
	page1 := int(binary.LittleEndian.Uint16(buf[6:8]))
	img.Title = cString(buf[10:42])
	img.Manufacturer = cString(buf[42:58])
	img.Rotation = Rotation(buf[58])
	img.AudIn = buf[59]
	img.EEPROM = buf[60]

	data := buf[headerSize:]
	take := func(n int) ([]byte, error) {
		if n > len(data) {
			return nil, fmt.Errorf("%w: truncated bank data", ErrInvalidImage)
		}
		b := data[:n]
		data = data[n:]
		return b, nil
	}

	var err error
	if img.Bank0, err = take(page0 * 256); err != nil {
		return err
	}
	if page1 > 0 {
		if img.Bank1, err = take(page1 * 256); err != nil {
			return err
		}
	}
	if img.AudIn != 0 {
		// A variants are optional even on AUDIN carts.
		if len(data) >= page0*256 {
			img.Bank0A, _ = take(page0 * 256)
		}
		if len(data) >= page1*256 && page1 > 0 {
			img.Bank1A, _ = take(page1 * 256)
		}
	}
	return nil
}

// decodeBS93 parses a RAM program: big-endian load address, the BS93 magic,
// then the bytes to deposit at that address. Execution starts at the load
// address.
func (img *Image) decodeBS93(buf []byte) error {
	img.Kind = KindBS93
	img.LoadAddr = binary.BigEndian.Uint16(buf[0:2])
	img.Program = buf[6:]
	if int(img.LoadAddr)+len(img.Program) > 0x10000 {
		return fmt.Errorf("%w: program overflows RAM at %04x", ErrInvalidImage, img.LoadAddr)
	}
	return nil
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// BootStub returns a minimal 512-byte kernel ROM substitute: vectors
// pointing into RAM so headerless programs and tests can run without the
// proprietary boot ROM.
func BootStub() []byte {
	stub := make([]byte, 0x200)
	// NMI/IRQ at 0180, reset at 0200.
	stub[0x1FA] = 0x80
	stub[0x1FB] = 0x01
	stub[0x1FC] = 0x00
	stub[0x1FD] = 0x02
	stub[0x1FE] = 0x80
	stub[0x1FF] = 0x01
	return stub
}
