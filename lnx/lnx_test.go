package lnx

import (
	"bytes"
	"errors"
	"testing"
)

func cartHeader(page0, page1 uint16, title string) []byte {
	hdr := make([]byte, headerSize)
	copy(hdr, Magic)
	hdr[4] = byte(page0)
	hdr[5] = byte(page0 >> 8)
	hdr[6] = byte(page1)
	hdr[7] = byte(page1 >> 8)
	copy(hdr[10:42], title)
	copy(hdr[42:58], "test mfg")
	hdr[58] = byte(RotationLeft)
	return hdr
}

func TestReadCart(t *testing.T) {
	bank0 := bytes.Repeat([]byte{0xA5}, 1*256)
	bank1 := bytes.Repeat([]byte{0x5A}, 2*256)
	buf := append(cartHeader(1, 2, "HELLO"), bank0...)
	buf = append(buf, bank1...)

	var img Image
	if _, err := img.ReadFrom(bytes.NewReader(buf)); err != nil {
		t.Fatal(err)
	}

	if img.Kind != KindCart {
		t.Fatalf("kind = %v, want cart", img.Kind)
	}
	if img.Title != "HELLO" {
		t.Errorf("title = %q, want HELLO", img.Title)
	}
	if img.Manufacturer != "test mfg" {
		t.Errorf("manufacturer = %q", img.Manufacturer)
	}
	if img.Rotation != RotationLeft {
		t.Errorf("rotation = %d, want left", img.Rotation)
	}
	if len(img.Bank0) != 256 || img.Bank0[0] != 0xA5 {
		t.Errorf("bank0: %d bytes, first %02X", len(img.Bank0), img.Bank0[0])
	}
	if len(img.Bank1) != 512 || img.Bank1[0] != 0x5A {
		t.Errorf("bank1: %d bytes", len(img.Bank1))
	}
}

func TestReadCartTruncated(t *testing.T) {
	buf := append(cartHeader(4, 0, "SHORT"), 0x00, 0x01)
	var img Image
	if _, err := img.ReadFrom(bytes.NewReader(buf)); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("err = %v, want ErrInvalidImage", err)
	}
}

func TestReadRaw(t *testing.T) {
	buf := bytes.Repeat([]byte{0x42}, 4*256)
	var img Image
	if _, err := img.ReadFrom(bytes.NewReader(buf)); err != nil {
		t.Fatal(err)
	}
	if img.Kind != KindCart || len(img.Bank0) != 1024 {
		t.Fatalf("raw dump: kind %v, bank0 %d bytes", img.Kind, len(img.Bank0))
	}
}

func TestReadBS93(t *testing.T) {
	buf := []byte{0x06, 0x00, 'B', 'S', '9', '3', 0xA9, 0x42, 0xDB}
	var img Image
	if _, err := img.ReadFrom(bytes.NewReader(buf)); err != nil {
		t.Fatal(err)
	}
	if img.Kind != KindBS93 {
		t.Fatalf("kind = %v, want BS93", img.Kind)
	}
	if img.LoadAddr != 0x0600 {
		t.Errorf("load addr = %04X, want 0600", img.LoadAddr)
	}
	if !bytes.Equal(img.Program, []byte{0xA9, 0x42, 0xDB}) {
		t.Errorf("program = % X", img.Program)
	}
}

func TestReadInvalid(t *testing.T) {
	var img Image
	_, err := img.ReadFrom(bytes.NewReader([]byte{1, 2, 3}))
	if !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("err = %v, want ErrInvalidImage", err)
	}
}

func TestBootStubVectors(t *testing.T) {
	stub := BootStub()
	if len(stub) != 0x200 {
		t.Fatalf("stub size = %d, want 512", len(stub))
	}
	reset := uint16(stub[0x1FD])<<8 | uint16(stub[0x1FC])
	if reset != 0x0200 {
		t.Errorf("reset vector = %04X, want 0200", reset)
	}
	irq := uint16(stub[0x1FF])<<8 | uint16(stub[0x1FE])
	if irq != 0x0180 {
		t.Errorf("irq vector = %04X, want 0180", irq)
	}
}
