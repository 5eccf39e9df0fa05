package serial

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Both transports must behave identically on a lossless wire; every test
// runs against each.
var backends = []struct {
	name string
	mk   func(*Wire) *ComLynx
}{
	{"coarse", New},
	{"detailed", NewDetailed},
}

func pulseBoth(a, b *ComLynx, n int) {
	for i := 0; i < n; i++ {
		a.Pulse()
		b.Pulse()
	}
}

func TestLoopback(t *testing.T) {
	for _, be := range backends {
		t.Run(be.name, func(t *testing.T) {
			wire := NewWire()
			a := be.mk(wire)
			b := be.mk(wire)
			a.SetCtrl(CtlParEn | CtlParEven)
			b.SetCtrl(CtlParEn | CtlParEven)

			a.SetData(0x5A)
			pulseBoth(a, b, 40)

			status := b.Status()
			if status&StatRxRdy == 0 {
				t.Fatalf("status = %02X, want RXRDY", status)
			}
			if status&(StatParErr|StatFrameErr|StatOverrun|StatRxBrk) != 0 {
				t.Fatalf("status = %02X, want no errors", status)
			}
			if got := b.Data(); got != 0x5A {
				t.Fatalf("received %02X, want 5A", got)
			}

			// The transmitter hears itself on the shared wire.
			if a.Status()&StatRxRdy == 0 {
				t.Error("transmitter did not receive its own byte")
			}
		})
	}
}

func TestByteSequenceEquivalence(t *testing.T) {
	send := []uint8{0x00, 0xFF, 0x5A, 0xA5, 0x01, 0x80}

	recv := func(mk func(*Wire) *ComLynx) []uint8 {
		wire := NewWire()
		a := mk(wire)
		b := mk(wire)
		a.SetCtrl(CtlParEn | CtlParEven)
		b.SetCtrl(CtlParEn | CtlParEven)

		var got []uint8
		for _, v := range send {
			a.SetData(v)
			for i := 0; i < 40; i++ {
				a.Pulse()
				b.Pulse()
				if b.Status()&StatRxRdy != 0 {
					got = append(got, b.Data())
				}
			}
		}
		return got
	}

	coarse := recv(New)
	detailed := recv(NewDetailed)
	if diff := cmp.Diff(send, coarse); diff != "" {
		t.Errorf("coarse backend sequence (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(coarse, detailed); diff != "" {
		t.Errorf("backends disagree (-coarse +detailed):\n%s", diff)
	}
}

// A held-low wire for more than 24 bit times is a break.
func TestBreakDetection(t *testing.T) {
	for _, be := range backends {
		t.Run(be.name, func(t *testing.T) {
			wire := NewWire()
			a := be.mk(wire)
			b := be.mk(wire)

			a.SetCtrl(CtlTxBrk)
			pulseBoth(a, b, 40)

			if b.Status()&StatRxBrk == 0 {
				t.Fatalf("status = %02X, want RXBRK", b.Status())
			}

			// Releasing the line and resetting errors recovers the receiver.
			a.SetCtrl(0)
			pulseBoth(a, b, 5)
			b.SetCtrl(CtlResetErr)
			if b.Status()&StatRxBrk != 0 {
				t.Fatalf("RXBRK survives RESETERR")
			}

			a.SetData(0x3C)
			pulseBoth(a, b, 40)
			if got := b.Data(); got != 0x3C {
				t.Fatalf("received %02X after break, want 3C", got)
			}
		})
	}
}

func TestOverrun(t *testing.T) {
	for _, be := range backends {
		t.Run(be.name, func(t *testing.T) {
			wire := NewWire()
			a := be.mk(wire)
			b := be.mk(wire)

			a.SetData(0x11)
			pulseBoth(a, b, 40)
			a.SetData(0x22)
			pulseBoth(a, b, 40)

			if b.Status()&StatOverrun == 0 {
				t.Fatalf("status = %02X, want OVERRUN", b.Status())
			}
			// The latest byte wins.
			if got := b.Data(); got != 0x22 {
				t.Fatalf("received %02X, want 22", got)
			}
		})
	}
}

func TestTxStatus(t *testing.T) {
	for _, be := range backends {
		t.Run(be.name, func(t *testing.T) {
			wire := NewWire()
			a := be.mk(wire)
			b := be.mk(wire)

			if a.Status()&StatTxRdy == 0 {
				t.Fatal("idle transmitter not ready")
			}
			a.SetData(0xAA)
			if a.Status()&StatTxRdy != 0 {
				t.Fatal("loaded transmitter still ready")
			}
			a.Pulse()
			b.Pulse()
			if a.Status()&StatTxRdy == 0 {
				t.Fatal("transmitting: buffer should be free again")
			}
			if a.Status()&StatTxEmpty != 0 {
				t.Fatal("transmitting: shifter should be busy")
			}
			pulseBoth(a, b, 40)
			if a.Status()&StatTxEmpty == 0 {
				t.Fatal("idle transmitter: shifter should be empty")
			}
		})
	}
}

func TestTxInterrupt(t *testing.T) {
	wire := NewWire()
	a := New(wire)

	a.SetCtrl(CtlTxIntEn)
	if !a.Interrupt() {
		t.Error("empty buffer with TXINTEN should interrupt")
	}
	a.SetData(0x00)
	if a.Interrupt() {
		t.Error("full buffer should not interrupt")
	}
}

func TestWireLevels(t *testing.T) {
	w := NewWire()
	if w.Level() != 1 {
		t.Fatal("idle wire should be high")
	}
	w.PullDown()
	w.PullDown()
	if w.Level() != 0 {
		t.Fatal("pulled wire should be low")
	}
	w.PullUp()
	if w.Level() != 0 {
		t.Fatal("one of two pulls released: still low")
	}
	w.PullUp()
	if w.Level() != 1 {
		t.Fatal("all pulls released: high")
	}
}
