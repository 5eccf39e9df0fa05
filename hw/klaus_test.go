package hw

import (
	"os"
	"testing"

	"caracal/tests"
)

// TestKlausFunctional runs the downloaded 6502 functional suite: the binary
// self-checks every base opcode and parks in a success loop at a known
// address. Opt-in (it downloads and runs hundreds of millions of cycles):
//
//	CARACAL_CONFORMANCE=1 go test -run Klaus -timeout 30m ./hw
func TestKlausFunctional(t *testing.T) {
	if os.Getenv("CARACAL_CONFORMANCE") == "" {
		t.Skip("set CARACAL_CONFORMANCE=1 to run the downloaded suite")
	}

	path, err := tests.Path(t, "6502_functional_test.bin")
	if err != nil {
		t.Skipf("suite not available: %v", err)
	}
	bin, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	const successLoop = 0x3469

	clock := &Clock{}
	mmu := NewMMU(clock)
	mmu.MapCtl = 0x0F // suite expects flat RAM
	cpu := NewCPU(mmu)
	copy(mmu.RAM[:], bin)
	cpu.PC = 0x0400

	prev := uint16(0xFFFF)
	for i := 0; i < 500_000_000; i++ {
		cpu.Step()
		if cpu.PC == prev {
			if cpu.PC == successLoop {
				return
			}
			t.Fatalf("trapped at %04X (test %02X)", cpu.PC, mmu.Peek(0x0200))
		}
		prev = cpu.PC
	}
	t.Fatal("suite did not finish")
}
