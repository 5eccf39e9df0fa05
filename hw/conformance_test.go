package hw

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-faster/jx"
)

// stepVector is one case of the single-step opcode conformance format: a
// full machine state before and after executing exactly one instruction.
type stepVector struct {
	Name    string
	Initial stepState
	Final   stepState
}

type stepState struct {
	PC      uint16
	S       uint8
	A, X, Y uint8
	P       uint8
	RAM     [][2]uint16 // addr, value pairs
}

// TestOpcodeVectors replays JSON conformance vectors against the
// interpreter, one file per opcode. Vectors are not committed; drop them in
// testdata/vectors to run the full sweep.
func TestOpcodeVectors(t *testing.T) {
	files, _ := filepath.Glob(filepath.Join("testdata", "vectors", "*.json"))
	if len(files) == 0 {
		t.Skip("no conformance vectors in testdata/vectors")
	}

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			buf, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			vectors, err := decodeVectors(buf)
			if err != nil {
				t.Fatal(err)
			}

			for _, v := range vectors {
				runVector(t, v)
			}
		})
	}
}

func runVector(t *testing.T, v stepVector) {
	t.Helper()

	clock := &Clock{}
	mmu := NewMMU(clock)
	mmu.MapCtl = 0x0F // plain RAM everywhere
	cpu := NewCPU(mmu)

	cpu.PC = v.Initial.PC
	cpu.SP = v.Initial.S
	cpu.A = v.Initial.A
	cpu.X = v.Initial.X
	cpu.Y = v.Initial.Y
	cpu.P = P(v.Initial.P)
	for _, rv := range v.Initial.RAM {
		mmu.Poke(rv[0], uint8(rv[1]))
	}

	cpu.Step()

	if cpu.PC != v.Final.PC {
		t.Errorf("%s: PC = %04X, want %04X", v.Name, cpu.PC, v.Final.PC)
	}
	if cpu.SP != v.Final.S || cpu.A != v.Final.A || cpu.X != v.Final.X || cpu.Y != v.Final.Y {
		t.Errorf("%s: regs = %02X/%02X/%02X/%02X, want %02X/%02X/%02X/%02X",
			v.Name, cpu.A, cpu.X, cpu.Y, cpu.SP,
			v.Final.A, v.Final.X, v.Final.Y, v.Final.S)
	}
	if uint8(cpu.P) != v.Final.P {
		t.Errorf("%s: P = %s, want %s", v.Name, cpu.P, P(v.Final.P))
	}
	for _, rv := range v.Final.RAM {
		if got := mmu.Peek(rv[0]); got != uint8(rv[1]) {
			t.Errorf("%s: mem[%04X] = %02X, want %02X", v.Name, rv[0], got, uint8(rv[1]))
		}
	}
}

func decodeVectors(buf []byte) ([]stepVector, error) {
	var out []stepVector
	d := jx.DecodeBytes(buf)

	err := d.Arr(func(d *jx.Decoder) error {
		var v stepVector
		err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "name":
				s, err := d.Str()
				v.Name = s
				return err
			case "initial":
				return decodeState(d, &v.Initial)
			case "final":
				return decodeState(d, &v.Final)
			default:
				return d.Skip()
			}
		})
		out = append(out, v)
		return err
	})
	return out, err
}

func decodeState(d *jx.Decoder, s *stepState) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		u16 := func(dst *uint16) error {
			n, err := d.UInt32()
			*dst = uint16(n)
			return err
		}
		u8 := func(dst *uint8) error {
			n, err := d.UInt32()
			*dst = uint8(n)
			return err
		}
		switch key {
		case "pc":
			return u16(&s.PC)
		case "s":
			return u8(&s.S)
		case "a":
			return u8(&s.A)
		case "x":
			return u8(&s.X)
		case "y":
			return u8(&s.Y)
		case "p":
			return u8(&s.P)
		case "ram":
			return d.Arr(func(d *jx.Decoder) error {
				var pair [2]uint16
				i := 0
				err := d.Arr(func(d *jx.Decoder) error {
					n, err := d.UInt32()
					if i < 2 {
						pair[i] = uint16(n)
					}
					i++
					return err
				})
				s.RAM = append(s.RAM, pair)
				return err
			})
		default:
			return d.Skip()
		}
	})
}
