package hw

// JOYSTICK register bits.
const (
	JoyA     = 0x01
	JoyB     = 0x02
	JoyOpt2  = 0x04
	JoyOpt1  = 0x08
	JoyLeft  = 0x10
	JoyRight = 0x20
	JoyUp    = 0x40
	JoyDown  = 0x80
)

// SWITCHES register bits.
const (
	SwPause = 0x01
)

// Keys is the host-facing keypad state.
type Keys struct {
	Up, Down, Left, Right bool
	Opt1, Opt2, Pause     bool
	A, B                  bool
}

// InputState holds the keypad bits the way the pad registers read them.
type InputState struct {
	joy uint8
	sw  uint8
}

func (in *InputState) Set(k Keys) {
	var joy, sw uint8
	if k.A {
		joy |= JoyA
	}
	if k.B {
		joy |= JoyB
	}
	if k.Opt2 {
		joy |= JoyOpt2
	}
	if k.Opt1 {
		joy |= JoyOpt1
	}
	if k.Left {
		joy |= JoyLeft
	}
	if k.Right {
		joy |= JoyRight
	}
	if k.Up {
		joy |= JoyUp
	}
	if k.Down {
		joy |= JoyDown
	}
	if k.Pause {
		sw |= SwPause
	}
	in.joy = joy
	in.sw = sw
}

func (in *InputState) Joystick() uint8 { return in.joy }
func (in *InputState) Switches() uint8 { return in.sw }
