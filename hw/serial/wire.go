// Package serial implements the console's wired-OR serial link: a single
// shared line where any party may pull low (dominant) and all must release
// for high (recessive). Two byte-transport backends exist behind the same
// front-end: a coarse one that moves whole bytes across the wire in two
// transitions, and a detailed one that shifts every bit.
package serial

// Wire is the shared line. The electrical state is derived from the pull
// counter, never stored: pulls > 0 means logical 0.
type Wire struct {
	pulls   int
	parties int

	// Coarse-transport side channel: a posted byte with its parity bit.
	// Receivers consume it by sequence number so every connected party,
	// including the transmitter's own receiver, hears it exactly once.
	coarseSeq    uint64
	coarseData   uint8
	coarseParity uint8
}

func NewWire() *Wire {
	return &Wire{}
}

// Connect registers a party and returns its id.
func (w *Wire) Connect() int {
	w.parties++
	return w.parties - 1
}

func (w *Wire) PullDown() { w.pulls++ }

func (w *Wire) PullUp() {
	if w.pulls > 0 {
		w.pulls--
	}
}

// Level returns the electrical state of the line: 0 dominant, 1 recessive.
func (w *Wire) Level() int {
	if w.pulls > 0 {
		return 0
	}
	return 1
}

func (w *Wire) postCoarse(data, parity uint8) {
	w.coarseSeq++
	w.coarseData = data
	w.coarseParity = parity
}

func (w *Wire) takeCoarse(lastSeq *uint64) (data, parity uint8, ok bool) {
	if w.coarseSeq == *lastSeq {
		return 0, 0, false
	}
	*lastSeq = w.coarseSeq
	return w.coarseData, w.coarseParity, true
}
