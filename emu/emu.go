// Package emu wraps the machine core in a host-facing emulator loop:
// config, pause/stop/reset control, and the audio-clocked run loop.
package emu

import (
	"sync/atomic"
	"time"

	"caracal/emu/log"
	"caracal/hw"
	"caracal/lnx"
)

// audio buffer granularity, in stereo sample pairs
const audioChunk = 1024

// Emulator owns a Core and runs it. The emulation loop is audio-clocked:
// each iteration produces one audio buffer and hands it to the sink, which
// paces the loop through its own blocking.
type Emulator struct {
	Core *hw.Core
	cfg  Config

	// AudioSink receives interleaved stereo PCM. Nil discards samples and
	// paces on the wall clock instead.
	AudioSink func([]int16)

	// These are accessed concurrently by the emulator loop and the host.
	quit    atomic.Bool
	paused  atomic.Bool
	restart atomic.Bool

	audioBuf [audioChunk * 2]int16
}

// Launch builds the machine for an image and prepares the loop. It doesn't
// start emulation, call Run for that.
func Launch(img *lnx.Image, cfg Config) (*Emulator, error) {
	cfg.Audio.Check()

	core := hw.New(hw.Config{
		Image:          img,
		DetailedSerial: cfg.Emulation.DetailedSerial,
	})
	if cfg.Emulation.BreakOnBrk {
		core.CPU.SetBreakOnBrk(true)
	}
	if cfg.TraceOut != nil {
		core.CPU.SetTraceOutput(cfg.TraceOut)
	}

	return &Emulator{Core: core, cfg: cfg}, nil
}

// RunChunk emulates one audio buffer's worth of machine time.
func (e *Emulator) RunChunk() hw.BreakReason {
	n, reason := e.Core.RunAudio(e.cfg.Audio.SampleRate, e.audioBuf[:])
	if e.AudioSink != nil {
		e.AudioSink(e.audioBuf[:n*2])
	}
	return reason
}

// Run is the emulation loop. It returns when the host stops the emulator or
// the machine hits a debug trap.
func (e *Emulator) Run() hw.BreakReason {
	for {
		if e.quit.Load() {
			return hw.BreakCancelled
		}
		if e.paused.Load() {
			// Don't burn cpu while paused.
			time.Sleep(100 * time.Millisecond)
			continue
		}
		e.handleRestart()

		switch reason := e.RunChunk(); reason {
		case hw.BreakNone, hw.BreakFrame:
		default:
			log.ModEmu.InfoZ("emulation loop exited").
				Stringer("reason", reason).
				End()
			return reason
		}

		if e.AudioSink == nil {
			// Nothing blocks on audio: pace on the wall clock.
			time.Sleep(time.Duration(audioChunk) * time.Second /
				time.Duration(e.cfg.Audio.SampleRate))
		}
	}
}

// SetPause, Stop and Restart control the emulator loop in a
// concurrent-safe way.

func (e *Emulator) SetPause(pause bool) { e.paused.Store(pause) }
func (e *Emulator) Restart()            { e.restart.Store(true) }

func (e *Emulator) Stop() {
	e.quit.Store(true)
	e.Core.RequestStop()
}

func (e *Emulator) handleRestart() {
	if e.restart.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("performing hard reset").End()
		e.Core.Reset()
	}
}
