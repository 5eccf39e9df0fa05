package hw

import (
	"github.com/arl/blip"

	"caracal/emu/log"
)

// SystemClockHz is the master clock rate every tick count refers to.
const SystemClockHz = 16_000_000

const maxSampleRate = 96000
const maxSamplesPerRead = maxSampleRate / 10

// Mixer turns per-channel output toggles into band-limited stereo PCM. The
// four channels feed signed deltas at exact tick timestamps; blip does the
// resampling to whatever rate the audio sink runs at.
type Mixer struct {
	bufL *blip.Buffer
	bufR *blip.Buffer

	frameStart uint64 // tick corresponding to blip time zero
	sampleRate int
	window     uint64 // ticks the blip buffers can hold at the current rate
}

func NewMixer() *Mixer {
	return &Mixer{
		bufL: blip.NewBuffer(maxSamplesPerRead),
		bufR: blip.NewBuffer(maxSamplesPerRead),
	}
}

func (mx *Mixer) Reset() {
	mx.bufL.Clear()
	mx.bufR.Clear()
	mx.frameStart = 0
}

// SetSampleRate reprograms the resampler. The emulation clock side is fixed.
func (mx *Mixer) SetSampleRate(rate int) {
	if rate == mx.sampleRate {
		return
	}
	if rate > maxSampleRate {
		log.ModSound.WarnZ("sample rate clamped").
			Int("requested", rate).
			Int("max", maxSampleRate).
			End()
		rate = maxSampleRate
	}
	mx.sampleRate = rate
	mx.bufL.SetRates(SystemClockHz, float64(rate))
	mx.bufR.SetRates(SystemClockHz, float64(rate))
	mx.window = uint64(maxSamplesPerRead) * SystemClockHz / uint64(rate)
}

// Rebase declares tick as blip time zero. Called when emulation starts
// producing for a fresh buffer.
func (mx *Mixer) Rebase(tick uint64) {
	mx.frameStart = tick
}

// ClocksNeeded returns how many ticks must elapse before nsamples can be
// read out.
func (mx *Mixer) ClocksNeeded(nsamples int) int {
	return mx.bufL.ClocksNeeded(nsamples)
}

// ChannelDelta records a channel output change at an absolute tick. The
// gains come pre-resolved from the attenuation registers. Deltas landing
// outside the resampler's window are dropped: that only happens when nobody
// is draining audio.
func (mx *Mixer) ChannelDelta(tick uint64, old, new int8, gains [2]int32) {
	if mx.sampleRate == 0 || tick < mx.frameStart {
		return
	}
	t := tick - mx.frameStart
	if t >= mx.window {
		return
	}
	d := int32(new) - int32(old)
	if l := d * gains[0] >> 2; l != 0 {
		mx.bufL.AddDelta(t, l)
	}
	if r := d * gains[1] >> 2; r != 0 {
		mx.bufR.AddDelta(t, r)
	}
}

// EndFrame closes the interval [frameStart, now) and makes its samples
// readable.
func (mx *Mixer) EndFrame(now uint64) {
	elapsed := int(now - mx.frameStart)
	mx.bufL.EndFrame(elapsed)
	mx.bufR.EndFrame(elapsed)
	mx.frameStart = now
}

// ReadSamples fills buf with interleaved stereo samples and returns the
// number of stereo pairs written.
func (mx *Mixer) ReadSamples(buf []int16) int {
	pairs := len(buf) / 2
	n := mx.bufL.ReadSamples(buf, pairs, blip.Stereo)
	mx.bufR.ReadSamples(buf[1:], n, blip.Stereo)
	return n
}

// SamplesAvailable returns how many stereo pairs are buffered.
func (mx *Mixer) SamplesAvailable() int {
	return mx.bufL.SamplesAvailable()
}
