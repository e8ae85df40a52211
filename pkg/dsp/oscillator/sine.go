// Package oscillator provides a time-indexed sine oscillator.
//
// Unlike a phase accumulator, Sine evaluates every sample from an absolute
// sample counter, so a frequency change takes effect at the next block with
// no state other than the counter to carry over.
package oscillator

import "math"

// DefaultGain is the output amplitude used by New.
const DefaultGain = 0.5

// Sample is the set of sample formats Sine renders into.
type Sample interface {
	~float32 | ~float64
}

// Sine renders sin(2π·f·(t+i)/sampleRate)·gain where t is a wrapping
// uint32 sample counter advanced once per block.
type Sine struct {
	sampleRate float64
	gain       float64
	t          uint32
}

// New creates a sine oscillator at sampleRate with DefaultGain.
func New(sampleRate float64) *Sine {
	return &Sine{sampleRate: sampleRate, gain: DefaultGain}
}

// SampleRate returns the sample rate.
func (s *Sine) SampleRate() float64 { return s.sampleRate }

// SetSampleRate changes the sample rate without touching the counter.
func (s *Sine) SetSampleRate(sampleRate float64) { s.sampleRate = sampleRate }

// Gain returns the output amplitude.
func (s *Sine) Gain() float64 { return s.gain }

// SetGain sets the output amplitude.
func (s *Sine) SetGain(gain float64) { s.gain = gain }

// Time returns the sample counter.
func (s *Sine) Time() uint32 { return s.t }

// SetTime sets the sample counter.
func (s *Sine) SetTime(t uint32) { s.t = t }

// Reset sets the sample counter to zero.
func (s *Sine) Reset() { s.t = 0 }

// Advance moves the counter forward by frames, wrapping modulo 2^32.
func (s *Sine) Advance(frames uint32) { s.t += frames }

// At returns the sample at offset i from counter t. The sum t+i is taken in
// 64 bits so the last block before a wrap stays continuous.
func (s *Sine) At(freq float64, t uint32, i int) float64 {
	n := float64(uint64(t) + uint64(i))
	return math.Sin(2*math.Pi*freq*n/s.sampleRate) * s.gain
}

// Render fills dst starting at the current counter. The counter is not advanced
// so every channel of a block can be rendered from the same position.
func Render[T Sample](s *Sine, dst []T, freq float64) {
	if s.sampleRate <= 0 {
		clear(dst)
		return
	}
	base := uint64(s.t)
	for i := range dst {
		n := float64(base + uint64(i))
		dst[i] = T(math.Sin(2*math.Pi*freq*n/s.sampleRate) * s.gain)
	}
}

// Render32 fills a 32-bit buffer. See Render.
func (s *Sine) Render32(dst []float32, freq float64) { Render(s, dst, freq) }

// Render64 fills a 64-bit buffer. See Render.
func (s *Sine) Render64(dst []float64, freq float64) { Render(s, dst, freq) }
