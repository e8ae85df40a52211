package analysis

import (
	"math"
	"sync"
)

// SilenceThreshold is the peak level below which a window has no pitch.
const SilenceThreshold = 1e-4

// FrequencyTracker estimates the dominant frequency of a signal from
// consecutive, non-overlapping FFT windows.
type FrequencyTracker struct {
	mu         sync.Mutex
	fft        *FFT
	sampleRate float64
	buf        []float64
	fill       int
	minHz      float64
	maxHz      float64

	freq    float64
	level   float64
	valid   bool
	windows uint64
}

// NewFrequencyTracker creates a tracker with a Hann window covering at least
// an eighth of a second.
func NewFrequencyTracker(sampleRate float64) *FrequencyTracker {
	size := 256
	for float64(size) < sampleRate/8 {
		size <<= 1
	}
	fft, _ := NewFFT(size, HannWindow)

	return &FrequencyTracker{
		fft:        fft,
		sampleRate: sampleRate,
		buf:        make([]float64, size),
		maxHz:      sampleRate / 2,
	}
}

// Size returns the analysis window length in samples.
func (t *FrequencyTracker) Size() int { return t.fft.Size() }

// SetRange limits the search to [minHz, maxHz].
func (t *FrequencyTracker) SetRange(minHz, maxHz float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.minHz, t.maxHz = minHz, maxHz
}

// Process feeds samples. Each time a window fills, the estimate is updated.
func (t *FrequencyTracker) Process(samples []float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for len(samples) > 0 {
		n := copy(t.buf[t.fill:], samples)
		t.fill += n
		samples = samples[n:]

		if t.fill == len(t.buf) {
			t.analyze()
			t.fill = 0
		}
	}
}

func (t *FrequencyTracker) analyze() {
	t.windows++

	peak := 0.0
	for _, s := range t.buf {
		peak = math.Max(peak, math.Abs(s))
	}
	t.level = peak
	if peak < SilenceThreshold {
		t.valid = false
		return
	}

	mag := t.fft.Forward(t.buf)
	size := float64(t.fft.Size())
	lo := int(math.Floor(t.minHz * size / t.sampleRate))
	hi := int(math.Ceil(t.maxHz*size/t.sampleRate)) + 1

	// Bin 0 is DC.
	bin := PeakBin(mag, max(lo, 1), hi)
	if bin < 0 {
		t.valid = false
		return
	}
	t.freq = t.fft.BinFrequency(InterpolatePeak(mag, bin), t.sampleRate)
	t.valid = true
}

// Frequency returns the latest estimate and whether the last window held a
// tone.
func (t *FrequencyTracker) Frequency() (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.freq, t.valid
}

// Level returns the peak level of the last analysed window.
func (t *FrequencyTracker) Level() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.level
}

// Windows returns the number of windows analysed since the last reset.
func (t *FrequencyTracker) Windows() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.windows
}

// Reset discards buffered samples and the current estimate.
func (t *FrequencyTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fill = 0
	t.freq = 0
	t.level = 0
	t.valid = false
	t.windows = 0
}
