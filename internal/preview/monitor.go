package preview

import (
	"github.com/justyntemme/picosine/internal/picosine"
	"github.com/justyntemme/picosine/pkg/dsp/analysis"
)

// Levels reports what is actually coming out of the plugin.
type Levels interface {
	PeakDB() float64
	RMSDB() float64
	MeasuredFrequency() (float64, bool)
}

// rmsWindow is the RMS averaging time in seconds.
const rmsWindow = 0.3

// monitor measures the first channel of interleaved output blocks.
type monitor struct {
	mono    []float64
	meter   *analysis.PeakMeter
	rms     *analysis.RMSMeter
	tracker *analysis.FrequencyTracker
}

func newMonitor(sampleRate float64, blockSize int) *monitor {
	tracker := analysis.NewFrequencyTracker(sampleRate)
	tracker.SetRange(picosine.MinFrequency/2, picosine.MaxFrequency*2)

	return &monitor{
		mono:    make([]float64, blockSize),
		meter:   analysis.NewPeakMeter(sampleRate),
		rms:     analysis.NewRMSMeter(int(sampleRate * rmsWindow)),
		tracker: tracker,
	}
}

func (m *monitor) observe(interleaved []float32, channels int) {
	if channels == 0 {
		return
	}
	frames := min(len(interleaved)/channels, len(m.mono))
	for i := 0; i < frames; i++ {
		m.mono[i] = float64(interleaved[i*channels])
	}
	m.meter.Process(m.mono[:frames])
	m.rms.Process(m.mono[:frames])
	m.tracker.Process(m.mono[:frames])
}

func (m *monitor) PeakDB() float64 {
	return m.meter.PeakDB()
}

func (m *monitor) RMSDB() float64 {
	return m.rms.RMSDB()
}

func (m *monitor) MeasuredFrequency() (float64, bool) {
	return m.tracker.Frequency()
}
