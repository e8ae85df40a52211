package debug

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Profiler collects timing statistics for named sections.
type Profiler struct {
	mu           sync.RWMutex
	measurements map[string]*Measurement
	enabled      atomic.Bool
	maxSamples   int
}

// Measurement holds timing statistics for a profiled section. Values returned
// by the profiler are snapshots.
type Measurement struct {
	Name  string
	Count uint64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
	Last  time.Duration

	samples     []time.Duration
	sampleIndex int
}

// NewProfiler creates a profiler that keeps the last maxSamples timings per section.
func NewProfiler(maxSamples int) *Profiler {
	if maxSamples < 1 {
		maxSamples = 1
	}
	p := &Profiler{
		measurements: make(map[string]*Measurement),
		maxSamples:   maxSamples,
	}
	p.enabled.Store(true)
	return p
}

// SetEnabled enables or disables profiling.
func (p *Profiler) SetEnabled(enabled bool) {
	p.enabled.Store(enabled)
}

// IsEnabled returns whether profiling is enabled.
func (p *Profiler) IsEnabled() bool {
	return p.enabled.Load()
}

// Start begins timing a named section and returns the function that stops it.
func (p *Profiler) Start(name string) func() {
	if !p.enabled.Load() {
		return func() {}
	}

	start := time.Now()
	return func() {
		p.Record(name, time.Since(start))
	}
}

// Time measures the execution time of fn.
func (p *Profiler) Time(name string, fn func()) {
	stop := p.Start(name)
	defer stop()
	fn()
}

// Record stores a timing measurement for name.
func (p *Profiler) Record(name string, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, exists := p.measurements[name]
	if !exists {
		m = &Measurement{
			Name:    name,
			Min:     elapsed,
			Max:     elapsed,
			samples: make([]time.Duration, 0, p.maxSamples),
		}
		p.measurements[name] = m
	}

	m.Count++
	m.Total += elapsed
	m.Last = elapsed
	if elapsed < m.Min {
		m.Min = elapsed
	}
	if elapsed > m.Max {
		m.Max = elapsed
	}

	if len(m.samples) < p.maxSamples {
		m.samples = append(m.samples, elapsed)
	} else {
		m.samples[m.sampleIndex] = elapsed
	}
	m.sampleIndex = (m.sampleIndex + 1) % p.maxSamples
}

// Measurement returns a snapshot of the named section.
func (p *Profiler) Measurement(name string) (Measurement, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	m, exists := p.measurements[name]
	if !exists {
		return Measurement{}, false
	}
	return m.snapshot(), true
}

// Measurements returns snapshots of all sections sorted by name.
func (p *Profiler) Measurements() []Measurement {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]Measurement, 0, len(p.measurements))
	for _, m := range p.measurements {
		result = append(result, m.snapshot())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Reset clears all measurements.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.measurements = make(map[string]*Measurement)
}

// Report generates a human readable performance report.
func (p *Profiler) Report() string {
	measurements := p.Measurements()
	if len(measurements) == 0 {
		return "No measurements recorded"
	}

	var sb strings.Builder
	sb.WriteString("Performance Report:\n")
	sb.WriteString("==================\n\n")
	for _, m := range measurements {
		fmt.Fprintf(&sb, "%s:\n", m.Name)
		fmt.Fprintf(&sb, "  Count:   %d\n", m.Count)
		fmt.Fprintf(&sb, "  Total:   %v\n", m.Total)
		fmt.Fprintf(&sb, "  Average: %v\n", m.Average())
		fmt.Fprintf(&sb, "  Min:     %v\n", m.Min)
		fmt.Fprintf(&sb, "  Max:     %v\n", m.Max)
		fmt.Fprintf(&sb, "  P95:     %v\n", m.Percentile(95))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Measurement) snapshot() Measurement {
	c := *m
	c.samples = append([]time.Duration(nil), m.samples...)
	return c
}

// Average returns the average time for this measurement.
func (m Measurement) Average() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return m.Total / time.Duration(m.Count)
}

// Percentile returns the p-th percentile (0..100) of the retained samples.
func (m Measurement) Percentile(p float64) time.Duration {
	if len(m.samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), m.samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	p = math.Max(0, math.Min(100, p))
	index := int(math.Ceil(float64(len(sorted))*p/100.0)) - 1
	if index < 0 {
		index = 0
	}
	return sorted[index]
}

// ProcessSection is the section name BlockProfiler records process calls under.
const ProcessSection = "process"

// BlockProfiler times audio process calls and derives CPU load as the share of
// the block's real-time duration spent processing.
type BlockProfiler struct {
	*Profiler
	sampleRate float64

	// cpuLoad is stored as percent * 100.
	cpuLoad atomic.Uint64
	frames  atomic.Uint64
}

// NewBlockProfiler creates a profiler for a plugin running at sampleRate.
func NewBlockProfiler(sampleRate float64) *BlockProfiler {
	return &BlockProfiler{
		Profiler:   NewProfiler(1000),
		sampleRate: sampleRate,
	}
}

// Begin starts timing a block of frames. Call the returned func when the block is done.
func (b *BlockProfiler) Begin(frames uint32) func() {
	if !b.IsEnabled() {
		return func() {}
	}
	start := time.Now()
	return func() {
		b.Observe(frames, time.Since(start))
	}
}

// Observe records one processed block.
func (b *BlockProfiler) Observe(frames uint32, elapsed time.Duration) {
	b.Record(ProcessSection, elapsed)
	b.frames.Add(uint64(frames))

	if frames == 0 || b.sampleRate <= 0 {
		return
	}
	budget := float64(frames) / b.sampleRate * float64(time.Second)
	load := float64(elapsed) / budget * 100.0
	b.cpuLoad.Store(uint64(load * 100))
}

// CPULoad returns the load of the most recent block in percent.
func (b *BlockProfiler) CPULoad() float64 {
	return float64(b.cpuLoad.Load()) / 100.0
}

// FramesProcessed returns the total number of frames observed.
func (b *BlockProfiler) FramesProcessed() uint64 {
	return b.frames.Load()
}

// AudioReport extends Report with sample rate, frame count and CPU load.
func (b *BlockProfiler) AudioReport() string {
	var sb strings.Builder
	sb.WriteString(b.Report())
	sb.WriteString("\nAudio Processing Stats:\n")
	fmt.Fprintf(&sb, "  Sample Rate:  %.0f Hz\n", b.sampleRate)
	fmt.Fprintf(&sb, "  Frames:       %d\n", b.FramesProcessed())
	fmt.Fprintf(&sb, "  CPU Load:     %.2f%%\n", b.CPULoad())
	return sb.String()
}
