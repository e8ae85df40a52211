// Package host drives a registered plugin in process, the way a CLAP host
// would: it owns the audio buffers, feeds parameter changes from a thread-safe
// queue and runs the instance lifecycle. It backs the integration tests and the
// preview tool.
package host

import (
	"errors"
	"fmt"

	"github.com/justyntemme/picosine/pkg/clap"
	"github.com/justyntemme/picosine/pkg/framework/bus"
	"github.com/justyntemme/picosine/pkg/framework/debug"
	"github.com/justyntemme/picosine/pkg/framework/process"
	"github.com/justyntemme/picosine/pkg/plugin"
)

// Config controls activation and buffer format.
type Config struct {
	SampleRate float64
	BlockSize  uint32
	// Use64 hands the plugin 64-bit buffers instead of 32-bit ones.
	Use64 bool
	// Logger defaults to debug.Default().
	Logger *debug.Logger
}

// DefaultConfig returns 48 kHz, 512 frame blocks, 32-bit buffers.
func DefaultConfig() Config {
	return Config{SampleRate: 48000, BlockSize: 512}
}

func (c Config) validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %g", c.SampleRate)
	}
	if c.BlockSize == 0 {
		return errors.New("block size must be positive")
	}
	return nil
}

// portBuffers holds one direction's channel storage, indexed [port][channel].
type portBuffers struct {
	f32 [][][]float32
	f64 [][][]float64
}

func newPortBuffers(ports *bus.Configuration, dir bus.Direction, frames uint32) portBuffers {
	n := ports.Count(dir)
	b := portBuffers{f32: make([][][]float32, n), f64: make([][][]float64, n)}
	for i := uint32(0); i < n; i++ {
		channels := ports.Get(dir, i).ChannelCount
		b.f32[i] = make([][]float32, channels)
		b.f64[i] = make([][]float64, channels)
		for ch := range b.f32[i] {
			b.f32[i][ch] = make([]float32, frames)
			b.f64[i][ch] = make([]float64, frames)
		}
	}
	return b
}

// bind points the context's buffers at this storage for a block.
func (b *portBuffers) bind(dst []process.AudioBuffer, use64 bool, frames uint32) {
	for port := range dst {
		buf := &dst[port]
		buf.Data32 = buf.Data32[:0]
		buf.Data64 = buf.Data64[:0]
		if use64 {
			for _, ch := range b.f64[port] {
				buf.Data64 = append(buf.Data64, ch[:frames])
			}
		} else {
			for _, ch := range b.f32[port] {
				buf.Data32 = append(buf.Data32, ch[:frames])
			}
		}
	}
}

// Host runs one plugin instance.
type Host struct {
	cfg      Config
	inst     *plugin.Instance
	queue    *EventQueue
	profiler *debug.BlockProfiler
	log      *debug.Logger

	inputs  portBuffers
	outputs portBuffers

	steadyTime int64
	lastFrames uint32
	closed     bool
}

// New instantiates p, activates it with cfg and starts processing.
func New(p plugin.Plugin, cfg Config) (*Host, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = debug.Default()
	}

	inst := plugin.NewInstance(p)
	inst.SetLogger(cfg.Logger)
	if err := inst.Init(); err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}
	if err := inst.Activate(cfg.SampleRate, 1, cfg.BlockSize); err != nil {
		inst.Destroy()
		return nil, fmt.Errorf("host: %w", err)
	}
	if err := inst.StartProcessing(); err != nil {
		inst.Destroy()
		return nil, fmt.Errorf("host: %w", err)
	}

	ports := inst.Processor().Ports()
	h := &Host{
		cfg:      cfg,
		inst:     inst,
		queue:    NewEventQueue(),
		profiler: debug.NewBlockProfiler(cfg.SampleRate),
		log:      cfg.Logger,
		inputs:   newPortBuffers(ports, bus.DirectionInput, cfg.BlockSize),
		outputs:  newPortBuffers(ports, bus.DirectionOutput, cfg.BlockSize),
	}
	h.log.Debug("host: running %s at %.0f Hz, block %d, 64-bit %v", inst.Info().ID, cfg.SampleRate, cfg.BlockSize, cfg.Use64)
	return h, nil
}

// Instance returns the hosted instance.
func (h *Host) Instance() *plugin.Instance { return h.inst }

// Config returns the host configuration.
func (h *Host) Config() Config { return h.cfg }

// Queue returns the event queue feeding the next block.
func (h *Host) Queue() *EventQueue { return h.queue }

// Profiler returns the process timing statistics.
func (h *Host) Profiler() *debug.BlockProfiler { return h.profiler }

// SetParam posts a parameter change for the next block. It is safe to call
// from any goroutine.
func (h *Host) SetParam(id clap.ID, value float64) {
	h.queue.SetParam(id, value)
}

// Process runs one block of frames. Outputs are zeroed first and inputs are
// silent.
func (h *Host) Process(frames uint32) (clap.ProcessStatus, error) {
	if h.closed {
		return clap.ProcessError, fmt.Errorf("host: process after close: %w", clap.ErrInvalidState)
	}
	if frames == 0 || frames > h.cfg.BlockSize {
		return clap.ProcessError, fmt.Errorf("host: %d frames outside 1..%d: %w", frames, h.cfg.BlockSize, clap.ErrInvalidArgument)
	}

	ctx := h.inst.Context()
	ctx.FramesCount = frames
	ctx.SteadyTime = h.steadyTime
	ctx.ClearEvents()
	ctx.InputEvents = h.queue.Drain(ctx.InputEvents, frames)

	h.inputs.bind(ctx.Inputs, h.cfg.Use64, frames)
	h.outputs.bind(ctx.Outputs, h.cfg.Use64, frames)
	ctx.Clear()
	for port := range ctx.Inputs {
		for _, ch := range ctx.Inputs[port].Data32 {
			clear(ch)
		}
		for _, ch := range ctx.Inputs[port].Data64 {
			clear(ch)
		}
	}

	stop := h.profiler.Begin(frames)
	status := h.inst.Process(ctx)
	stop()

	first := h.steadyTime == 0
	h.steadyTime += int64(frames)
	h.lastFrames = frames
	if first && h.log.Enabled(debug.LogLevelDebug) {
		h.logBlock()
	}
	if status == clap.ProcessError {
		return status, fmt.Errorf("host: %s returned a process error", h.inst.Info().ID)
	}
	return status, nil
}

// logBlock dumps the main output of the last block at debug level.
func (h *Host) logBlock() {
	if h.cfg.Use64 {
		for ch, out := range h.Output64(0) {
			logChannel(h.log, fmt.Sprintf("host: out %d", ch), out, h.cfg.SampleRate)
		}
		return
	}
	for ch, out := range h.Output32(0) {
		logChannel(h.log, fmt.Sprintf("host: out %d", ch), out, h.cfg.SampleRate)
	}
}

func logChannel[T debug.Sample](log *debug.Logger, name string, out []T, sampleRate float64) {
	r := debug.Analyze(debug.NewAudioAnalyzer(), out)
	log.Debug("%s", debug.FormatBuffer(name, out, 8))
	log.Debug("%s: %s zc_hz=%.0f", name, r, r.EstimateFrequency(sampleRate))
	for _, p := range debug.CheckBuffer(name, out) {
		log.Debug("%s", p)
	}
}

// Output32 returns the 32-bit channels of an output port from the last block.
// It is only filled when the host runs in 32-bit mode.
func (h *Host) Output32(port int) [][]float32 {
	if port < 0 || port >= len(h.outputs.f32) {
		return nil
	}
	out := make([][]float32, len(h.outputs.f32[port]))
	for ch, buf := range h.outputs.f32[port] {
		out[ch] = buf[:h.lastFrames]
	}
	return out
}

// Output64 returns the 64-bit channels of an output port from the last block.
// It is only filled when the host runs in 64-bit mode.
func (h *Host) Output64(port int) [][]float64 {
	if port < 0 || port >= len(h.outputs.f64) {
		return nil
	}
	out := make([][]float64, len(h.outputs.f64[port]))
	for ch, buf := range h.outputs.f64[port] {
		out[ch] = buf[:h.lastFrames]
	}
	return out
}

// Interleave writes the main output port of the last block into dst as
// interleaved float32 frames and returns the number of samples written.
func (h *Host) Interleave(dst []float32) int {
	if len(h.outputs.f32) == 0 {
		return 0
	}
	channels := len(h.outputs.f32[0])
	if channels == 0 {
		return 0
	}

	frames := int(h.lastFrames)
	if fit := len(dst) / channels; frames > fit {
		frames = fit
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			if h.cfg.Use64 {
				dst[i*channels+ch] = float32(h.outputs.f64[0][ch][i])
			} else {
				dst[i*channels+ch] = h.outputs.f32[0][ch][i]
			}
		}
	}
	return frames * channels
}

// MainOutputChannels returns the channel count of the main output port.
func (h *Host) MainOutputChannels() int {
	if len(h.outputs.f32) == 0 {
		return 0
	}
	return len(h.outputs.f32[0])
}

// Close stops processing, deactivates and destroys the instance.
func (h *Host) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	h.inst.StopProcessing()
	err := h.inst.Deactivate()
	h.inst.Destroy()
	if err != nil {
		return fmt.Errorf("host: %w", err)
	}
	return nil
}
