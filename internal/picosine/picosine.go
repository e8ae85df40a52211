// Package picosine is a CLAP synthesizer that plays a continuous sine wave at
// a host-adjustable frequency.
package picosine

import (
	"github.com/justyntemme/picosine/pkg/clap"
	"github.com/justyntemme/picosine/pkg/dsp/oscillator"
	"github.com/justyntemme/picosine/pkg/framework/bus"
	"github.com/justyntemme/picosine/pkg/framework/param"
	"github.com/justyntemme/picosine/pkg/framework/plugin"
	"github.com/justyntemme/picosine/pkg/framework/process"
	pluginapi "github.com/justyntemme/picosine/pkg/plugin"
)

// Descriptor values.
const (
	ID   = "link.stef.audio.picosine"
	Name = "PicoSine"
)

// Frequency parameter.
const (
	ParamFrequency   clap.ID = 0
	FrequencyModule          = "picosine/frequency"
	MinFrequency             = 30.0
	MaxFrequency             = 1000.0
	DefaultFrequency         = 440.0
)

// Gain is the fixed output amplitude.
const Gain = 0.5

// Plugin is the PicoSine factory entry.
type Plugin struct{}

// Info returns the descriptor. Everything except id, name and features is
// left empty.
func (Plugin) Info() plugin.Info {
	return plugin.Info{
		ID:       ID,
		Name:     Name,
		Features: []string{clap.FeatureSynthesizer, clap.FeatureStereo},
	}
}

// CreateProcessor creates a new instance of the audio processor
func (Plugin) CreateProcessor() pluginapi.Processor {
	return NewProcessor()
}

// Processor renders the sine. The frequency parameter is its only shared
// state: the host's control side writes it, Process reads it once per block.
type Processor struct {
	*plugin.BaseProcessor
	freq *param.Parameter
	osc  *oscillator.Sine

	// Prebuilt render callbacks so Process does not allocate.
	render32 func(port, ch int, out []float32)
	render64 func(port, ch int, out []float64)
	blockHz  float64
}

// NewProcessor creates a processor with the frequency at its default.
func NewProcessor() *Processor {
	p := &Processor{
		BaseProcessor: plugin.NewBaseProcessor(bus.NewStereoConfiguration("main")),
		osc:           oscillator.New(0),
	}
	p.osc.SetGain(Gain)

	p.freq = param.WholeHertzParameter(ParamFrequency, "Frequency", MinFrequency, MaxFrequency, DefaultFrequency).
		Module(FrequencyModule).
		Build()
	p.Parameters().MustAdd(p.freq)

	p.render32 = func(_, _ int, out []float32) { p.osc.Render32(out, p.blockHz) }
	p.render64 = func(_, _ int, out []float64) { p.osc.Render64(out, p.blockHz) }

	p.OnActivate(func(sampleRate float64, _, _ uint32) error {
		p.osc.SetSampleRate(sampleRate)
		p.osc.Reset()
		return nil
	})
	p.OnReset(p.osc.Reset)

	return p
}

// Frequency returns the current frequency in hertz.
func (p *Processor) Frequency() float64 {
	return p.freq.Value()
}

// FrequencyParameter returns the frequency parameter.
func (p *Processor) FrequencyParameter() *param.Parameter {
	return p.freq
}

// SetFrequency stores a new frequency, clamped to the parameter range. It is
// safe to call while Process runs; the change is heard from the next block.
func (p *Processor) SetFrequency(hz float64) {
	p.freq.SetValue(hz)
}

// Oscillator exposes the sine generator and its sample counter.
func (p *Processor) Oscillator() *oscillator.Sine {
	return p.osc
}

// Process writes the sine to every channel of every output port, preferring
// 64-bit buffers, then advances the sample counter by the block length.
func (p *Processor) Process(ctx *process.Context) clap.ProcessStatus {
	p.blockHz = p.freq.Value()
	ctx.WriteOutputs(p.render32, p.render64)
	p.osc.Advance(ctx.FramesCount)
	return clap.ProcessContinue
}
