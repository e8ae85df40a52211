// Package plugin provides plugin metadata and a base processor that implements
// the lifecycle boilerplate every CLAP processor needs.
package plugin

import (
	"github.com/justyntemme/picosine/pkg/framework/bus"
	"github.com/justyntemme/picosine/pkg/framework/param"
)

// BaseProcessor provides common functionality for audio processors. Embed it and
// implement Process.
type BaseProcessor struct {
	params     *param.Registry
	ports      *bus.Configuration
	sampleRate float64
	maxFrames  uint32
	active     bool

	// Optional callbacks for customization
	onActivate   func(sampleRate float64, minFrames, maxFrames uint32) error
	onDeactivate func()
	onReset      func()
}

// NewBaseProcessor creates a new base processor with the given port configuration
func NewBaseProcessor(ports *bus.Configuration) *BaseProcessor {
	if ports == nil {
		ports = bus.NewStereoConfiguration("main")
	}

	return &BaseProcessor{
		params: param.NewRegistry(),
		ports:  ports,
	}
}

// Parameters returns the parameter registry
func (b *BaseProcessor) Parameters() *param.Registry {
	return b.params
}

// Ports returns the audio port configuration
func (b *BaseProcessor) Ports() *bus.Configuration {
	return b.ports
}

// Activate stores the processing configuration and runs the activate callback.
func (b *BaseProcessor) Activate(sampleRate float64, minFrames, maxFrames uint32) error {
	b.sampleRate = sampleRate
	b.maxFrames = maxFrames

	if b.onActivate != nil {
		if err := b.onActivate(sampleRate, minFrames, maxFrames); err != nil {
			return err
		}
	}

	b.active = true
	return nil
}

// Deactivate runs the deactivate callback.
func (b *BaseProcessor) Deactivate() {
	b.active = false
	if b.onDeactivate != nil {
		b.onDeactivate()
	}
}

// StartProcessing is a no-op by default
func (b *BaseProcessor) StartProcessing() error {
	return nil
}

// StopProcessing is a no-op by default
func (b *BaseProcessor) StopProcessing() {}

// Reset clears processing state through the reset callback.
func (b *BaseProcessor) Reset() {
	if b.onReset != nil {
		b.onReset()
	}
}

// SampleRate returns the sample rate passed at activation
func (b *BaseProcessor) SampleRate() float64 {
	return b.sampleRate
}

// MaxFrames returns the largest block size the host promised at activation
func (b *BaseProcessor) MaxFrames() uint32 {
	return b.maxFrames
}

// IsActive reports whether the processor is between Activate and Deactivate
func (b *BaseProcessor) IsActive() bool {
	return b.active
}

// OnActivate sets a callback for activation
func (b *BaseProcessor) OnActivate(fn func(sampleRate float64, minFrames, maxFrames uint32) error) {
	b.onActivate = fn
}

// OnDeactivate sets a callback for deactivation
func (b *BaseProcessor) OnDeactivate(fn func()) {
	b.onDeactivate = fn
}

// OnReset sets a callback for when the processor should reset its state
func (b *BaseProcessor) OnReset(fn func()) {
	b.onReset = fn
}
