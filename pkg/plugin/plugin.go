// Package plugin provides the CLAP plugin framework: the interfaces plugins
// implement and the Instance lifecycle a host drives. It has no cgo dependency;
// pkg/clapbridge exposes registered plugins to C hosts.
package plugin

import (
	"github.com/justyntemme/picosine/pkg/clap"
	"github.com/justyntemme/picosine/pkg/framework/bus"
	"github.com/justyntemme/picosine/pkg/framework/param"
	"github.com/justyntemme/picosine/pkg/framework/plugin"
	"github.com/justyntemme/picosine/pkg/framework/process"
)

// Plugin is the main interface that users implement
type Plugin interface {
	// Info returns the plugin descriptor
	Info() plugin.Info

	// CreateProcessor creates a new instance of the audio processor
	CreateProcessor() Processor
}

// Processor handles the actual audio processing
type Processor interface {
	// Parameters returns the parameter registry
	Parameters() *param.Registry

	// Ports returns the audio port configuration
	Ports() *bus.Configuration

	// Activate prepares for processing at a fixed sample rate and block size range
	Activate(sampleRate float64, minFrames, maxFrames uint32) error

	// Deactivate releases what Activate prepared
	Deactivate()

	// StartProcessing and StopProcessing bracket calls to Process on the audio thread
	StartProcessing() error
	StopProcessing()

	// Reset clears processing state without deactivating
	Reset()

	// Process renders one block. Parameter events in ctx.InputEvents have
	// already been applied when it is called. It must not allocate.
	Process(ctx *process.Context) clap.ProcessStatus
}

// ParamEventHandler can be implemented by a Processor to take over parameter
// value events. Returning false falls back to writing the registry.
type ParamEventHandler interface {
	HandleParamValue(id clap.ID, value float64) bool
}
