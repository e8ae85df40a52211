// Package process provides the per-block processing context handed to plugin
// processors.
package process

import (
	"github.com/justyntemme/picosine/pkg/clap"
	"github.com/justyntemme/picosine/pkg/framework/bus"
)

// AudioBuffer is one audio port's channel data for a block. A host fills Data32,
// Data64 or both; when both are present the 64-bit buffers carry the port.
type AudioBuffer struct {
	Data32       [][]float32
	Data64       [][]float64
	Latency      uint32
	ConstantMask uint64
}

// Is64 reports whether the port carries 64-bit samples.
func (b *AudioBuffer) Is64() bool {
	return len(b.Data64) > 0
}

// Channels returns the number of channels in the port.
func (b *AudioBuffer) Channels() int {
	if b.Is64() {
		return len(b.Data64)
	}
	return len(b.Data32)
}

// Context provides a clean API for audio processing with zero allocations.
// Hosts reuse one Context per plugin instance and reslice it every block.
type Context struct {
	FramesCount uint32
	SteadyTime  int64 // -1 when the host has no steady clock

	Inputs  []AudioBuffer
	Outputs []AudioBuffer

	// Input events for this block, sorted by time
	InputEvents clap.EventList

	// Output events produced by the plugin; the host drains them after Process
	OutputEvents clap.EventList
}

// NewContext creates a context with room for maxEvents input and output events
// so steady-state blocks do not allocate.
func NewContext(maxEvents int) *Context {
	return &Context{
		SteadyTime:   -1,
		InputEvents:  make(clap.EventList, 0, maxEvents),
		OutputEvents: make(clap.EventList, 0, maxEvents),
	}
}

// NewPortContext creates a context with one AudioBuffer per configured port.
// Each buffer's channel slices are empty but have capacity for the port's
// channel count, so a host can rebind them every block without allocating.
func NewPortContext(ports *bus.Configuration, maxEvents int) *Context {
	ctx := NewContext(maxEvents)
	ctx.Inputs = portBuffers(ports, bus.DirectionInput)
	ctx.Outputs = portBuffers(ports, bus.DirectionOutput)
	return ctx
}

func portBuffers(ports *bus.Configuration, dir bus.Direction) []AudioBuffer {
	bufs := make([]AudioBuffer, ports.Count(dir))
	for i := range bufs {
		channels := int(ports.Get(dir, uint32(i)).ChannelCount)
		bufs[i].Data32 = make([][]float32, 0, channels)
		bufs[i].Data64 = make([][]float64, 0, channels)
	}
	return bufs
}

// NumSamples returns the number of frames to process
func (c *Context) NumSamples() int {
	return int(c.FramesCount)
}

// NumOutputPorts returns the number of output ports
func (c *Context) NumOutputPorts() int {
	return len(c.Outputs)
}

// HasInputEvents reports whether the block carries any input events.
func (c *Context) HasInputEvents() bool {
	return len(c.InputEvents) > 0
}

// AddInputEvent appends an input event; used by hosts building the block.
func (c *Context) AddInputEvent(ev clap.Event) {
	c.InputEvents = append(c.InputEvents, ev)
}

// PushOutputEvent appends an event for the host.
func (c *Context) PushOutputEvent(ev clap.Event) {
	c.OutputEvents = append(c.OutputEvents, ev)
}

// ClearEvents empties both event lists, keeping their capacity.
func (c *Context) ClearEvents() {
	c.InputEvents = c.InputEvents[:0]
	c.OutputEvents = c.OutputEvents[:0]
}
