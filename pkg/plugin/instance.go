package plugin

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/justyntemme/picosine/pkg/clap"
	"github.com/justyntemme/picosine/pkg/framework/bus"
	"github.com/justyntemme/picosine/pkg/framework/debug"
	"github.com/justyntemme/picosine/pkg/framework/param"
	"github.com/justyntemme/picosine/pkg/framework/plugin"
	"github.com/justyntemme/picosine/pkg/framework/process"
)

// DefaultMaxEvents is the event capacity of the block context allocated at activation.
const DefaultMaxEvents = 512

// State is the lifecycle state of an Instance.
type State int32

const (
	StateCreated State = iota
	StateInitialized
	StateActive
	StateProcessing
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitialized:
		return "initialized"
	case StateActive:
		return "active"
	case StateProcessing:
		return "processing"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Instance is one plugin instance as seen by a host. Lifecycle methods run on
// the main thread, Process and the Start/StopProcessing pair on the audio
// thread. Panics raised by the processor are recovered and reported as errors.
type Instance struct {
	plugin Plugin
	info   plugin.Info
	proc   Processor
	state  atomic.Int32
	log    *debug.Logger
	ctx    *process.Context

	sampleRate float64
}

// NewInstance creates an instance in the created state. Call Init before use.
func NewInstance(p Plugin) *Instance {
	return &Instance{
		plugin: p,
		info:   p.Info(),
		log:    debug.Default(),
	}
}

// SetLogger replaces the logger, which defaults to debug.Default().
func (i *Instance) SetLogger(l *debug.Logger) {
	if l != nil {
		i.log = l
	}
}

// Info returns the plugin descriptor.
func (i *Instance) Info() plugin.Info { return i.info }

// State returns the lifecycle state.
func (i *Instance) State() State { return State(i.state.Load()) }

// Processor returns the processor created by Init, or nil.
func (i *Instance) Processor() Processor { return i.proc }

// Context returns the block context allocated at activation. Hosts bind their
// buffers into it before each Process call. It is nil before the first Activate.
func (i *Instance) Context() *process.Context { return i.ctx }

// SampleRate returns the sample rate of the current or last activation.
func (i *Instance) SampleRate() float64 { return i.sampleRate }

func (i *Instance) expect(op string, want ...State) error {
	cur := i.State()
	for _, s := range want {
		if cur == s {
			return nil
		}
	}
	return fmt.Errorf("%s in state %s: %w", op, cur, clap.ErrInvalidState)
}

// recoverInto turns a panic into an error stored in *err.
func (i *Instance) recoverInto(op string, err *error) {
	if r := recover(); r != nil {
		i.log.Error("%s: recovered panic: %v", op, r)
		*err = fmt.Errorf("%s: panic: %v", op, r)
	}
}

// Init creates the processor.
func (i *Instance) Init() (err error) {
	if err := i.expect("init", StateCreated); err != nil {
		return err
	}
	defer i.recoverInto("init", &err)

	proc := i.plugin.CreateProcessor()
	if proc == nil {
		return fmt.Errorf("init %s: plugin returned no processor", i.info.ID)
	}
	if proc.Parameters() == nil || proc.Ports() == nil {
		return fmt.Errorf("init %s: processor has no parameters or ports", i.info.ID)
	}
	i.proc = proc
	i.state.Store(int32(StateInitialized))
	i.log.Debug("%s: initialized", i.info.ID)
	return nil
}

// Activate prepares the processor for a sample rate and block size range.
func (i *Instance) Activate(sampleRate float64, minFrames, maxFrames uint32) (err error) {
	if i.State() == StateActive || i.State() == StateProcessing {
		return clap.ErrAlreadyActive
	}
	if err := i.expect("activate", StateInitialized); err != nil {
		return err
	}
	if sampleRate <= 0 || maxFrames == 0 || minFrames > maxFrames {
		return fmt.Errorf("activate sr=%g frames=[%d,%d]: %w", sampleRate, minFrames, maxFrames, clap.ErrInvalidArgument)
	}
	defer i.recoverInto("activate", &err)

	if err := i.proc.Activate(sampleRate, minFrames, maxFrames); err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	i.sampleRate = sampleRate
	i.ctx = process.NewPortContext(i.proc.Ports(), DefaultMaxEvents)
	i.state.Store(int32(StateActive))
	i.log.Info("%s: activated at %.0f Hz, %d-%d frames", i.info.ID, sampleRate, minFrames, maxFrames)
	return nil
}

// Deactivate undoes Activate. It stops processing first if needed.
func (i *Instance) Deactivate() (err error) {
	if i.State() == StateProcessing {
		i.StopProcessing()
	}
	if err := i.expect("deactivate", StateActive); err != nil {
		return err
	}
	defer i.recoverInto("deactivate", &err)

	i.proc.Deactivate()
	i.state.Store(int32(StateInitialized))
	i.log.Info("%s: deactivated", i.info.ID)
	return nil
}

// StartProcessing is called on the audio thread before the first Process.
func (i *Instance) StartProcessing() (err error) {
	if i.State() == StateProcessing {
		return nil
	}
	if err := i.expect("start processing", StateActive); err != nil {
		return err
	}
	defer i.recoverInto("start processing", &err)

	if err := i.proc.StartProcessing(); err != nil {
		return fmt.Errorf("start processing: %w", err)
	}
	i.state.Store(int32(StateProcessing))
	return nil
}

// StopProcessing is called on the audio thread after the last Process.
func (i *Instance) StopProcessing() {
	if i.State() != StateProcessing {
		return
	}
	var err error
	func() {
		defer i.recoverInto("stop processing", &err)
		i.proc.StopProcessing()
	}()
	i.state.Store(int32(StateActive))
}

// Reset clears the processor's DSP state.
func (i *Instance) Reset() (err error) {
	if err := i.expect("reset", StateActive, StateProcessing); err != nil {
		return err
	}
	defer i.recoverInto("reset", &err)
	i.proc.Reset()
	return nil
}

// Destroy deactivates if needed and marks the instance unusable.
func (i *Instance) Destroy() {
	switch i.State() {
	case StateDestroyed:
		return
	case StateActive, StateProcessing:
		if err := i.Deactivate(); err != nil {
			i.log.Warn("%s: destroy: %v", i.info.ID, err)
		}
	}
	i.state.Store(int32(StateDestroyed))
	i.log.Debug("%s: destroyed", i.info.ID)
}

// Process applies the block's parameter events and renders it. It returns
// ProcessError when called outside the processing state or when the processor
// panics.
func (i *Instance) Process(ctx *process.Context) (status clap.ProcessStatus) {
	if i.State() != StateProcessing || ctx == nil {
		return clap.ProcessError
	}
	defer func() {
		if r := recover(); r != nil {
			i.log.Error("%s: process: recovered panic: %v", i.info.ID, r)
			status = clap.ProcessError
		}
	}()

	i.applyParamEvents(ctx.InputEvents)
	return i.proc.Process(ctx)
}

// applyParamEvents writes every core param value event. Unknown ids are ignored.
func (i *Instance) applyParamEvents(events clap.EventList) {
	handler, _ := i.proc.(ParamEventHandler)
	params := i.proc.Parameters()

	for n := range events {
		ev := &events[n]
		if !ev.IsParamValue() {
			continue
		}
		if handler != nil && handler.HandleParamValue(ev.ParamID, ev.Value) {
			continue
		}
		p := params.Get(ev.ParamID)
		if p == nil {
			if i.log.Enabled(debug.LogLevelDebug) {
				i.log.Debug("%s: ignoring value for unknown parameter %d", i.info.ID, ev.ParamID)
			}
			continue
		}
		p.SetValue(ev.Value)
	}
}

// Extension support

// SupportsExtension reports whether the instance implements the named extension.
func (i *Instance) SupportsExtension(id string) bool {
	switch id {
	case clap.ExtAudioPorts, clap.ExtParams:
		return true
	}
	return false
}

func (i *Instance) ready() error {
	if i.proc == nil {
		return fmt.Errorf("instance %s not initialized: %w", i.info.ID, clap.ErrInvalidState)
	}
	return nil
}

// PortCount returns the number of audio ports in a direction.
func (i *Instance) PortCount(isInput bool) uint32 {
	if i.ready() != nil {
		return 0
	}
	return i.proc.Ports().Count(bus.DirectionOf(isInput))
}

// PortInfo describes the audio port at index.
func (i *Instance) PortInfo(index uint32, isInput bool) (clap.AudioPortInfo, error) {
	if err := i.ready(); err != nil {
		return clap.AudioPortInfo{}, err
	}
	port := i.proc.Ports().Get(bus.DirectionOf(isInput), index)
	if port == nil {
		return clap.AudioPortInfo{}, fmt.Errorf("port %d (%s): %w", index, bus.DirectionOf(isInput), clap.ErrInvalidIndex)
	}
	return port.PortInfo(), nil
}

// ParamCount returns the number of parameters.
func (i *Instance) ParamCount() uint32 {
	if i.ready() != nil {
		return 0
	}
	return i.proc.Parameters().Count()
}

// ParamInfo describes the parameter at index.
func (i *Instance) ParamInfo(index uint32) (clap.ParamInfo, error) {
	if err := i.ready(); err != nil {
		return clap.ParamInfo{}, err
	}
	p := i.proc.Parameters().GetByIndex(index)
	if p == nil {
		return clap.ParamInfo{}, fmt.Errorf("param index %d: %w", index, clap.ErrInvalidIndex)
	}
	return p.Info(), nil
}

func (i *Instance) param(id clap.ID) (*param.Parameter, error) {
	if err := i.ready(); err != nil {
		return nil, err
	}
	p := i.proc.Parameters().Get(id)
	if p == nil {
		return nil, fmt.Errorf("param %d: %w", id, clap.ErrUnknownParam)
	}
	return p, nil
}

// ParamValue returns the current plain value of a parameter.
func (i *Instance) ParamValue(id clap.ID) (float64, error) {
	p, err := i.param(id)
	if err != nil {
		return 0, err
	}
	return p.Value(), nil
}

// ValueToText renders value the way the parameter displays it.
func (i *Instance) ValueToText(id clap.ID, value float64) (s string, err error) {
	p, err := i.param(id)
	if err != nil {
		return "", err
	}
	defer i.recoverInto("value to text", &err)
	return p.FormatValue(value), nil
}

// TextToValue parses display text into a plain value within range.
func (i *Instance) TextToValue(id clap.ID, text string) (v float64, err error) {
	p, err := i.param(id)
	if err != nil {
		return 0, err
	}
	defer i.recoverInto("text to value", &err)
	return p.ParseValue(text)
}

// Flush applies parameter events outside of Process. Hosts call it while the
// plugin is not processing.
func (i *Instance) Flush(events clap.EventList) (err error) {
	if err := i.ready(); err != nil {
		return err
	}
	if i.State() == StateDestroyed {
		return fmt.Errorf("flush: %w", clap.ErrInvalidState)
	}
	defer i.recoverInto("flush", &err)
	i.applyParamEvents(events)
	return nil
}

// IsLifecycleError reports whether err came from an out-of-order lifecycle call.
func IsLifecycleError(err error) bool {
	return errors.Is(err, clap.ErrInvalidState) || errors.Is(err, clap.ErrAlreadyActive)
}
