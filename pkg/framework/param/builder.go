package param

import "github.com/justyntemme/picosine/pkg/clap"

// Builder provides a fluent API for creating parameters
type Builder struct {
	param *Parameter
}

// New creates a new parameter builder. Parameters are automatable unless told
// otherwise.
func New(id uint32, name string) *Builder {
	return &Builder{
		param: &Parameter{
			ID:    id,
			Name:  name,
			Min:   0,
			Max:   1,
			Flags: clap.ParamIsAutomatable,
		},
	}
}

// Module sets the group path shown by hosts (e.g. "osc/frequency").
func (b *Builder) Module(path string) *Builder {
	b.param.Module = path
	return b
}

// Range sets the min and max values
func (b *Builder) Range(min, max float64) *Builder {
	b.param.Min = min
	b.param.Max = max
	return b
}

// Default sets the default value in plain units.
func (b *Builder) Default(value float64) *Builder {
	b.param.DefaultValue = value
	return b
}

// Unit sets the unit string
func (b *Builder) Unit(unit string) *Builder {
	b.param.Unit = unit
	return b
}

// Steps sets the number of discrete steps and marks the parameter stepped.
func (b *Builder) Steps(count int32) *Builder {
	b.param.StepCount = count
	b.param.Flags |= clap.ParamIsStepped
	return b
}

// Stepped marks the parameter as taking integer values only.
func (b *Builder) Stepped() *Builder {
	b.param.Flags |= clap.ParamIsStepped
	return b
}

// Flags replaces the parameter flags
func (b *Builder) Flags(flags clap.ParamInfoFlags) *Builder {
	b.param.Flags = flags
	return b
}

// Automatable toggles host automation.
func (b *Builder) Automatable(on bool) *Builder {
	if on {
		b.param.Flags |= clap.ParamIsAutomatable
	} else {
		b.param.Flags &^= clap.ParamIsAutomatable
	}
	return b
}

// ReadOnly marks the parameter as read-only
func (b *Builder) ReadOnly() *Builder {
	b.param.Flags |= clap.ParamIsReadonly
	b.param.Flags &^= clap.ParamIsAutomatable
	return b
}

// Hidden marks the parameter as hidden
func (b *Builder) Hidden() *Builder {
	b.param.Flags |= clap.ParamIsHidden
	return b
}

// Formatter sets custom value formatting and parsing
func (b *Builder) Formatter(format func(float64) string, parse func(string) (float64, error)) *Builder {
	b.param.formatFunc = format
	b.param.parseFunc = parse
	return b
}

// Build returns the configured parameter
func (b *Builder) Build() *Parameter {
	b.param.Reset()
	return b.param
}
