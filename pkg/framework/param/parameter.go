package param

import (
	"fmt"
	"math"
	"strconv"

	"github.com/justyntemme/picosine/pkg/clap"
)

// Parameter represents a plugin parameter. CLAP exchanges plain values, so the
// current value is stored in plain units; Normalize/Denormalize are available for
// UIs that want a 0-1 range.
type Parameter struct {
	ID           uint32
	Name         string
	Module       string // Slash separated group path shown by hosts
	Unit         string
	Min          float64
	Max          float64
	DefaultValue float64 // Plain
	StepCount    int32
	Flags        clap.ParamInfoFlags

	// Lock-free access from the audio thread
	value AtomicFloat64

	formatFunc func(float64) string
	parseFunc  func(string) (float64, error)
}

// Value returns the current plain value.
func (p *Parameter) Value() float64 {
	return p.value.Load()
}

// SetValue stores a plain value clamped to [Min, Max]. Stepped parameters drop
// the fractional part.
func (p *Parameter) SetValue(value float64) {
	p.value.Store(p.Constrain(value))
}

// Reset restores the default value.
func (p *Parameter) Reset() {
	p.SetValue(p.DefaultValue)
}

// Clamp limits a plain value to the parameter range. NaN maps to the default.
func (p *Parameter) Clamp(value float64) float64 {
	if math.IsNaN(value) {
		return p.DefaultValue
	}
	if value < p.Min {
		return p.Min
	}
	if value > p.Max {
		return p.Max
	}
	return value
}

// Constrain returns the value SetValue would store.
func (p *Parameter) Constrain(value float64) float64 {
	value = p.Clamp(value)
	if p.Stepped() {
		value = math.Trunc(value)
	}
	return value
}

// Stepped reports whether the parameter only takes integer values.
func (p *Parameter) Stepped() bool {
	return p.Flags.Has(clap.ParamIsStepped)
}

// Info returns the descriptor reported to the host.
func (p *Parameter) Info() clap.ParamInfo {
	return clap.ParamInfo{
		ID:           p.ID,
		Flags:        p.Flags,
		Name:         p.Name,
		Module:       p.Module,
		MinValue:     p.Min,
		MaxValue:     p.Max,
		DefaultValue: p.DefaultValue,
	}
}

// SetFormatter sets custom value formatting
func (p *Parameter) SetFormatter(format func(float64) string, parse func(string) (float64, error)) {
	p.formatFunc = format
	p.parseFunc = parse
}

// FormatValue renders a plain value for display.
func (p *Parameter) FormatValue(plain float64) string {
	if p.formatFunc != nil {
		return p.formatFunc(plain)
	}

	if p.Stepped() || p.StepCount > 0 {
		return fmt.Sprintf("%.0f", plain)
	}
	if p.Unit != "" {
		return fmt.Sprintf("%.2f %s", plain, p.Unit)
	}
	return fmt.Sprintf("%.2f", plain)
}

// ParseValue parses display text back into a plain value within range.
func (p *Parameter) ParseValue(str string) (float64, error) {
	var (
		plain float64
		err   error
	)
	if p.parseFunc != nil {
		plain, err = p.parseFunc(str)
	} else {
		plain, err = strconv.ParseFloat(str, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %w", p.Name, err)
	}
	return p.Constrain(plain), nil
}

// Normalize converts plain value to normalized (0-1)
func (p *Parameter) Normalize(plain float64) float64 {
	if p.Max <= p.Min {
		return 0
	}
	normalized := (plain - p.Min) / (p.Max - p.Min)
	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}

// Denormalize converts normalized (0-1) to plain value
func (p *Parameter) Denormalize(normalized float64) float64 {
	return p.Min + normalized*(p.Max-p.Min)
}
