package param

// Common parameter presets

// WholeHertzParameter creates a stepped frequency parameter displayed as whole
// hertz ("440 hz").
func WholeHertzParameter(id uint32, name string, min, max, defaultVal float64) *Builder {
	return New(id, name).
		Range(min, max).
		Default(defaultVal).
		Unit("hz").
		Stepped().
		Formatter(IntegerHertzFormatter, HertzParser)
}
