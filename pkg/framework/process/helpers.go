package process

// WriteOutputs visits every channel of every output port, handing fn64 the 64-bit
// buffer when the port has one and fn32 the 32-bit buffer otherwise. Nil channel
// buffers are skipped. Each buffer is sliced to FramesCount.
func (c *Context) WriteOutputs(fn32 func(port, ch int, out []float32), fn64 func(port, ch int, out []float64)) {
	frames := c.NumSamples()
	for port := range c.Outputs {
		buf := &c.Outputs[port]
		if buf.Is64() {
			for ch, out := range buf.Data64 {
				if out == nil {
					continue
				}
				fn64(port, ch, out[:min(frames, len(out))])
			}
			continue
		}
		for ch, out := range buf.Data32 {
			if out == nil {
				continue
			}
			fn32(port, ch, out[:min(frames, len(out))])
		}
	}
}

// Clear zeros every output buffer for the block
func (c *Context) Clear() {
	c.WriteOutputs(func(_, _ int, out []float32) {
		clear(out)
	}, func(_, _ int, out []float64) {
		clear(out)
	})
}

