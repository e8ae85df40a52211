package param

import (
	"math"
	"sync/atomic"
)

// AtomicFloat64 is a float64 that can be shared between the audio thread and the
// main thread without locks. Writes replace the whole value; readers see either the
// old or the new value, never a mix.
type AtomicFloat64 struct {
	bits atomic.Uint64
}

// NewAtomicFloat64 returns a cell holding v.
func NewAtomicFloat64(v float64) *AtomicFloat64 {
	a := &AtomicFloat64{}
	a.Store(v)
	return a
}

// Load returns the current value.
func (a *AtomicFloat64) Load() float64 {
	return math.Float64frombits(a.bits.Load())
}

// Store replaces the value.
func (a *AtomicFloat64) Store(v float64) {
	a.bits.Store(math.Float64bits(v))
}

// Swap stores v and returns the previous value.
func (a *AtomicFloat64) Swap(v float64) float64 {
	return math.Float64frombits(a.bits.Swap(math.Float64bits(v)))
}
