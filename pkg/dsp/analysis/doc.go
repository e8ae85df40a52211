// Package analysis measures rendered audio: a windowed radix-2 FFT, a peak
// meter with hold and decay, an RMS meter and a frequency tracker that
// estimates the dominant tone of a signal.
//
// The meters and the tracker are safe to read from another goroutine while
// the audio goroutine feeds them.
//
// Example usage:
//
//	tracker := analysis.NewFrequencyTracker(48000)
//	tracker.Process(samples)
//	if hz, ok := tracker.Frequency(); ok {
//	    fmt.Printf("%.1f Hz\n", hz)
//	}
package analysis
