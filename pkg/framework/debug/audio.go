package debug

import (
	"fmt"
	"math"
	"strings"
)

// Sample is the set of sample formats the analyzer accepts.
type Sample interface {
	~float32 | ~float64
}

// AudioAnalyzer computes level statistics over audio buffers.
type AudioAnalyzer struct {
	ClippingThreshold float64
	DCThreshold       float64
	SilenceThreshold  float64
}

// NewAudioAnalyzer creates a new audio analyzer with default thresholds.
func NewAudioAnalyzer() *AudioAnalyzer {
	return &AudioAnalyzer{
		ClippingThreshold: 0.99,
		DCThreshold:       0.01,
		SilenceThreshold:  0.0001,
	}
}

// AnalysisResult contains the results of audio buffer analysis.
type AnalysisResult struct {
	Samples        int
	Peak           float64
	RMS            float64
	DC             float64
	HasDC          bool
	Clipping       bool
	ClippedSamples int
	Silent         bool
	HasNaN         bool
	NaNCount       int
	ZeroCrossings  int
}

// String returns a one line summary.
func (r AnalysisResult) String() string {
	return fmt.Sprintf("samples=%d peak=%.4f rms=%.4f dc=%.4f zc=%d nan=%d clipped=%d",
		r.Samples, r.Peak, r.RMS, r.DC, r.ZeroCrossings, r.NaNCount, r.ClippedSamples)
}

// EstimateFrequency derives a frequency from the zero crossing count. A pure
// tone crosses zero twice per period.
func (r AnalysisResult) EstimateFrequency(sampleRate float64) float64 {
	if r.Samples == 0 || sampleRate <= 0 {
		return 0
	}
	seconds := float64(r.Samples) / sampleRate
	return float64(r.ZeroCrossings) / 2 / seconds
}

// Analyze is AudioAnalyzer.Analyze for any sample format.
func Analyze[T Sample](a *AudioAnalyzer, buffer []T) AnalysisResult {
	result := AnalysisResult{Samples: len(buffer)}
	if len(buffer) == 0 {
		return result
	}

	var sumSquares, dcSum float64
	var last float64
	valid := 0

	for _, s := range buffer {
		sample := float64(s)
		if math.IsNaN(sample) || math.IsInf(sample, 0) {
			result.HasNaN = true
			result.NaNCount++
			continue
		}

		abs := math.Abs(sample)
		if abs > result.Peak {
			result.Peak = abs
		}
		if abs >= a.ClippingThreshold {
			result.Clipping = true
			result.ClippedSamples++
		}

		sumSquares += sample * sample
		dcSum += sample

		if valid > 0 && ((last < 0 && sample >= 0) || (last >= 0 && sample < 0)) {
			result.ZeroCrossings++
		}
		last = sample
		valid++
	}

	if valid > 0 {
		result.RMS = math.Sqrt(sumSquares / float64(valid))
		result.DC = dcSum / float64(valid)
	}
	result.HasDC = math.Abs(result.DC) > a.DCThreshold
	result.Silent = result.Peak < a.SilenceThreshold

	return result
}

// Analyze performs the analysis on a 32-bit buffer.
func (a *AudioAnalyzer) Analyze(buffer []float32) AnalysisResult {
	return Analyze(a, buffer)
}

// CheckBuffer returns a list of problems found in the buffer, or nil.
func CheckBuffer[T Sample](name string, buffer []T) []string {
	r := Analyze(NewAudioAnalyzer(), buffer)

	var problems []string
	if r.HasNaN {
		problems = append(problems, fmt.Sprintf("%s: %d non-finite samples", name, r.NaNCount))
	}
	if r.Clipping {
		problems = append(problems, fmt.Sprintf("%s: %d clipped samples (peak %.4f)", name, r.ClippedSamples, r.Peak))
	}
	if r.HasDC {
		problems = append(problems, fmt.Sprintf("%s: DC offset %.4f", name, r.DC))
	}
	return problems
}

// FormatBuffer renders up to maxSamples values of buffer for log output.
func FormatBuffer[T Sample](name string, buffer []T, maxSamples int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%d samples]:", name, len(buffer))

	n := len(buffer)
	if maxSamples > 0 && n > maxSamples {
		n = maxSamples
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, " %.4f", float64(buffer[i]))
	}
	if n < len(buffer) {
		sb.WriteString(" ...")
	}
	return sb.String()
}
