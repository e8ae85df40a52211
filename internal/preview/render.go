package preview

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/justyntemme/picosine/pkg/framework/debug"
	"github.com/justyntemme/picosine/pkg/host"
)

// WAVBitDepth is the sample size written by RenderWAV.
const WAVBitDepth = 16

// RenderStats summarises a render.
type RenderStats struct {
	Frames int
	PeakDB float64
	RMSDB  float64
	// NonFinite and Clipped count NaN/Inf and full scale samples across all
	// channels before PCM conversion.
	NonFinite int
	Clipped   int
	// Frequency is the tone measured in the output, zero when the render was
	// too short or silent.
	Frequency float64
}

// RenderWAV runs h for the given number of seconds and writes the main output
// as 16-bit PCM WAV.
func RenderWAV(ctx context.Context, h *host.Host, seconds float64, w io.WriteSeeker) (RenderStats, error) {
	var stats RenderStats

	cfg := h.Config()
	channels := h.MainOutputChannels()
	if channels == 0 {
		return stats, fmt.Errorf("render: plugin has no output channels")
	}
	total := int(math.Round(seconds * cfg.SampleRate))
	if total <= 0 {
		return stats, fmt.Errorf("render: %g seconds is too short", seconds)
	}
	mon := newMonitor(cfg.SampleRate, int(cfg.BlockSize))
	analyzer := debug.NewAudioAnalyzer()

	enc := wav.NewEncoder(w, int(cfg.SampleRate), WAVBitDepth, channels, 1)
	block := make([]float32, int(cfg.BlockSize)*channels)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: int(cfg.SampleRate)},
		Data:           make([]int, len(block)),
		SourceBitDepth: WAVBitDepth,
	}

	for stats.Frames < total {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		frames := min(int(cfg.BlockSize), total-stats.Frames)
		if _, err := h.Process(uint32(frames)); err != nil {
			return stats, fmt.Errorf("render: %w", err)
		}

		n := h.Interleave(block)
		mon.observe(block[:n], channels)
		r := analyzer.Analyze(block[:n])
		stats.NonFinite += r.NaNCount
		stats.Clipped += r.ClippedSamples
		buf.Data = buf.Data[:n]
		for i, v := range block[:n] {
			buf.Data[i] = PCM16(v)
		}
		if err := enc.Write(buf); err != nil {
			return stats, fmt.Errorf("render: write: %w", err)
		}
		stats.Frames += frames
	}

	if err := enc.Close(); err != nil {
		return stats, fmt.Errorf("render: close: %w", err)
	}
	stats.PeakDB = mon.meter.HoldDB()
	stats.RMSDB = mon.RMSDB()
	if hz, ok := mon.MeasuredFrequency(); ok {
		stats.Frequency = hz
	}
	return stats, nil
}

// PCM16 converts a float sample to a clipped 16-bit integer.
func PCM16(v float32) int {
	switch {
	case math.IsNaN(float64(v)):
		return 0
	case v >= 1:
		return math.MaxInt16
	case v <= -1:
		return -math.MaxInt16
	}
	return int(math.Round(float64(v) * math.MaxInt16))
}
