// Package preview implements the picosine-preview developer tool: it drives
// PicoSine through the in-process host to describe it, render it to WAV, or
// play it live with an interactive control panel.
package preview

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/justyntemme/picosine/internal/picosine"
	"github.com/justyntemme/picosine/pkg/clap"
	"github.com/justyntemme/picosine/pkg/framework/debug"
	"github.com/justyntemme/picosine/pkg/host"
)

// DefaultConfigPath is used when no --config flag is given.
const DefaultConfigPath = "picosine.yaml"

// Config holds preview settings.
type Config struct {
	SampleRate float64 `yaml:"sampleRate"`
	BlockSize  uint32  `yaml:"blockSize"`
	Use64      bool    `yaml:"use64"`
	Frequency  float64 `yaml:"frequency"`
	Seconds    float64 `yaml:"seconds"`
	Output     string  `yaml:"output"`
	BufferMs   int     `yaml:"bufferMs"`
	LogLevel   string  `yaml:"logLevel"`
	LogFile    string  `yaml:"logFile"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		SampleRate: 48000,
		BlockSize:  512,
		Frequency:  picosine.DefaultFrequency,
		Seconds:    2,
		Output:     "picosine.wav",
		BufferMs:   50,
		LogLevel:   "info",
		LogFile:    "picosine-preview.log",
	}
}

// Load reads the config at path on top of Default().
// Returns Default() when the file doesn't exist (no error).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks ranges. Frequencies outside the plugin's range are allowed
// here; the plugin clamps them.
func (c *Config) Validate() error {
	var errs []error
	if c.SampleRate < 8000 || c.SampleRate > 384000 {
		errs = append(errs, fmt.Errorf("sampleRate %g outside 8000..384000", c.SampleRate))
	}
	if c.BlockSize == 0 || c.BlockSize > 8192 {
		errs = append(errs, fmt.Errorf("blockSize %d outside 1..8192", c.BlockSize))
	}
	if c.Frequency <= 0 {
		errs = append(errs, fmt.Errorf("frequency must be positive, got %g", c.Frequency))
	}
	if c.Seconds <= 0 {
		errs = append(errs, fmt.Errorf("seconds must be positive, got %g", c.Seconds))
	}
	if c.BufferMs < 0 {
		errs = append(errs, fmt.Errorf("bufferMs must not be negative, got %d", c.BufferMs))
	}
	if _, err := debug.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level returns the parsed log level.
func (c *Config) Level() debug.LogLevel {
	level, _ := debug.ParseLevel(c.LogLevel)
	return level
}

// HostConfig converts the settings for pkg/host.
func (c *Config) HostConfig(logger *debug.Logger) host.Config {
	return host.Config{
		SampleRate: c.SampleRate,
		BlockSize:  c.BlockSize,
		Use64:      c.Use64,
		Logger:     logger,
	}
}

// NewHost starts PicoSine with the configured settings and initial frequency.
func NewHost(cfg *Config, logger *debug.Logger) (*host.Host, error) {
	h, err := host.New(picosine.Plugin{}, cfg.HostConfig(logger))
	if err != nil {
		return nil, err
	}
	if err := SetFrequency(h, cfg.Frequency); err != nil {
		h.Close()
		return nil, err
	}
	return h, nil
}

// SetFrequency applies a frequency immediately through the params flush path.
// Only call it from the goroutine that runs h.Process.
func SetFrequency(h *host.Host, hz float64) error {
	return h.Instance().Flush(frequencyEvent(hz))
}

func frequencyEvent(hz float64) clap.EventList {
	return clap.EventList{clap.NewParamValue(0, picosine.ParamFrequency, hz)}
}
