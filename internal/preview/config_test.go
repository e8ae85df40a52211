package preview

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/justyntemme/picosine/internal/picosine"
	"github.com/justyntemme/picosine/pkg/framework/debug"
)

func TestLoadMissingReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "picosine.yaml")

	want := Default()
	want.SampleRate = 44100
	want.BlockSize = 256
	want.Use64 = true
	want.Frequency = 220
	want.LogLevel = "debug"
	if err := Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *got != *want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
	if got.Level() != debug.LogLevelDebug {
		t.Errorf("Expected debug level, got %v", got.Level())
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picosine.yaml")
	if err := os.WriteFile(path, []byte("frequency: 600\nuse64: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Frequency != 600 || !cfg.Use64 {
		t.Errorf("Expected overrides to apply, got %+v", cfg)
	}
	if cfg.SampleRate != 48000 || cfg.BlockSize != 512 {
		t.Errorf("Expected default rate and block size, got %g/%d", cfg.SampleRate, cfg.BlockSize)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "frequency: [", "parse"},
		{"sample rate", "sampleRate: 100", "sampleRate"},
		{"block size", "blockSize: 0", "blockSize"},
		{"frequency", "frequency: -1", "frequency"},
		{"seconds", "seconds: 0", "seconds"},
		{"log level", "logLevel: loud", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "picosine.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestNewHostAppliesFrequency(t *testing.T) {
	cfg := Default()
	cfg.Frequency = 2000

	h, err := NewHost(cfg, nil)
	if err != nil {
		t.Fatalf("NewHost failed: %v", err)
	}
	defer h.Close()

	got, err := h.Instance().ParamValue(picosine.ParamFrequency)
	if err != nil {
		t.Fatal(err)
	}
	if got != picosine.MaxFrequency {
		t.Errorf("Expected clamped %g, got %g", picosine.MaxFrequency, got)
	}
}
