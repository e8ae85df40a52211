package preview

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picosine.yaml")
	if err := Save(path, Default()); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	cfg := Default()
	cfg.Frequency = 777
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	// A write may be observed half-done first; wait for the final content.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-w.Events():
			if ev.Error == nil && ev.Config.Frequency == 777 {
				return
			}
		case <-timeout:
			t.Fatal("Timed out waiting for reload")
		}
	}
}

func TestWatcherReportsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picosine.yaml")
	if err := Save(path, Default()); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("blockSize: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-w.Events():
			if ev.Error != nil {
				return
			}
		case <-timeout:
			t.Fatal("Timed out waiting for error")
		}
	}
}

func TestWatcherStartMissingFile(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := w.Start(); err == nil {
		t.Error("Expected error watching a missing file")
	}
}

func TestWatcherStopClosesEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picosine.yaml")
	if err := Save(path, Default()); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	w.Stop()

	select {
	case _, ok := <-w.Events():
		if ok {
			// Drain anything sent before Stop.
			for range w.Events() {
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Events channel not closed after Stop")
	}
}
