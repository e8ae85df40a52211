package preview

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/picosine/internal/picosine"
)

func newTestPanel(t *testing.T, reloads <-chan WatchEvent) *Panel {
	t.Helper()
	h, err := NewHost(Default(), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { h.Close() })
	return NewPanel(h, picosine.DefaultFrequency).WithReloads(reloads)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPanelKeys(t *testing.T) {
	tests := []struct {
		keys []string
		want float64
	}{
		{[]string{"up"}, 450},
		{[]string{"down", "down"}, 420},
		{[]string{"right", "left", "left"}, 439},
		{[]string{"pgup", "k", "l"}, 551},
		{[]string{"pgdown", "pgdown", "pgdown", "pgdown", "pgdown"}, picosine.MinFrequency},
		{[]string{"pgup", "pgup", "pgup", "pgup", "pgup", "pgup", "pgup"}, picosine.MaxFrequency},
		{[]string{"up", "r"}, picosine.DefaultFrequency},
		{[]string{"0"}, picosine.MinFrequency},
		{[]string{"9"}, picosine.MaxFrequency},
		{[]string{"5"}, 568},
		{[]string{"9", "down"}, 990},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.keys, ","), func(t *testing.T) {
			m := newTestPanel(t, nil)
			for _, k := range tt.keys {
				m.Update(key(k))
			}
			if m.Target() != tt.want {
				t.Errorf("Expected target %g, got %g", tt.want, m.Target())
			}

			// The change reaches the plugin on the next block.
			if _, err := m.h.Process(16); err != nil {
				t.Fatal(err)
			}
			got, _ := m.h.Instance().ParamValue(picosine.ParamFrequency)
			if got != tt.want {
				t.Errorf("Expected plugin frequency %g, got %g", tt.want, got)
			}
		})
	}
}

func TestPanelUnchangedDoesNotPost(t *testing.T) {
	m := newTestPanel(t, nil)
	m.Update(key("r"))
	if n := m.h.Queue().Len(); n != 0 {
		t.Errorf("Expected no queued events, got %d", n)
	}
}

func TestPanelQuit(t *testing.T) {
	for _, k := range []string{"q", "esc", "ctrl+c"} {
		m := newTestPanel(t, nil)
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = key(k)
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", k)
		}
	}
}

func TestPanelReload(t *testing.T) {
	reloads := make(chan WatchEvent, 1)
	m := newTestPanel(t, reloads)

	cfg := Default()
	cfg.Frequency = 300
	reloads <- WatchEvent{Config: cfg}

	msg := m.waitForReload()()
	_, cmd := m.Update(msg)
	if m.Target() != 300 {
		t.Errorf("Expected target 300, got %g", m.Target())
	}
	if cmd == nil {
		t.Error("Expected the panel to keep listening for reloads")
	}

	m.Update(WatchEvent{Error: errors.New("bad yaml")})
	if !m.failed || !strings.Contains(m.View(), "bad yaml") {
		t.Error("Expected reload error in view")
	}
}

func TestPanelView(t *testing.T) {
	m := newTestPanel(t, nil)
	view := m.View()
	for _, want := range []string{"PicoSine", "440 hz", "48000 Hz", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

type fixedLevels struct {
	hz float64
	ok bool
}

func (l fixedLevels) PeakDB() float64                   { return -6 }
func (l fixedLevels) RMSDB() float64                    { return -9 }
func (l fixedLevels) MeasuredFrequency() (float64, bool) { return l.hz, l.ok }

func TestPanelLevels(t *testing.T) {
	m := newTestPanel(t, nil)

	m.WithLevels(fixedLevels{})
	if view := m.View(); !strings.Contains(view, "Measured") || !strings.Contains(view, "--") {
		t.Errorf("Expected placeholder measurement, got:\n%s", view)
	}

	m.WithLevels(fixedLevels{hz: 440.04, ok: true})
	if view := m.View(); !strings.Contains(view, "440.0 Hz") || !strings.Contains(view, "peak -6.0 dBFS") || !strings.Contains(view, "rms -9.0 dBFS") {
		t.Errorf("Expected measured values, got:\n%s", view)
	}
}

func TestPanelPlayerError(t *testing.T) {
	m := newTestPanel(t, nil)
	m.WithErrors(func() error { return errors.New("device lost") })

	_, cmd := m.Update(tickMsg{})
	if cmd == nil {
		t.Error("Expected the refresh tick to continue")
	}
	if !strings.Contains(m.View(), "device lost") {
		t.Error("Expected player error in view")
	}
}

func TestGauge(t *testing.T) {
	m := newTestPanel(t, nil)

	tests := []struct {
		hz     float64
		filled int
	}{
		{picosine.MinFrequency, 0},
		{picosine.MaxFrequency, 10},
		{515, 5},
		{5000, 10},
	}
	for _, tt := range tests {
		got := gauge(m.position(tt.hz), 10)
		if n := strings.Count(got, "█"); n != tt.filled {
			t.Errorf("Expected %d filled cells at %g Hz, got %d", tt.filled, tt.hz, n)
		}
	}
}
