package preview

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/picosine/internal/picosine"
	"github.com/justyntemme/picosine/pkg/framework/param"
	"github.com/justyntemme/picosine/pkg/host"
)

const refreshInterval = 100 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(1, 2)
)

type tickMsg time.Time

// Panel is the interactive control surface for live playback. It runs on the
// UI goroutine and only reaches the audio side through host.SetParam.
type Panel struct {
	h       *host.Host
	freq    *param.Parameter
	target  float64
	status  string
	failed  bool
	reloads <-chan WatchEvent
	levels  Levels
	errs    func() error
}

// NewPanel creates a panel starting at the given frequency.
func NewPanel(h *host.Host, frequency float64) *Panel {
	m := &Panel{
		h:      h,
		target: clampFrequency(frequency),
	}
	if proc, ok := h.Instance().Processor().(*picosine.Processor); ok {
		m.freq = proc.FrequencyParameter()
	}
	return m
}

// WithReloads applies config reloads from a Watcher.
func (m *Panel) WithReloads(ch <-chan WatchEvent) *Panel {
	m.reloads = ch
	return m
}

// WithLevels shows the measured output level and frequency.
func (m *Panel) WithLevels(l Levels) *Panel {
	m.levels = l
	return m
}

// WithErrors polls fn on every refresh and shows the error it returns.
func (m *Panel) WithErrors(fn func() error) *Panel {
	m.errs = fn
	return m
}

// Target returns the frequency last requested by the panel.
func (m *Panel) Target() float64 { return m.target }

func (m *Panel) Init() tea.Cmd {
	return tea.Batch(tick(), m.waitForReload())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Panel) waitForReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-m.reloads
		if !ok {
			return nil
		}
		return ev
	}
}

func (m *Panel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.adjust(10)
		case "down", "j":
			m.adjust(-10)
		case "right", "l":
			m.adjust(1)
		case "left", "h":
			m.adjust(-1)
		case "pgup":
			m.adjust(100)
		case "pgdown":
			m.adjust(-100)
		case "r":
			m.set(picosine.DefaultFrequency)
		case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
			m.jump(int(msg.String()[0] - '0'))
		}
		return m, nil

	case tickMsg:
		if m.errs != nil {
			if err := m.errs(); err != nil {
				m.status, m.failed = err.Error(), true
			}
		}
		return m, tick()

	case WatchEvent:
		if msg.Error != nil {
			m.status, m.failed = msg.Error.Error(), true
		} else {
			m.set(msg.Config.Frequency)
			m.status, m.failed = "config reloaded", false
		}
		return m, m.waitForReload()
	}
	return m, nil
}

func (m *Panel) adjust(delta float64) {
	m.set(m.target + delta)
}

func (m *Panel) set(hz float64) {
	hz = clampFrequency(hz)
	if hz == m.target {
		return
	}
	m.target = hz
	m.h.SetParam(picosine.ParamFrequency, hz)
}

// jump moves to step n of ten evenly spaced points across the range.
func (m *Panel) jump(n int) {
	if m.freq == nil {
		return
	}
	m.set(m.freq.Denormalize(float64(n) / 9))
}

func clampFrequency(hz float64) float64 {
	return math.Max(picosine.MinFrequency, math.Min(picosine.MaxFrequency, math.Trunc(hz)))
}

func (m *Panel) View() string {
	inst := m.h.Instance()
	now, _ := inst.ParamValue(picosine.ParamFrequency)
	text, _ := inst.ValueToText(picosine.ParamFrequency, now)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(inst.Info().Name))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Frequency  %s\n", valueStyle.Render(text))
	fmt.Fprintf(&sb, "           %s\n", gauge(m.position(now), 40))
	if m.levels != nil {
		measured := "--"
		if hz, ok := m.levels.MeasuredFrequency(); ok {
			measured = fmt.Sprintf("%.1f Hz", hz)
		}
		fmt.Fprintf(&sb, "Measured   %s  peak %.1f dBFS  rms %.1f dBFS\n", valueStyle.Render(measured), m.levels.PeakDB(), m.levels.RMSDB())
	}
	sb.WriteString("\n")

	cfg := m.h.Config()
	prof := m.h.Profiler()
	fmt.Fprintf(&sb, "%s\n", dimStyle.Render(fmt.Sprintf(
		"%.0f Hz  %d frames/block  CPU %.2f%%  %d frames",
		cfg.SampleRate, cfg.BlockSize, prof.CPULoad(), prof.FramesProcessed())))

	if m.status != "" {
		style := dimStyle
		if m.failed {
			style = errStyle
		}
		fmt.Fprintf(&sb, "%s\n", style.Render(m.status))
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("↑/↓ ±10  ←/→ ±1  pgup/pgdn ±100  0-9 jump  r reset  q quit"))

	return boxStyle.Render(sb.String()) + "\n"
}

// position maps hz onto 0..1 across the frequency range.
func (m *Panel) position(hz float64) float64 {
	if m.freq != nil {
		return m.freq.Normalize(hz)
	}
	return (hz - picosine.MinFrequency) / (picosine.MaxFrequency - picosine.MinFrequency)
}

func gauge(pos float64, width int) string {
	filled := int(math.Round(pos * float64(width)))
	filled = max(0, min(width, filled))
	return valueStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}
