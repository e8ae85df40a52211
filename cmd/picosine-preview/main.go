// Command picosine-preview runs PicoSine in process: it prints the plugin's
// description and configuration, renders it to a WAV file or plays it through
// the audio device.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/justyntemme/picosine/internal/picosine"
	"github.com/justyntemme/picosine/internal/preview"
	"github.com/justyntemme/picosine/pkg/framework/debug"
	"github.com/justyntemme/picosine/pkg/host"
)

func main() {
	cmd := &cli.Command{
		Name:  "picosine-preview",
		Usage: "describe, render or play the PicoSine plugin",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: preview.DefaultConfigPath, Usage: "YAML config file"},
			&cli.FloatFlag{Name: "sample-rate", Usage: "sample rate in Hz"},
			&cli.IntFlag{Name: "block-size", Usage: "frames per block"},
			&cli.BoolFlag{Name: "use64", Usage: "process 64-bit buffers"},
			&cli.FloatFlag{Name: "frequency", Aliases: []string{"f"}, Usage: "initial frequency in Hz"},
			&cli.FloatFlag{Name: "seconds", Aliases: []string{"s"}, Usage: "length to render or play"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn, error or off"},
			&cli.StringFlag{Name: "log-file", Usage: "log file used while the control panel runs"},
		},
		Commands: []*cli.Command{
			{
				Name:   "info",
				Usage:  "print the descriptor, ports and parameters",
				Action: runInfo,
			},
			{
				Name:  "config",
				Usage: "print the effective configuration",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "save", Usage: "write it to the --config file"},
				},
				Action: runConfig,
			},
			{
				Name:  "render",
				Usage: "render to a 16-bit WAV file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "WAV file to write"},
				},
				Action: runRender,
			},
			{
				Name:  "play",
				Usage: "play through the default audio device",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "reload the frequency when the config file changes"},
					&cli.BoolFlag{Name: "no-ui", Usage: "disable the control panel"},
				},
				Action: runPlay,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cli.Command) (*preview.Config, error) {
	cfg, err := preview.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("sample-rate") {
		cfg.SampleRate = cmd.Float("sample-rate")
	}
	if cmd.IsSet("block-size") {
		cfg.BlockSize = uint32(cmd.Int("block-size"))
	}
	if cmd.IsSet("use64") {
		cfg.Use64 = cmd.Bool("use64")
	}
	if cmd.IsSet("frequency") {
		cfg.Frequency = cmd.Float("frequency")
	}
	if cmd.IsSet("seconds") {
		cfg.Seconds = cmd.Float("seconds")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("log-file") {
		cfg.LogFile = cmd.String("log-file")
	}
	if cmd.IsSet("output") {
		cfg.Output = cmd.String("output")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	debug.SetLevel(cfg.Level())
	return cfg, nil
}

func runInfo(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	h, err := preview.NewHost(cfg, nil)
	if err != nil {
		return err
	}
	defer h.Close()

	md := preview.Describe(h.Instance())
	if isTerminal(os.Stdout) {
		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			width = 80
		}
		md = preview.RenderMarkdown(md, min(width, 120))
	}
	fmt.Print(md)
	return nil
}

func runConfig(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("save") {
		path := cmd.String("config")
		if err := preview.Save(path, cfg); err != nil {
			return err
		}
		debug.Info("saved %s", path)
	}
	return preview.WriteYAML(os.Stdout, cfg, isTerminal(os.Stdout))
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	h, err := preview.NewHost(cfg, nil)
	if err != nil {
		return err
	}
	defer h.Close()

	f, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	defer f.Close()

	stats, err := preview.RenderWAV(ctx, h, cfg.Seconds, f)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	debug.Info("rendered %d frames at %.0f Hz to %s", stats.Frames, cfg.SampleRate, cfg.Output)
	debug.Info("measured %.2f Hz, peak %.2f dBFS, rms %.2f dBFS", stats.Frequency, stats.PeakDB, stats.RMSDB)
	if stats.NonFinite > 0 || stats.Clipped > 0 {
		debug.Warn("output had %d non-finite and %d clipped samples", stats.NonFinite, stats.Clipped)
	}
	debug.Info("%s", h.Profiler().AudioReport())
	return nil
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	interactive := !cmd.Bool("no-ui") && isTerminal(os.Stdout)

	// The control panel owns the terminal, so logs go to a file.
	logger := debug.Default()
	if interactive {
		logger, err = debug.NewFileLogger(cfg.LogFile, "picosine-preview", debug.DefaultFlags)
		if err != nil {
			return err
		}
		logger.SetLevel(cfg.Level())
		defer logger.Close()
	}

	h, err := preview.NewHost(cfg, logger)
	if err != nil {
		return err
	}
	defer h.Close()

	var reloads <-chan preview.WatchEvent
	if cmd.Bool("watch") {
		w, err := preview.NewWatcher(cmd.String("config"))
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
		reloads = w.Events()
	}

	player, err := preview.NewPlayer(h, time.Duration(cfg.BufferMs)*time.Millisecond)
	if err != nil {
		return err
	}
	defer player.Close()

	logger.Info("playing %s at %g Hz", h.Instance().Info().Name, cfg.Frequency)

	if interactive {
		panel := preview.NewPanel(h, cfg.Frequency).
			WithReloads(reloads).
			WithLevels(player.Levels()).
			WithErrors(player.Err)
		_, err := tea.NewProgram(panel, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	}

	return playFor(ctx, h, player, reloads, cfg.Seconds, logger)
}

// playFor plays until the duration elapses or ctx is cancelled, applying
// config reloads as they arrive.
func playFor(ctx context.Context, h *host.Host, player *preview.Player, reloads <-chan preview.WatchEvent, seconds float64, logger *debug.Logger) error {
	timer := time.NewTimer(time.Duration(seconds * float64(time.Second)))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			if hz, ok := player.Levels().MeasuredFrequency(); ok {
				logger.Info("measured %.2f Hz", hz)
			}
			return player.Err()
		case ev, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			if ev.Error != nil {
				logger.Warn("config reload: %v", ev.Error)
				continue
			}
			logger.Info("config reloaded, frequency %g Hz", ev.Config.Frequency)
			h.SetParam(picosine.ParamFrequency, ev.Config.Frequency)
		}
	}
}
