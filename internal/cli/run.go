package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thruflo/strobe/internal/audio"
	"github.com/thruflo/strobe/internal/config"
	"github.com/thruflo/strobe/internal/control"
	"github.com/thruflo/strobe/internal/engine"
	"github.com/thruflo/strobe/internal/logging"
	"github.com/thruflo/strobe/internal/render"
	"github.com/thruflo/strobe/internal/tempo"
)

var (
	flagPort      int
	flagFPS       int
	flagScene     string
	flagSynthetic bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the engine",
	Long: `Starts the audio pipeline, the control server and the render loop.
Configuration is read from .strobe/config.yaml in the working directory,
overridden by STROBE_* environment variables and these flags.

Keys while running:
  q / ctrl-c   quit
  a            toggle the audio pipeline
  1-9          switch scene
  [ / ]        nudge tempo down / up`,
	RunE: runEngine,
}

func init() {
	runCmd.Flags().IntVar(&flagPort, "port", 0, "control server port (overrides config)")
	runCmd.Flags().IntVar(&flagFPS, "fps", 0, "target frame rate (overrides config)")
	runCmd.Flags().StringVar(&flagScene, "scene", "", "startup scene (overrides config)")
	runCmd.Flags().BoolVar(&flagSynthetic, "synthetic", false, "force the synthetic audio backend")
	rootCmd.AddCommand(runCmd)
}

func runEngine(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	cfg, err := config.LoadConfig(cwd)
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)

	// The terminal is about to go raw; logs go to a file so they never
	// corrupt the frame output.
	log := logging.New("strobe")
	if w, lerr := openLogFile(cwd); lerr == nil {
		log.SetOutput(w)
		defer w.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	snap := engine.NewSnapshot()

	// Audio: capture init failure falls back to the test signal, never
	// aborts startup.
	backend := selectBackend(cfg, log)
	pipeline := audio.NewPipeline(snap, backend, log.Named("audio"))
	pipeline.SetGain(cfg.Audio.Gain)
	pipeline.SetSmoothing(cfg.Audio.Smoothing)
	pipeline.SetEnabled(cfg.Audio.Enabled)
	pipeline.Start()

	// Control: a bind failure disables the feature, never the process.
	var server *control.Server
	if cfg.Control.Enabled {
		server, err = control.Listen(cfg.Control.Port, snap, log.Named("control"))
		if err != nil {
			log.Error("control server disabled", "err", err)
			server = nil
		} else {
			server.Start()
			log.Info("control server listening", "addr", server.Addr().String())
		}
	}

	clock := tempo.NewClock(cfg.Tempo.BPM)
	clock.SetQuantum(cfg.Tempo.Quantum)

	terminal := render.NewTerminal(os.Stdout)
	if err := terminal.Setup(); err != nil {
		pipeline.Stop()
		if server != nil {
			server.Stop()
		}
		return err
	}
	defer terminal.Restore()

	width, height := terminal.Size()
	loop := render.NewLoop(snap, clock, os.Stdout, width, height, cfg.Render.FPS, log.Named("render"))
	loop.SetScene(render.SceneByName(cfg.Render.Scene))

	loopDone := make(chan uint64, 1)
	go func() { loopDone <- loop.Run() }()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	keys := terminal.ReadKeys()

running:
	for {
		select {
		case <-sigs:
			break running
		case key, ok := <-keys:
			if !ok {
				break running
			}
			if quit := handleKey(key, pipeline, loop, clock); quit {
				break running
			}
		}
	}

	// Shutdown order: stop the consumer, then join the audio pipeline,
	// then the control server (closing its sockets).
	loop.Stop()
	frames := <-loopDone
	pipeline.Stop()
	if server != nil {
		server.Stop()
	}
	log.Info("engine stopped", "frames", frames)
	return nil
}

// applyFlags overlays explicitly-set command flags onto the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Control.Port = flagPort
	}
	if cmd.Flags().Changed("fps") {
		cfg.Render.FPS = flagFPS
	}
	if cmd.Flags().Changed("scene") {
		cfg.Render.Scene = flagScene
	}
	if flagSynthetic {
		cfg.Audio.Synthetic = true
	}
}

// selectBackend picks the capture device when available, otherwise the
// deterministic test signal.
func selectBackend(cfg config.Config, log *logging.Logger) audio.Backend {
	if cfg.Audio.Synthetic {
		return audio.NewSynthBackend()
	}

	capture := audio.NewCaptureBackend("strobe")
	if err := capture.Start(); err != nil {
		log.Warn("audio capture unavailable, using test signal", "err", err)
		return audio.NewSynthBackend()
	}
	return capture
}

// handleKey applies one key press and reports whether the engine should
// quit.
func handleKey(key byte, pipeline *audio.Pipeline, loop *render.Loop, clock *tempo.Clock) bool {
	switch key {
	case 'q', 'Q', 3, 27: // q, ctrl-c, escape
		return true
	case 'a':
		pipeline.SetEnabled(!pipeline.Enabled())
	case '[':
		clock.SetTempo(clock.Tempo() - 1)
	case ']':
		clock.SetTempo(clock.Tempo() + 1)
	default:
		if key >= '1' && key <= '9' {
			scenes := render.Scenes()
			if idx := int(key - '1'); idx < len(scenes) {
				loop.SetScene(scenes[idx])
			}
		}
	}
	return false
}

// openLogFile opens .strobe/strobe.log for appending, creating the
// directory if needed.
func openLogFile(basePath string) (*os.File, error) {
	dir := filepath.Join(basePath, ".strobe")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "strobe.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
