package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/octosim/octopus/internal/config"
	"github.com/octosim/octopus/internal/core/event"
	"github.com/octosim/octopus/internal/data"
	"github.com/octosim/octopus/internal/random"
	"github.com/octosim/octopus/internal/scripting"
	"github.com/octosim/octopus/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// frontend is the presentation side of the loop: it turns input into hero
// control and draws whatever the delivered events told it.
type frontend interface {
	// Poll drains pending input; ok is false once the user asked to quit.
	Poll(now time.Time) (control mgl32.Vec2, ok bool)
	Draw(now time.Time)
	Close()
}

func run() error {
	// 1. Load config
	cfgPath := "config/octopus.toml"
	if p := os.Getenv("OCTOPUS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging, cfg.Display.Headless)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	rng := random.FromString(cfg.Random.Seed)
	log.Info("random source ready", zap.Uint64("seed", rng.Seed()))

	// 3. Scene and scripts
	scene := data.DefaultScene()
	if cfg.Scene.Path != "" {
		scene, err = data.LoadScene(cfg.Scene.Path)
		if err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
	}
	log.Info("scene loaded", zap.String("path", cfg.Scene.Path), zap.Int("objects", scene.Count()))

	events := event.NewChannel(log.Named("events"))
	opts := world.Options{Tuning: cfg.AI, Log: log}
	if cfg.Scripting.Enabled {
		engine, err := scripting.NewEngine(cfg.Scripting.Dir, log.Named("lua"))
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		if engine.HasFunction("scorpion_fear") {
			opts.Fear = engine
		} else {
			log.Warn("scripting enabled but scorpion_fear is not defined", zap.String("dir", cfg.Scripting.Dir))
		}
	}

	// 4. Presentation subscribes before the world publishes its objects
	var front frontend
	if cfg.Display.Headless {
		front = newHeadless(events, log.Named("headless"))
	} else {
		front, err = newTerminal(events, cfg.Display)
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
	}
	defer front.Close()

	// 5. World
	w := world.New(events, rng, opts)
	if err := w.Populate(scene); err != nil {
		return err
	}
	events.Deliver()

	// 6. Game loop
	if cfg.Display.Headless {
		return runFixed(w, events, front, cfg.Simulation, log)
	}
	return runRealtime(w, events, front, cfg.Simulation, log)
}

// runFixed advances by exactly tick_rate per step with no pacing, so a seeded
// run replays identically.
func runFixed(w *world.World, events *event.Channel, front frontend, sim config.SimulationConfig, log *zap.Logger) error {
	if sim.MaxTicks == 0 {
		return errors.New("headless mode needs simulation.max_ticks")
	}
	now := time.Time{}
	for tick := 0; tick < sim.MaxTicks; tick++ {
		now = now.Add(sim.TickRate)
		if err := step(w, events, front, sim.TickRate, now); err != nil {
			return err
		}
	}
	logStats(log, w)
	return nil
}

// runRealtime paces steps with a ticker and feeds the measured frame time,
// clamped to max_delta.
func runRealtime(w *world.World, events *event.Channel, front frontend, sim config.SimulationConfig, log *zap.Logger) error {
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	ticker := time.NewTicker(sim.TickRate)
	defer ticker.Stop()

	log.Info("game loop started", zap.Duration("tick", sim.TickRate))
	last := time.Now()
	const statusInterval = 600

	for tick := 0; sim.MaxTicks == 0 || tick < sim.MaxTicks; tick++ {
		select {
		case sig := <-shutdownCh:
			log.Info("shutting down", zap.String("signal", sig.String()))
			return nil
		case now := <-ticker.C:
			delta := min(now.Sub(last), sim.MaxDelta)
			last = now

			control, ok := front.Poll(now)
			if !ok {
				log.Info("quit requested")
				logStats(log, w)
				return nil
			}
			if !w.Hero().IsZero() {
				if err := w.QueueHeroControl(control); err != nil {
					log.Warn("steering dropped", zap.Error(err))
				}
			}
			if err := step(w, events, front, delta, now); err != nil {
				return err
			}
			if tick%statusInterval == 0 {
				logStats(log, w)
			}
		}
	}
	logStats(log, w)
	return nil
}

func step(w *world.World, events *event.Channel, front frontend, delta time.Duration, now time.Time) error {
	if err := w.Update(delta); err != nil {
		return err
	}
	events.Deliver()
	front.Draw(now)
	return nil
}

func logStats(log *zap.Logger, w *world.World) {
	st := w.Stats()
	log.Info("simulation status",
		zap.Uint64("ticks", st.Ticks),
		zap.Duration("clock", st.Clock),
		zap.Int("entities", st.Entities),
		zap.Int("brains", st.Brains),
		zap.Int("tasks", st.Tasks),
	)
}

func newLogger(cfg config.LoggingConfig, headless bool) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	// the terminal view owns stdout and stderr
	switch {
	case cfg.File != "":
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
		if cfg.Format != "json" {
			zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
	case !headless:
		return nil, errors.New("logging.file is required by the terminal view")
	}

	return zapCfg.Build()
}
