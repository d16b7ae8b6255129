package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Random     RandomConfig     `toml:"random"`
	AI         AIConfig         `toml:"ai"`
	Scripting  ScriptingConfig  `toml:"scripting"`
	Scene      SceneConfig      `toml:"scene"`
	Display    DisplayConfig    `toml:"display"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
	MaxTicks int           `toml:"max_ticks"` // 0 = run until quit
	MaxDelta time.Duration `toml:"max_delta"` // clamp for a stalled frame
}

type RandomConfig struct {
	Seed string `toml:"seed"` // empty = system entropy
}

// AIConfig holds the behavior tuning constants. Distances are world units.
type AIConfig struct {
	ArrivalEpsilon    float32       `toml:"arrival_epsilon"`
	EngageDistance    float32       `toml:"engage_distance"`
	ApproachDistance  float32       `toml:"approach_distance"`
	FearThreshold     float32       `toml:"fear_threshold"`
	FleeRadius        float32       `toml:"flee_radius"`
	BackAwayDistance  float32       `toml:"back_away_distance"`
	BackAwayProximity float32       `toml:"back_away_proximity"`
	FidgetOffset      float32       `toml:"fidget_offset"`
	FidgetMoves       int           `toml:"fidget_moves"`
	JumpImpulse       float32       `toml:"jump_impulse"`
	JumpTravelTime    float32       `toml:"jump_travel_time"` // seconds
	HissDuration      time.Duration `toml:"hiss_duration"`
}

type ScriptingConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type SceneConfig struct {
	Path string `toml:"path"` // empty = built-in scene
}

type DisplayConfig struct {
	Headless     bool          `toml:"headless"`
	CellsPerUnit int           `toml:"cells_per_unit"`
	KeyHold      time.Duration `toml:"key_hold"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // required by the terminal view, which owns stdout
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Simulation.TickRate <= 0 {
		errs = append(errs, errors.New("simulation.tick_rate must be positive"))
	}
	if c.Simulation.MaxTicks < 0 {
		errs = append(errs, errors.New("simulation.max_ticks must not be negative"))
	}
	if c.AI.ArrivalEpsilon <= 0 || c.AI.BackAwayProximity <= 0 {
		errs = append(errs, errors.New("ai.arrival_epsilon and ai.back_away_proximity must be positive"))
	}
	// a behavior that can finish without yielding spins the brain inside one step
	if c.AI.JumpTravelTime <= 0 || c.AI.JumpImpulse <= 0 {
		errs = append(errs, errors.New("ai.jump_travel_time and ai.jump_impulse must be positive"))
	}
	if c.AI.FidgetMoves < 1 {
		errs = append(errs, errors.New("ai.fidget_moves must be at least 1"))
	}
	if c.AI.BackAwayDistance <= c.AI.BackAwayProximity {
		errs = append(errs, errors.New("ai.back_away_distance must exceed ai.back_away_proximity"))
	}
	if c.Scripting.Enabled && c.Scripting.Dir == "" {
		errs = append(errs, errors.New("scripting.dir is required when scripting is enabled"))
	}
	return errors.Join(errs...)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate: time.Second / 60,
			MaxDelta: 100 * time.Millisecond,
		},
		AI: DefaultAI(),
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Display: DisplayConfig{
			CellsPerUnit: 2,
			KeyHold:      400 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "octopus.log",
		},
	}
}

func DefaultAI() AIConfig {
	return AIConfig{
		ArrivalEpsilon:    0.2,
		EngageDistance:    3,
		ApproachDistance:  3,
		FearThreshold:     50,
		FleeRadius:        10,
		BackAwayDistance:  10,
		BackAwayProximity: 0.3,
		FidgetOffset:      1,
		FidgetMoves:       3,
		JumpImpulse:       6,
		JumpTravelTime:    1.5,
		HissDuration:      time.Second,
	}
}
