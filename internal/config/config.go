// Package config loads training configuration from YAML.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"aerial-rl-go/internal/engine"
	"aerial-rl-go/internal/reward"
)

//go:embed default.yaml
var defaultConfigData []byte

const (
	BaseVelocityBallToGoal = "velocity_ball_to_goal"
	BaseTouchBall          = "touch_ball"
)

type File struct {
	Trainer Trainer `yaml:"trainer"`
	Reward  Reward  `yaml:"reward"`
}

type Trainer struct {
	Episodes     int     `yaml:"episodes"`
	Seed         int64   `yaml:"seed"`
	Algorithm    string  `yaml:"algorithm"`
	Players      int     `yaml:"players"`
	MaxSteps     int     `yaml:"max_steps"`
	StepDelayMs  int     `yaml:"step_delay_ms"`
	Epsilon      float64 `yaml:"epsilon"`
	EpsilonMin   float64 `yaml:"epsilon_min"`
	EpsilonDecay float64 `yaml:"epsilon_decay"`
	Alpha        float64 `yaml:"alpha"`
	Gamma        float64 `yaml:"gamma"`
}

type Reward struct {
	Base              string  `yaml:"base"`
	TouchAerialWeight float64 `yaml:"touch_aerial_weight"`
	Aerial            Aerial  `yaml:"aerial"`
}

type Aerial struct {
	Enabled             bool `yaml:"enabled"`
	reward.AerialConfig `yaml:",inline"`
}

// Default returns the embedded default configuration.
func Default() File {
	f, err := Parse(defaultConfigData)
	if err != nil {
		panic(fmt.Sprintf("config: embedded default: %v", err))
	}
	return f
}

// Load reads path and overlays it on the defaults.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config: %w", err)
	}
	f, err := Overlay(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Overlay decodes a partial document on top of the defaults. JSON documents
// are accepted as well.
func Overlay(data []byte) (File, error) {
	return overlay(Default(), data)
}

// Parse decodes a complete configuration document.
func Parse(data []byte) (File, error) {
	return overlay(File{}, data)
}

func overlay(base File, data []byte) (File, error) {
	if err := yaml.Unmarshal(data, &base); err != nil {
		return File{}, fmt.Errorf("parse config: %w", err)
	}
	if err := base.Validate(); err != nil {
		return File{}, err
	}
	return base, nil
}

func (f File) Validate() error {
	switch f.Reward.Base {
	case BaseVelocityBallToGoal, BaseTouchBall:
	default:
		return fmt.Errorf("config: unknown base reward %q", f.Reward.Base)
	}
	if f.Reward.Aerial.Enabled {
		if err := f.Reward.Aerial.Validate(); err != nil {
			return fmt.Errorf("config: aerial: %w", err)
		}
	}
	return nil
}

// RewardFactory builds a fresh reward function per call.
func (f File) RewardFactory() engine.RewardFactory {
	r := f.Reward
	return func() (reward.Function, error) {
		var base reward.Function
		switch r.Base {
		case BaseTouchBall:
			base = reward.TouchBall{AerialWeight: r.TouchAerialWeight}
		default:
			base = reward.VelocityBallToGoal{}
		}
		if !r.Aerial.Enabled {
			return base, nil
		}
		return reward.NewAerialWeighted(base, r.Aerial.AerialConfig)
	}
}

func (f File) EngineConfig() engine.Config {
	t := f.Trainer
	return engine.Config{
		Episodes:      t.Episodes,
		Seed:          t.Seed,
		Algorithm:     t.Algorithm,
		Players:       t.Players,
		MaxSteps:      t.MaxSteps,
		StepDelayMs:   t.StepDelayMs,
		Epsilon:       t.Epsilon,
		EpsilonMin:    t.EpsilonMin,
		EpsilonDecay:  t.EpsilonDecay,
		Alpha:         t.Alpha,
		Gamma:         t.Gamma,
		RewardFactory: f.RewardFactory(),
	}
}
