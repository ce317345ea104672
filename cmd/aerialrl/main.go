package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"aerial-rl-go/internal/config"
	"aerial-rl-go/internal/engine"
	"aerial-rl-go/internal/reward"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "aerialrl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return errors.New("missing subcommand; try 'train'")
	}

	subcommand := os.Args[1]
	switch subcommand {
	case "train":
		return runTrain(os.Args[2:])
	default:
		return fmt.Errorf("unknown subcommand %q", subcommand)
	}
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	configPath := fs.String("config", "", "YAML config file (defaults are embedded)")
	episodes := fs.Int("episodes", 0, "number of training episodes (0 keeps config)")
	seed := fs.Int64("seed", 0, "deterministic seed (0 keeps config)")
	epsilon := fs.Float64("epsilon", -1, "exploration rate (0-1, negative keeps config)")
	alpha := fs.Float64("alpha", -1, "learning rate (0-1, negative keeps config)")
	players := fs.Int("players", 0, "players in the arena; extra players chase the ball")
	minHeight := fs.Float64("min-height", 0, "floor for the adaptive target height")
	maxHeight := fs.Float64("max-height", 0, "ceiling for the adaptive target height")
	curve := fs.String("curve", "", "height ratio curve: legacy or normalized")
	verbose := fs.Bool("v", false, "log the per-episode height profile")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfgFile := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfgFile = loaded
	}
	if *episodes < 0 {
		return fmt.Errorf("episodes must be positive (got %d)", *episodes)
	}
	if *episodes > 0 {
		cfgFile.Trainer.Episodes = *episodes
	}
	if *seed != 0 {
		cfgFile.Trainer.Seed = *seed
	}
	if *epsilon > 1 {
		return fmt.Errorf("epsilon must be between 0 and 1 (got %.2f)", *epsilon)
	}
	if *epsilon >= 0 {
		cfgFile.Trainer.Epsilon = *epsilon
	}
	if *alpha > 1 {
		return fmt.Errorf("alpha must be between 0 and 1 (got %.2f)", *alpha)
	}
	if *alpha >= 0 {
		cfgFile.Trainer.Alpha = *alpha
	}
	if *players > 0 {
		cfgFile.Trainer.Players = *players
	}
	if *minHeight > 0 {
		cfgFile.Reward.Aerial.MinHeight = reward.Float(float32(*minHeight))
	}
	if *maxHeight > 0 {
		cfgFile.Reward.Aerial.MaxHeight = reward.Float(float32(*maxHeight))
	}
	if *curve != "" {
		cfgFile.Reward.Aerial.Curve = reward.HeightCurve(*curve)
	}
	if err := cfgFile.Validate(); err != nil {
		return err
	}

	logger := log.New(os.Stderr, "aerialrl: ", log.LstdFlags)
	cfg := cfgFile.EngineConfig()
	if *verbose {
		cfg.Logger = logger
	}
	logger.Printf("train config => episodes=%d seed=%d players=%d epsilon=%.2f alpha=%.2f base=%s aerial=%t",
		cfg.Episodes, cfg.Seed, cfg.Players, cfg.Epsilon, cfg.Alpha, cfgFile.Reward.Base, cfgFile.Reward.Aerial.Enabled)

	trainer, err := engine.NewTrainer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var final engine.Snapshot
	for snapshot := range trainer.Run(ctx) {
		final = snapshot
		if snapshot.Status != engine.StatusEpisodeComplete {
			continue
		}
		fmt.Printf("episode %d: reward=%.3f steps=%d touches=%d target_height=%.1f\n",
			snapshot.Episode, snapshot.EpisodeReward, snapshot.EpisodeSteps, snapshot.EpisodeTouches, snapshot.TargetHeight)
	}
	if final.Status == engine.StatusCancelled {
		logger.Printf("training cancelled after %d episodes", final.EpisodesCompleted)
	}
	if final.EpisodesCompleted == 0 {
		return nil
	}

	completed := float64(final.EpisodesCompleted)
	fmt.Printf("summary: avg_reward=%.3f avg_steps=%.2f goal_rate=%.2f target_height=%.1f\n",
		final.TotalReward/completed, float64(final.TotalSteps)/completed, float64(final.GoalCount)/completed, final.TargetHeight)
	printValueMap(final.ValueMap)
	return nil
}

func printValueMap(values [][]float64) {
	fmt.Println("value table (height band x distance band):")
	for _, row := range values {
		for _, v := range row {
			fmt.Printf("%8.3f ", v)
		}
		fmt.Println()
	}
}
