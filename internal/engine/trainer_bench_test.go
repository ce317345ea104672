package engine

import (
	"context"
	"testing"
)

func benchmarkEpisodes(b *testing.B, cfg Config) {
	for i := 0; i < b.N; i++ {
		trainer, err := NewTrainer(cfg)
		if err != nil {
			b.Fatalf("new trainer: %v", err)
		}
		ctx := context.Background()
		for range trainer.Run(ctx) {
		}
	}
}

func BenchmarkEpisodeQLearning(b *testing.B) {
	cfg := Config{
		Episodes:     1,
		Seed:         99,
		Algorithm:    AlgorithmQLearning,
		Epsilon:      0.2,
		EpsilonMin:   0.05,
		EpsilonDecay: 0.999,
		Alpha:        0.2,
		Gamma:        0.9,
	}
	benchmarkEpisodes(b, cfg)
}

func BenchmarkEpisodeSARSAFourPlayers(b *testing.B) {
	cfg := Config{
		Episodes:     1,
		Seed:         99,
		Algorithm:    AlgorithmSARSA,
		Players:      4,
		Epsilon:      0.2,
		EpsilonMin:   0.05,
		EpsilonDecay: 0.999,
		Alpha:        0.2,
		Gamma:        0.9,
	}
	benchmarkEpisodes(b, cfg)
}
