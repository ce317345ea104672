package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aerial-rl-go/internal/engine"
	"aerial-rl-go/internal/reward"
)

func TestDefault(t *testing.T) {
	f := Default()

	assert.Equal(t, 200, f.Trainer.Episodes)
	assert.Equal(t, engine.AlgorithmQLearning, f.Trainer.Algorithm)
	assert.Equal(t, BaseVelocityBallToGoal, f.Reward.Base)
	assert.True(t, f.Reward.Aerial.Enabled)
	assert.Equal(t, reward.DefaultAerialConfig(), f.Reward.Aerial.AerialConfig)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.yaml")
	doc := `
trainer:
  episodes: 12
reward:
  base: touch_ball
  aerial:
    max_height: 1200
    curve: normalized
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	f, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 12, f.Trainer.Episodes)
	assert.Equal(t, 0.9, f.Trainer.Gamma)
	assert.Equal(t, BaseTouchBall, f.Reward.Base)
	require.NotNil(t, f.Reward.Aerial.MaxHeight)
	assert.Equal(t, float32(1200), *f.Reward.Aerial.MaxHeight)
	require.NotNil(t, f.Reward.Aerial.MinHeight)
	assert.Equal(t, float32(150), *f.Reward.Aerial.MinHeight)
	assert.Equal(t, reward.CurveNormalized, f.Reward.Aerial.Curve)
}

func TestOverlayKeepsExplicitZero(t *testing.T) {
	f, err := Overlay([]byte("reward:\n  aerial:\n    min_ratio: 0\n"))
	require.NoError(t, err)

	require.NotNil(t, f.Reward.Aerial.MinRatio)
	assert.Zero(t, *f.Reward.Aerial.MinRatio)
	require.NotNil(t, f.Reward.Aerial.MaxRatio)
	assert.Equal(t, float32(reward.DefaultMaxRatio), *f.Reward.Aerial.MaxRatio)
	assert.Equal(t, reward.CurveLegacy, f.Reward.Aerial.Curve)

	fn, err := f.RewardFactory()()
	require.NoError(t, err)
	wrapper, ok := fn.(*reward.AerialWeighted)
	require.True(t, ok)
	assert.Zero(t, wrapper.HeightRatio(0))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseRejectsBadConfig(t *testing.T) {
	_, err := Parse([]byte("reward:\n  base: spin\n"))
	assert.ErrorContains(t, err, "unknown base reward")

	_, err = Parse([]byte("reward:\n  base: touch_ball\n  aerial:\n    enabled: true\n    min_ratio: 3\n    max_ratio: 1\n"))
	assert.ErrorIs(t, err, reward.ErrRatioBounds)

	_, err = Parse([]byte("trainer: [1, 2"))
	assert.Error(t, err)
}

func TestRewardFactory(t *testing.T) {
	f := Default()
	factory := f.RewardFactory()

	a, err := factory()
	require.NoError(t, err)
	b, err := factory()
	require.NoError(t, err)
	assert.NotSame(t, a, b)

	wrapper, ok := a.(*reward.AerialWeighted)
	require.True(t, ok)
	assert.Equal(t, float32(150), wrapper.TargetHeight())

	f.Reward.Aerial.Enabled = false
	f.Reward.Base = BaseTouchBall
	f.Reward.TouchAerialWeight = 2
	plain, err := f.RewardFactory()()
	require.NoError(t, err)
	assert.Equal(t, reward.TouchBall{AerialWeight: 2}, plain)
}

func TestEngineConfig(t *testing.T) {
	f := Default()
	f.Trainer.Episodes = 3
	f.Trainer.MaxSteps = 20

	cfg := f.EngineConfig()
	assert.Equal(t, 3, cfg.Episodes)
	require.NotNil(t, cfg.RewardFactory)

	trainer, err := engine.NewTrainer(cfg)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	var final engine.Snapshot
	for snapshot := range trainer.Run(ctx) {
		final = snapshot
	}
	assert.Equal(t, engine.StatusDone, final.Status)
	assert.Equal(t, 3, final.EpisodesCompleted)
}

func TestOverlayAcceptsJSON(t *testing.T) {
	f, err := Overlay([]byte(`{"trainer": {"episodes": 7, "players": 2}, "reward": {"aerial": {"enabled": false}}}`))
	require.NoError(t, err)

	assert.Equal(t, 7, f.Trainer.Episodes)
	assert.Equal(t, 2, f.Trainer.Players)
	assert.False(t, f.Reward.Aerial.Enabled)
	require.NotNil(t, f.Reward.Aerial.MaxHeight)
	assert.Equal(t, float32(800), *f.Reward.Aerial.MaxHeight)
}
