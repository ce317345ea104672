package reward

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"aerial-rl-go/internal/game"
)

// VelocityBallToGoal rewards ball velocity toward the player's opponent net,
// normalized by the maximum ball speed.
type VelocityBallToGoal struct{}

func (VelocityBallToGoal) Reset(*game.GameState) {}

func (VelocityBallToGoal) GetReward(player *game.PlayerData, state *game.GameState, _ []float32) float32 {
	toGoal := r3.Sub(player.OpponentGoal(), state.Ball.Position)
	if r3.Norm(toGoal) == 0 {
		return 0
	}
	vel := r3.Scale(1/game.BallMaxSpeed, state.Ball.LinearVelocity)
	return float32(r3.Dot(r3.Unit(toGoal), vel))
}

func (v VelocityBallToGoal) GetFinalReward(player *game.PlayerData, state *game.GameState, previousAction []float32) float32 {
	return v.GetReward(player, state, previousAction)
}

// TouchBall pays for touching the ball, weighted by its height when
// AerialWeight is positive.
type TouchBall struct {
	AerialWeight float64
}

func (TouchBall) Reset(*game.GameState) {}

func (t TouchBall) GetReward(player *game.PlayerData, state *game.GameState, _ []float32) float32 {
	if !player.BallTouched {
		return 0
	}
	height := (state.Ball.Position.Z + game.BallRadius) / (2 * game.BallRadius)
	return float32(math.Pow(height, t.AerialWeight))
}

func (t TouchBall) GetFinalReward(player *game.PlayerData, state *game.GameState, previousAction []float32) float32 {
	return t.GetReward(player, state, previousAction)
}

// Constant returns the same reward every tick.
type Constant float32

func (Constant) Reset(*game.GameState) {}

func (c Constant) GetReward(*game.PlayerData, *game.GameState, []float32) float32 {
	return float32(c)
}

func (c Constant) GetFinalReward(*game.PlayerData, *game.GameState, []float32) float32 {
	return float32(c)
}

// Combined is a weighted sum of reward functions.
type Combined struct {
	functions []Function
	weights   []float32
}

func NewCombined(functions []Function, weights []float32) (*Combined, error) {
	if weights == nil {
		weights = make([]float32, len(functions))
		for i := range weights {
			weights[i] = 1
		}
	}
	if len(functions) != len(weights) {
		return nil, fmt.Errorf("reward: %d functions but %d weights", len(functions), len(weights))
	}
	for i, fn := range functions {
		if fn == nil {
			return nil, fmt.Errorf("reward: function %d: %w", i, ErrNilDelegate)
		}
	}
	return &Combined{functions: functions, weights: weights}, nil
}

func (c *Combined) Reset(initial *game.GameState) {
	for _, fn := range c.functions {
		fn.Reset(initial)
	}
}

func (c *Combined) GetReward(player *game.PlayerData, state *game.GameState, previousAction []float32) float32 {
	var total float32
	for i, fn := range c.functions {
		total += c.weights[i] * fn.GetReward(player, state, previousAction)
	}
	return total
}

func (c *Combined) GetFinalReward(player *game.PlayerData, state *game.GameState, previousAction []float32) float32 {
	var total float32
	for i, fn := range c.functions {
		total += c.weights[i] * fn.GetFinalReward(player, state, previousAction)
	}
	return total
}

// TargetHeight reports the first adaptive target among the combined terms.
func (c *Combined) TargetHeight() float32 {
	for _, fn := range c.functions {
		if th, ok := fn.(TargetHeighter); ok {
			return th.TargetHeight()
		}
	}
	return 0
}
