// Package reward implements per-tick reward functions for arena training.
//
// A Function is reset once at the start of every episode, asked for a reward
// once per tick per player, and asked for a final reward on the terminal tick.
// Implementations are not safe for concurrent use; each environment owns its
// own instances.
package reward

import "aerial-rl-go/internal/game"

// Function is a per-tick reward with an episode-start hook.
type Function interface {
	Reset(initial *game.GameState)
	GetReward(player *game.PlayerData, state *game.GameState, previousAction []float32) float32
	GetFinalReward(player *game.PlayerData, state *game.GameState, previousAction []float32) float32
}

// TargetHeighter is implemented by functions that track an adaptive target
// ball height.
type TargetHeighter interface {
	TargetHeight() float32
}
