package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"aerial-rl-go/internal/game"
)

func TestArenaResetRestartsTicks(t *testing.T) {
	env := newArenaEnv(rand.New(rand.NewSource(1)), 2, 50)
	env.reset()
	env.step([]int{actionDrive, actionDrive})
	require.Equal(t, uint64(tickSkip), env.state.TickNum)

	env.reset()
	assert.Zero(t, env.state.TickNum)
	assert.Equal(t, game.TeamBlue, env.state.Players[0].Team)
	assert.Equal(t, game.TeamOrange, env.state.Players[1].Team)
	assert.GreaterOrEqual(t, env.state.Ball.Position.Z, game.BallRadius)
}

func TestArenaBallStaysInBounds(t *testing.T) {
	env := newArenaEnv(rand.New(rand.NewSource(2)), 1, 400)
	env.reset()
	for {
		_, done := env.step([]int{actionAerial})
		pos := env.state.Ball.Position
		assert.GreaterOrEqual(t, pos.Z, game.BallRadius)
		assert.LessOrEqual(t, pos.Z, game.CeilingZ-game.BallRadius)
		if done {
			break
		}
	}
	assert.LessOrEqual(t, env.stepsTaken, 400)
}

func TestArenaGroundTouchLaunchesTowardGoal(t *testing.T) {
	env := newArenaEnv(rand.New(rand.NewSource(3)), 1, 50)
	env.reset()
	env.state.Ball = game.PhysicsObject{Position: r3.Vec{Z: game.BallRadius}}
	env.state.Players[0].CarData.Position = r3.Vec{Y: -100, Z: carRestHeight}

	env.step([]int{actionDrive})

	assert.True(t, env.state.Players[0].BallTouched)
	assert.Greater(t, env.state.Ball.LinearVelocity.Y, 0.0)
}

func TestArenaIdleDoesNotTouch(t *testing.T) {
	env := newArenaEnv(rand.New(rand.NewSource(4)), 1, 50)
	env.reset()
	env.state.Ball = game.PhysicsObject{Position: r3.Vec{Z: game.BallRadius}}
	env.state.Players[0].CarData.Position = r3.Vec{Y: -50, Z: carRestHeight}

	env.step([]int{actionIdle})

	assert.False(t, env.state.Players[0].BallTouched)
}

func TestArenaGoal(t *testing.T) {
	env := newArenaEnv(rand.New(rand.NewSource(5)), 1, 50)
	env.reset()
	env.state.Players[0].CarData.Position = r3.Vec{Y: -3000, Z: carRestHeight}
	env.state.Ball = game.PhysicsObject{
		Position:       r3.Vec{Y: game.BackWallY - 150, Z: 300},
		LinearVelocity: r3.Vec{Y: 3000},
	}

	scored, done := env.step([]int{actionIdle})

	assert.True(t, scored)
	assert.True(t, done)
	assert.Equal(t, 1, env.state.BlueScore)
}

func TestObserveBands(t *testing.T) {
	assert.Equal(t, 0, heightBand(game.BallRadius))
	assert.Equal(t, 1, heightBand(450))
	assert.Equal(t, 2, heightBand(1000))
	assert.Equal(t, 3, heightBand(1900))
	assert.Equal(t, 0, distanceBand(120))
	assert.Equal(t, 2, distanceBand(4000))

	state := &game.GameState{
		Ball:    game.PhysicsObject{Position: r3.Vec{Y: 1000, Z: 700}},
		Players: []game.PlayerData{{CarData: game.PhysicsObject{Position: r3.Vec{Z: carRestHeight}}}},
	}
	assert.Equal(t, observation{height: 2, distance: 1}, observe(state, 0))
}
