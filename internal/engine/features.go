package engine

import (
	"gonum.org/v1/gonum/spatial/r3"

	"aerial-rl-go/internal/game"
)

const (
	heightBands   = 4
	distanceBands = 3
)

const (
	actionIdle = iota
	actionDrive
	actionAerial
	numActions
)

type observation struct {
	height   int
	distance int
}

func heightBand(z float64) int {
	switch {
	case z <= 200:
		return 0
	case z <= 600:
		return 1
	case z <= 1200:
		return 2
	default:
		return 3
	}
}

func distanceBand(distance float64) int {
	if distance <= 300 {
		return 0
	}
	if distance <= 1500 {
		return 1
	}
	return 2
}

// observe discretizes the ball height and the car-to-ball ground distance.
func observe(state *game.GameState, player int) observation {
	car := state.Players[player].CarData.Position
	return observation{
		height:   heightBand(state.Ball.Position.Z),
		distance: distanceBand(groundDistance(car, state.Ball.Position)),
	}
}

func groundDistance(a, b r3.Vec) float64 {
	d := r3.Sub(b, a)
	d.Z = 0
	return r3.Norm(d)
}
