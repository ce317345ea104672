package engine

import (
	"math"
	"math/rand"
)

type epsilonGreedyAgent struct {
	rng     *rand.Rand
	qvalues *qTable
	epsilon float64
}

func newEpsilonGreedyAgent(rng *rand.Rand, qvalues *qTable, epsilon float64) *epsilonGreedyAgent {
	return &epsilonGreedyAgent{rng: rng, qvalues: qvalues, epsilon: epsilon}
}

func (a *epsilonGreedyAgent) setEpsilon(epsilon float64) {
	a.epsilon = epsilon
}

func (a *epsilonGreedyAgent) act(obs observation) int {
	if a.rng.Float64() < a.epsilon {
		return a.rng.Intn(a.qvalues.actions)
	}
	bestAction := 0
	bestScore := math.Inf(-1)
	countBest := 0
	for action := 0; action < a.qvalues.actions; action++ {
		score := a.qvalues.get(obs, action)
		if score > bestScore {
			bestScore = score
			bestAction = action
			countBest = 1
		} else if score == bestScore {
			countBest++
			if a.rng.Intn(countBest) == 0 {
				bestAction = action
			}
		}
	}
	return bestAction
}
