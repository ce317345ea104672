package engine

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"aerial-rl-go/internal/game"
	"aerial-rl-go/internal/reward"
)

func clampFloat(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

const (
	StatusRunning         = "running"
	StatusEpisodeComplete = "episode_complete"
	StatusDone            = "done"
	StatusCancelled       = "cancelled"
)

const (
	AlgorithmQLearning = "q-learning"
	AlgorithmSARSA     = "sarsa"
)

const maxPlayers = 4

// RewardFactory builds one reward function per player. Reward functions keep
// per-player episode state, so instances are never shared.
type RewardFactory func() (reward.Function, error)

// DefaultRewardFactory wraps velocity-to-goal in the adaptive height weighting.
func DefaultRewardFactory() (reward.Function, error) {
	return reward.NewAerialWeighted(reward.VelocityBallToGoal{}, reward.DefaultAerialConfig())
}

// Config drives a training run. Player 0 is the learner; further players are
// scripted ball chasers.
type Config struct {
	Episodes      int
	Seed          int64
	Epsilon       float64
	EpsilonMin    float64
	EpsilonDecay  float64
	Alpha         float64
	Gamma         float64
	Algorithm     string
	Players       int
	MaxSteps      int
	StepDelayMs   int
	RewardFactory RewardFactory `json:"-"`
	Logger        *log.Logger   `json:"-"`
}

type Vec3 struct {
	X float64
	Y float64
	Z float64
}

type Snapshot struct {
	Step              int
	Episode           int
	EpisodeSteps      int
	EpisodeReward     float64
	EpisodeTouches    int
	Reward            float64
	Ball              Vec3
	TargetHeight      float64
	ValueMap          [][]float64
	HeightProfile     []float64
	GoalCount         int
	EpisodesCompleted int
	TotalReward       float64
	TotalSteps        int
	Config            Config
	Status            string
}

type Trainer struct {
	cfg               Config
	rng               *rand.Rand
	env               *arenaEnv
	agent             *epsilonGreedyAgent
	qvalues           *qTable
	profile           *heightProfile
	rewards           []reward.Function
	step              int
	goalCount         int
	episodesCompleted int
	totalReward       float64
	totalSteps        int
}

func NewTrainer(cfg Config) (*Trainer, error) {
	switch cfg.Algorithm {
	case AlgorithmQLearning, AlgorithmSARSA:
		// allowed
	default:
		cfg.Algorithm = AlgorithmQLearning
	}
	if cfg.Players <= 0 {
		cfg.Players = 1
	}
	if cfg.Players > maxPlayers {
		cfg.Players = maxPlayers
	}
	if cfg.StepDelayMs < 0 {
		cfg.StepDelayMs = 0
	}
	if cfg.MaxSteps < 0 {
		cfg.MaxSteps = 0
	}
	if cfg.Gamma <= 0 || cfg.Gamma > 1 {
		cfg.Gamma = 0.9
	}
	if cfg.Alpha <= 0 || cfg.Alpha > 1 {
		cfg.Alpha = 0.1
	}
	if cfg.Epsilon <= 0 || cfg.Epsilon > 1 {
		cfg.Epsilon = 0.1
	}
	if cfg.EpsilonMin < 0 || cfg.EpsilonMin > cfg.Epsilon {
		cfg.EpsilonMin = 0
	}
	if cfg.EpsilonDecay < 0 {
		cfg.EpsilonDecay = 0
	}
	if cfg.RewardFactory == nil {
		cfg.RewardFactory = DefaultRewardFactory
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	rewards := make([]reward.Function, cfg.Players)
	for i := range rewards {
		fn, err := cfg.RewardFactory()
		if err != nil {
			return nil, fmt.Errorf("reward for player %d: %w", i, err)
		}
		if fn == nil {
			return nil, fmt.Errorf("reward for player %d: %w", i, reward.ErrNilDelegate)
		}
		rewards[i] = fn
	}

	env := newArenaEnv(rng, cfg.Players, cfg.MaxSteps)
	qvalues := newQTable(heightBands, distanceBands, numActions)
	agent := newEpsilonGreedyAgent(rng, qvalues, cfg.Epsilon)
	return &Trainer{
		cfg:     cfg,
		rng:     rng,
		env:     env,
		agent:   agent,
		qvalues: qvalues,
		profile: newHeightProfile(heightBands, cfg.Alpha),
		rewards: rewards,
	}, nil
}

func (t *Trainer) Run(ctx context.Context) <-chan Snapshot {
	out := make(chan Snapshot)
	go func() {
		defer close(out)
		if t.cfg.Episodes <= 0 {
			return
		}
		for episode := 1; episode <= t.cfg.Episodes; episode++ {
			select {
			case <-ctx.Done():
				out <- t.snapshot(StatusCancelled, episode, 0, 0, 0, 0)
				return
			default:
			}
			if t.cfg.EpsilonDecay > 0 {
				t.agent.setEpsilon(clampFloat(t.cfg.Epsilon, 0, 1))
			}
			if !t.runEpisode(ctx, episode, out) {
				return
			}
			if t.cfg.EpsilonDecay > 0 {
				t.cfg.Epsilon = maxFloat(t.cfg.EpsilonMin, t.cfg.Epsilon*t.cfg.EpsilonDecay)
			}
		}
		out <- t.snapshot(StatusDone, t.cfg.Episodes, 0, 0, 0, 0)
	}()
	return out
}

// runEpisode plays one episode and reports false when it was cancelled.
func (t *Trainer) runEpisode(ctx context.Context, episode int, out chan<- Snapshot) bool {
	t.env.reset()
	initial := t.env.state.Clone()
	for _, fn := range t.rewards {
		fn.Reset(initial)
	}

	obs := observe(&t.env.state, 0)
	action := t.agent.act(obs)
	actions := make([]int, t.cfg.Players)
	steps := 0
	touches := 0
	episodeReward := 0.0
	var lastReward float64
	for {
		select {
		case <-ctx.Done():
			out <- t.snapshot(StatusCancelled, episode, steps, touches, episodeReward, lastReward)
			return false
		default:
		}
		actions[0] = action
		for i := 1; i < len(actions); i++ {
			actions[i] = actionDrive
		}
		_, done := t.env.step(actions)
		state := &t.env.state

		reward := t.playerRewards(state, actions, done)
		if state.Players[0].BallTouched {
			touches++
		}
		nextObs := observe(state, 0)
		t.profile.update(heightBand(state.Ball.Position.Z), reward)
		episodeReward += reward
		steps++
		t.step++
		lastReward = reward

		var nextAction int
		switch t.cfg.Algorithm {
		case AlgorithmSARSA:
			if !done {
				nextAction = t.agent.act(nextObs)
			}
			t.updateSARSA(obs, action, reward, nextObs, nextAction, done)
		default:
			t.updateQLearning(obs, action, reward, nextObs, done)
		}
		out <- t.snapshot(StatusRunning, episode, steps, touches, episodeReward, reward)
		if t.cfg.StepDelayMs > 0 {
			select {
			case <-ctx.Done():
				out <- t.snapshot(StatusCancelled, episode, steps, touches, episodeReward, reward)
				return false
			case <-time.After(time.Duration(t.cfg.StepDelayMs) * time.Millisecond):
			}
		}
		if done {
			break
		}
		obs = nextObs
		if t.cfg.Algorithm == AlgorithmSARSA {
			action = nextAction
		} else {
			action = t.agent.act(obs)
		}
	}
	if t.env.state.BlueScore > 0 {
		t.goalCount++
	}
	t.totalReward += episodeReward
	t.totalSteps += steps
	t.episodesCompleted++
	t.profile.print(t.cfg.Logger, episode)
	out <- t.snapshot(StatusEpisodeComplete, episode, steps, touches, episodeReward, lastReward)
	return true
}

// playerRewards evaluates every player's reward function for the tick and
// returns the learner's reward. The terminal tick uses GetFinalReward.
func (t *Trainer) playerRewards(state *game.GameState, actions []int, done bool) float64 {
	var learner float64
	for i := range state.Players {
		player := &state.Players[i]
		previousAction := []float32{float32(actions[i])}
		var r float32
		if done {
			r = t.rewards[i].GetFinalReward(player, state, previousAction)
		} else {
			r = t.rewards[i].GetReward(player, state, previousAction)
		}
		if i == 0 {
			learner = float64(r)
		}
	}
	return learner
}

func (t *Trainer) updateQLearning(obs observation, action int, reward float64, next observation, done bool) {
	current := t.qvalues.get(obs, action)
	var nextValue float64
	if !done {
		nextValue = t.qvalues.maxValue(next)
	}
	target := reward + t.cfg.Gamma*nextValue
	t.qvalues.set(obs, action, current+t.cfg.Alpha*(target-current))
}

func (t *Trainer) updateSARSA(obs observation, action int, reward float64, next observation, nextAction int, done bool) {
	current := t.qvalues.get(obs, action)
	var nextValue float64
	if !done {
		nextValue = t.qvalues.get(next, nextAction)
	}
	target := reward + t.cfg.Gamma*nextValue
	t.qvalues.set(obs, action, current+t.cfg.Alpha*(target-current))
}

func (t *Trainer) targetHeight() float64 {
	if th, ok := t.rewards[0].(reward.TargetHeighter); ok {
		return float64(th.TargetHeight())
	}
	return 0
}

func (t *Trainer) snapshot(status string, episode, episodeSteps, touches int, episodeReward, reward float64) Snapshot {
	ball := t.env.state.Ball.Position
	return Snapshot{
		Step:              t.step,
		Episode:           episode,
		EpisodeSteps:      episodeSteps,
		EpisodeReward:     episodeReward,
		EpisodeTouches:    touches,
		Reward:            reward,
		Ball:              Vec3{X: ball.X, Y: ball.Y, Z: ball.Z},
		TargetHeight:      t.targetHeight(),
		ValueMap:          t.qvalues.stateValues(),
		HeightProfile:     t.profile.cloneData(),
		GoalCount:         t.goalCount,
		EpisodesCompleted: t.episodesCompleted,
		TotalReward:       t.totalReward,
		TotalSteps:        t.totalSteps,
		Config:            t.cfg,
		Status:            status,
	}
}
