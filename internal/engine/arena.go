package engine

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"aerial-rl-go/internal/game"
)

const (
	physicsHz   = 120
	tickSkip    = 8
	stepSeconds = float64(tickSkip) / physicsHz

	gravityZ        = -650.0
	ballRestitution = 0.6
	carMaxSpeed     = 1410.0
	carRestHeight   = 17.0
	carSpawnY       = 2560.0

	groundReach       = 180.0
	groundTouchHeight = 250.0
	aerialReach       = 350.0
	aerialMaxHeight   = 1800.0
	hitSpeed          = 2000.0
	groundPopMax      = 600.0
	aerialPopMin      = 300.0
	aerialPopMax      = 1100.0

	defaultMaxSteps = 300
	minMaxSteps     = 10
)

// arenaEnv is a reduced ball arena: cars slide on the floor, the ball flies
// under gravity and bounces off the floor, ceiling and walls, and a touch
// launches it toward the toucher's opponent net.
type arenaEnv struct {
	rng        *rand.Rand
	players    int
	maxSteps   int
	stepsTaken int
	state      game.GameState
}

func newArenaEnv(rng *rand.Rand, players, overrideMaxSteps int) *arenaEnv {
	if players <= 0 {
		players = 1
	}
	maxSteps := defaultMaxSteps
	if overrideMaxSteps > 0 {
		maxSteps = overrideMaxSteps
	}
	if maxSteps < minMaxSteps {
		maxSteps = minMaxSteps
	}
	env := &arenaEnv{rng: rng, players: players, maxSteps: maxSteps}
	env.state.Players = make([]game.PlayerData, players)
	return env
}

// reset places the ball near centre with a random drop and the cars on their
// own halves. Tick numbering restarts at zero.
func (a *arenaEnv) reset() {
	a.stepsTaken = 0
	a.state.TickNum = 0
	a.state.BlueScore = 0
	a.state.OrangeScore = 0
	a.state.Ball = game.PhysicsObject{
		Position: r3.Vec{
			X: a.uniform(-1000, 1000),
			Y: a.uniform(-1000, 1000),
			Z: game.BallRadius + a.uniform(0, 600),
		},
		LinearVelocity: r3.Vec{
			X: a.uniform(-500, 500),
			Y: a.uniform(-500, 500),
			Z: a.uniform(0, 500),
		},
	}
	for i := range a.state.Players {
		team := game.Team(i % 2)
		y := -carSpawnY
		if team == game.TeamOrange {
			y = carSpawnY
		}
		a.state.Players[i] = game.PlayerData{
			CarID: i + 1,
			Team:  team,
			CarData: game.PhysicsObject{
				Position: r3.Vec{X: float64(i/2)*512 - 256, Y: y, Z: carRestHeight},
			},
		}
	}
}

// step applies one action per player, advances the ball by tickSkip physics
// ticks, and reports whether a goal was scored and whether the episode ended.
func (a *arenaEnv) step(actions []int) (bool, bool) {
	if a.stepsTaken >= a.maxSteps {
		return false, true
	}
	for i := range a.state.Players {
		action := actionIdle
		if i < len(actions) {
			action = actions[i]
		}
		a.moveCar(i, action)
	}
	scored := a.moveBall()
	a.state.TickNum += tickSkip
	a.stepsTaken++
	if scored {
		return true, true
	}
	return false, a.stepsTaken >= a.maxSteps
}

func (a *arenaEnv) moveCar(i, action int) {
	player := &a.state.Players[i]
	player.BallTouched = false
	car := &player.CarData
	ball := a.state.Ball.Position

	if action == actionIdle {
		car.LinearVelocity = r3.Scale(0.5, car.LinearVelocity)
	} else {
		toBall := r3.Sub(ball, car.Position)
		toBall.Z = 0
		if r3.Norm(toBall) > 0 {
			car.LinearVelocity = r3.Scale(carMaxSpeed, r3.Unit(toBall))
		}
	}
	car.Position = r3.Add(car.Position, r3.Scale(stepSeconds, car.LinearVelocity))
	car.Position.X = clampFloat(car.Position.X, -game.SideWallX, game.SideWallX)
	car.Position.Y = clampFloat(car.Position.Y, -game.BackWallY, game.BackWallY)
	car.Position.Z = carRestHeight

	dist := groundDistance(car.Position, ball)
	switch {
	case action == actionAerial && dist <= aerialReach && ball.Z <= aerialMaxHeight:
		a.hit(player, a.uniform(aerialPopMin, aerialPopMax))
	case action != actionIdle && dist <= groundReach && ball.Z <= groundTouchHeight:
		a.hit(player, a.uniform(0, groundPopMax))
	}
}

func (a *arenaEnv) hit(player *game.PlayerData, pop float64) {
	dir := r3.Sub(player.OpponentGoal(), a.state.Ball.Position)
	dir.Z = 0
	if r3.Norm(dir) > 0 {
		dir = r3.Unit(dir)
	}
	a.state.Ball.LinearVelocity = r3.Add(r3.Scale(hitSpeed, dir), r3.Vec{Z: pop})
	player.BallTouched = true
}

func (a *arenaEnv) moveBall() bool {
	ball := &a.state.Ball
	ball.LinearVelocity.Z += gravityZ * stepSeconds
	if speed := r3.Norm(ball.LinearVelocity); speed > game.BallMaxSpeed {
		ball.LinearVelocity = r3.Scale(game.BallMaxSpeed/speed, ball.LinearVelocity)
	}
	ball.Position = r3.Add(ball.Position, r3.Scale(stepSeconds, ball.LinearVelocity))

	pos, vel := &ball.Position, &ball.LinearVelocity
	if pos.Z < game.BallRadius {
		pos.Z = game.BallRadius
		vel.Z = math.Abs(vel.Z) * ballRestitution
	}
	if ceiling := game.CeilingZ - game.BallRadius; pos.Z > ceiling {
		pos.Z = ceiling
		vel.Z = -math.Abs(vel.Z) * ballRestitution
	}
	if side := game.SideWallX - game.BallRadius; math.Abs(pos.X) > side {
		pos.X = math.Copysign(side, pos.X)
		vel.X = -vel.X * ballRestitution
	}
	if back := game.BackWallY - game.BallRadius; math.Abs(pos.Y) > back {
		if math.Abs(pos.X) < game.GoalHalfWidth && pos.Z < game.GoalHeight {
			if pos.Y > 0 {
				a.state.BlueScore++
			} else {
				a.state.OrangeScore++
			}
			return true
		}
		pos.Y = math.Copysign(back, pos.Y)
		vel.Y = -vel.Y * ballRestitution
	}
	return false
}

func (a *arenaEnv) uniform(lo, hi float64) float64 {
	return lo + a.rng.Float64()*(hi-lo)
}
