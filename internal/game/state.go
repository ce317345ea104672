// Package game holds the arena state handed to reward functions each tick.
package game

import "gonum.org/v1/gonum/spatial/r3"

// Arena geometry in unreal units.
const (
	BallRadius    = 92.75
	BallMaxSpeed  = 6000.0
	CeilingZ      = 2044.0
	SideWallX     = 4096.0
	BackWallY     = 5120.0
	BackNetY      = 6000.0
	GoalHeight    = 642.775
	GoalHalfWidth = 892.755
)

type Team int

const (
	TeamBlue Team = iota
	TeamOrange
)

func (t Team) String() string {
	if t == TeamOrange {
		return "orange"
	}
	return "blue"
}

var (
	// Blue attacks the orange net at +Y.
	OrangeGoalCenter = r3.Vec{X: 0, Y: BackNetY, Z: GoalHeight / 2}
	BlueGoalCenter   = r3.Vec{X: 0, Y: -BackNetY, Z: GoalHeight / 2}
)

type PhysicsObject struct {
	Position       r3.Vec
	LinearVelocity r3.Vec
}

type PlayerData struct {
	CarID       int
	Team        Team
	BallTouched bool
	CarData     PhysicsObject
}

// OpponentGoal returns the centre of the net this player scores into.
func (p *PlayerData) OpponentGoal() r3.Vec {
	if p.Team == TeamOrange {
		return BlueGoalCenter
	}
	return OrangeGoalCenter
}

type GameState struct {
	TickNum     uint64
	Ball        PhysicsObject
	Players     []PlayerData
	BlueScore   int
	OrangeScore int
}

// BallHeight is the ball's vertical position.
func (s *GameState) BallHeight() float32 {
	return float32(s.Ball.Position.Z)
}

// Clone copies the state including the player slice.
func (s *GameState) Clone() *GameState {
	out := *s
	if len(s.Players) > 0 {
		out.Players = make([]PlayerData, len(s.Players))
		copy(out.Players, s.Players)
	}
	return &out
}
