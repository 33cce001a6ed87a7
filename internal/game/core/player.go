package core

import "fmt"

// Role tells the engine how a player's moves are obtained.
type Role int

const (
	RoleHuman Role = iota
	RoleComputer
)

func (r Role) String() string {
	switch r {
	case RoleHuman:
		return "human"
	case RoleComputer:
		return "computer"
	default:
		return fmt.Sprintf("Unknown(%d)", int(r))
	}
}

// Other returns the opposing role
func (r Role) Other() Role {
	if r == RoleHuman {
		return RoleComputer
	}
	return RoleHuman
}

// Player is one side of the match. Score survives across rounds and only grows.
type Player struct {
	Role   Role
	Marker Mark
	Score  int
}

// NewHuman creates the human player, who plays X
func NewHuman() *Player {
	return &Player{Role: RoleHuman, Marker: X}
}

// NewComputer creates the computer player, who plays O
func NewComputer() *Player {
	return &Player{Role: RoleComputer, Marker: O}
}

// AddPoint records a round win
func (p *Player) AddPoint() { p.Score++ }
