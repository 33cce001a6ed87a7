package states

import "fmt"

// MatchPhase is the current stage of a match
type MatchPhase int

const (
	// PhaseInitializing - match created, no round started yet
	PhaseInitializing MatchPhase = iota

	// PhaseRoundInProgress - moves are being played on the current board
	PhaseRoundInProgress

	// PhaseRoundOver - the round ended in a win or tie; scores updated
	PhaseRoundOver

	// PhaseMatchOver - final state
	PhaseMatchOver
)

// String returns the string representation of a MatchPhase
func (p MatchPhase) String() string {
	switch p {
	case PhaseInitializing:
		return "Initializing"
	case PhaseRoundInProgress:
		return "RoundInProgress"
	case PhaseRoundOver:
		return "RoundOver"
	case PhaseMatchOver:
		return "MatchOver"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if no further transitions are possible
func (p MatchPhase) IsTerminal() bool {
	return p == PhaseMatchOver
}

// CanReceiveMoves returns true if marks may be placed in this phase
func (p MatchPhase) CanReceiveMoves() bool {
	return p == PhaseRoundInProgress
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p MatchPhase) AllowedTransitions() []MatchPhase {
	switch p {
	case PhaseInitializing:
		return []MatchPhase{PhaseRoundInProgress, PhaseMatchOver}
	case PhaseRoundInProgress:
		return []MatchPhase{PhaseRoundOver, PhaseMatchOver}
	case PhaseRoundOver:
		return []MatchPhase{PhaseRoundInProgress, PhaseMatchOver}
	default:
		return []MatchPhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p MatchPhase) CanTransitionTo(target MatchPhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}
