package events

import (
	"time"

	"github.com/mitchelldurbincs/tictactoe/internal/game/core"
	"github.com/mitchelldurbincs/tictactoe/internal/game/rules"
)

// Event type constants
const (
	TypeMatchStarted    = "match.started"
	TypeMatchEnded      = "match.ended"
	TypeRoundStarted    = "round.started"
	TypeRoundEnded      = "round.ended"
	TypeMoveApplied     = "move.applied"
	TypeStateTransition = "state.transition"
)

// Reasons a match ends
const (
	EndReasonWinningScore = "winning_score"
	EndReasonDeclined     = "declined"
	EndReasonAborted      = "aborted"
)

// EventMetadata locates an event within the match
type EventMetadata struct {
	Round int `json:"round"`
	Turn  int `json:"turn,omitempty"`
}

// MatchStartedEvent is published once, before the first round
type MatchStartedEvent struct {
	BaseEvent
	WinningScore int
}

// NewMatchStartedEvent creates a new MatchStartedEvent
func NewMatchStartedEvent(matchID string, winningScore int) *MatchStartedEvent {
	return &MatchStartedEvent{
		BaseEvent:    newBase(TypeMatchStarted, matchID),
		WinningScore: winningScore,
	}
}

// RoundStartedEvent is published after the board is reset and the first mover chosen
type RoundStartedEvent struct {
	BaseEvent
	Metadata   EventMetadata
	FirstMover core.Role
}

// NewRoundStartedEvent creates a new RoundStartedEvent
func NewRoundStartedEvent(matchID string, round int, firstMover core.Role) *RoundStartedEvent {
	return &RoundStartedEvent{
		BaseEvent:  newBase(TypeRoundStarted, matchID),
		Metadata:   EventMetadata{Round: round},
		FirstMover: firstMover,
	}
}

// MoveAppliedEvent is published after a mark lands on the board
type MoveAppliedEvent struct {
	BaseEvent
	Metadata EventMetadata
	Role     core.Role
	Position core.Position
	// Tier names the heuristic rule behind a computer move; empty for human moves
	Tier  string
	Board string
}

// NewMoveAppliedEvent creates a new MoveAppliedEvent
func NewMoveAppliedEvent(matchID string, round, turn int, role core.Role, pos core.Position, tier string, board *core.Board) *MoveAppliedEvent {
	return &MoveAppliedEvent{
		BaseEvent: newBase(TypeMoveApplied, matchID),
		Metadata:  EventMetadata{Round: round, Turn: turn},
		Role:      role,
		Position:  pos,
		Tier:      tier,
		Board:     board.String(),
	}
}

// RoundEndedEvent is published when a round reaches a win or a tie
type RoundEndedEvent struct {
	BaseEvent
	Metadata      EventMetadata
	Outcome       rules.Outcome
	HumanScore    int
	ComputerScore int
	Board         string
}

// NewRoundEndedEvent creates a new RoundEndedEvent
func NewRoundEndedEvent(matchID string, round, turns int, outcome rules.Outcome, humanScore, computerScore int, board *core.Board) *RoundEndedEvent {
	return &RoundEndedEvent{
		BaseEvent:     newBase(TypeRoundEnded, matchID),
		Metadata:      EventMetadata{Round: round, Turn: turns},
		Outcome:       outcome,
		HumanScore:    humanScore,
		ComputerScore: computerScore,
		Board:         board.String(),
	}
}

// MatchEndedEvent is published once when the match stops, for whatever reason
type MatchEndedEvent struct {
	BaseEvent
	// Winner is valid only when HasWinner is true
	Winner        core.Role
	HasWinner     bool
	Reason        string
	Rounds        int
	HumanScore    int
	ComputerScore int
	Duration      time.Duration
}

// NewMatchEndedEvent creates a new MatchEndedEvent
func NewMatchEndedEvent(matchID string, winner core.Role, hasWinner bool, reason string, rounds, humanScore, computerScore int, duration time.Duration) *MatchEndedEvent {
	return &MatchEndedEvent{
		BaseEvent:     newBase(TypeMatchEnded, matchID),
		Winner:        winner,
		HasWinner:     hasWinner,
		Reason:        reason,
		Rounds:        rounds,
		HumanScore:    humanScore,
		ComputerScore: computerScore,
		Duration:      duration,
	}
}

// StateTransitionEvent is published when the match phase changes
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(matchID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, matchID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
