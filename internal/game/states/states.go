package states

import (
	"fmt"
	"time"
)

// InitializingState is the phase before the first round
type InitializingState struct{}

func NewInitializingState() State {
	return &InitializingState{}
}

func (s *InitializingState) Phase() MatchPhase {
	return PhaseInitializing
}

func (s *InitializingState) Enter(ctx *MatchContext) error {
	ctx.Logger.Debug().Msg("Entering Initializing state")
	return nil
}

func (s *InitializingState) Exit(ctx *MatchContext) error {
	ctx.Logger.Debug().Msg("Exiting Initializing state")
	return nil
}

func (s *InitializingState) Validate(ctx *MatchContext) error {
	return nil
}

// RoundInProgressState represents active play on a board
type RoundInProgressState struct{}

func NewRoundInProgressState() State {
	return &RoundInProgressState{}
}

func (s *RoundInProgressState) Phase() MatchPhase {
	return PhaseRoundInProgress
}

func (s *RoundInProgressState) Enter(ctx *MatchContext) error {
	now := time.Now()
	if ctx.StartTime.IsZero() {
		ctx.StartTime = now
	}
	ctx.RoundStartTime = now
	ctx.Logger.Info().
		Int("round", ctx.Round).
		Int("human_score", ctx.HumanScore).
		Int("computer_score", ctx.ComputerScore).
		Msg("Round started")
	return nil
}

func (s *RoundInProgressState) Exit(ctx *MatchContext) error {
	ctx.Logger.Debug().
		Int("round", ctx.Round).
		Dur("round_duration", time.Since(ctx.RoundStartTime)).
		Msg("Leaving round")
	return nil
}

func (s *RoundInProgressState) Validate(ctx *MatchContext) error {
	if ctx.WinningScore < 1 {
		return fmt.Errorf("winning score must be at least 1, got %d", ctx.WinningScore)
	}
	if ctx.ScoreReached() {
		return fmt.Errorf("cannot start round %d: winning score %d already reached", ctx.Round, ctx.WinningScore)
	}
	return nil
}

// RoundOverState is entered after a win or tie has been scored
type RoundOverState struct{}

func NewRoundOverState() State {
	return &RoundOverState{}
}

func (s *RoundOverState) Phase() MatchPhase {
	return PhaseRoundOver
}

func (s *RoundOverState) Enter(ctx *MatchContext) error {
	ctx.Logger.Info().
		Int("round", ctx.Round).
		Int("human_score", ctx.HumanScore).
		Int("computer_score", ctx.ComputerScore).
		Msg("Round over")
	return nil
}

func (s *RoundOverState) Exit(ctx *MatchContext) error {
	return nil
}

func (s *RoundOverState) Validate(ctx *MatchContext) error {
	if ctx.RoundStartTime.IsZero() {
		return fmt.Errorf("no round has been started")
	}
	return nil
}

// MatchOverState is the terminal phase
type MatchOverState struct{}

func NewMatchOverState() State {
	return &MatchOverState{}
}

func (s *MatchOverState) Phase() MatchPhase {
	return PhaseMatchOver
}

func (s *MatchOverState) Enter(ctx *MatchContext) error {
	ctx.EndTime = time.Now()
	ctx.Logger.Info().
		Int("rounds", ctx.Round).
		Int("human_score", ctx.HumanScore).
		Int("computer_score", ctx.ComputerScore).
		Dur("match_duration", ctx.GetElapsedTime()).
		Msg("Match over")
	return nil
}

func (s *MatchOverState) Exit(ctx *MatchContext) error {
	return fmt.Errorf("match %s is over", ctx.MatchID)
}

func (s *MatchOverState) Validate(ctx *MatchContext) error {
	return nil
}
