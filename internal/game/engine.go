package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/tictactoe/internal/game/core"
	"github.com/mitchelldurbincs/tictactoe/internal/game/events"
	"github.com/mitchelldurbincs/tictactoe/internal/game/rules"
	"github.com/mitchelldurbincs/tictactoe/internal/game/states"
	"github.com/mitchelldurbincs/tictactoe/internal/game/strategy"
)

// ErrPlayerQuit is returned by a UI when the human abandons the match mid-round
var ErrPlayerQuit = errors.New("player quit")

// UI is the console side of a match: it shows progress and supplies the human's
// decisions. ChooseMove must return one of legal or an error.
type UI interface {
	MatchStarting(m *Match)
	RoundStarting(m *Match, r *Round)
	ShowBoard(b *core.Board)
	ChooseMove(ctx context.Context, b *core.Board, legal []core.Position) (core.Position, error)
	RoundFinished(m *Match, r *Round)
	PlayAgain(ctx context.Context) (bool, error)
	MatchFinished(m *Match)
}

// MoveChooser picks the computer's moves
type MoveChooser interface {
	Decide(board *core.Board, human, computer *core.Player) (strategy.Decision, error)
}

// Config holds everything needed to run a match
type Config struct {
	Match    MatchConfig
	UI       UI
	Strategy MoveChooser
	EventBus events.Bus
	Logger   zerolog.Logger
}

// Engine drives a match from the first round to the end, alternating between the
// human's input and the computer's heuristic.
type Engine struct {
	match        *Match
	ui           UI
	strategy     MoveChooser
	eventBus     events.Bus
	stateMachine *states.StateMachine
	logger       zerolog.Logger
	endReason    string
}

// NewEngine validates the configuration and builds a ready-to-run engine
func NewEngine(ctx context.Context, cfg Config) (*Engine, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if cfg.UI == nil {
		return nil, errors.New("engine requires a UI")
	}
	logger := cfg.Logger.With().Str("component", "GameEngine").Logger()

	cfg.Match.Logger = cfg.Logger
	match, err := NewMatch(cfg.Match)
	if err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	logger = logger.With().Str("match_id", match.ID()).Logger()

	if cfg.Strategy == nil {
		cfg.Strategy = strategy.NewComputer(match.rng, cfg.Logger)
	}
	if cfg.EventBus == nil {
		cfg.EventBus = events.NewEventBus(cfg.Logger)
	}

	matchCtx := states.NewMatchContext(match.ID(), match.WinningScore(), cfg.Logger)
	e := &Engine{
		match:        match,
		ui:           cfg.UI,
		strategy:     cfg.Strategy,
		eventBus:     cfg.EventBus,
		stateMachine: states.NewStateMachine(matchCtx, cfg.EventBus),
		logger:       logger,
	}

	logger.Info().
		Int("winning_score", match.WinningScore()).
		Str("first_mover_policy", string(match.policy)).
		Msg("Engine created successfully")
	return e, nil
}

// Run plays rounds until a score reaches the winning score or the human stops.
// Cancelling ctx ends the match as aborted and returns ctx's error. A failure to
// apply a move is an invariant violation and is returned as a *core.GameError
// without finishing the match.
func (e *Engine) Run(ctx context.Context) error {
	if e.match.IsOver() || e.stateMachine.CurrentPhase().IsTerminal() {
		return core.ErrMatchOver
	}

	e.eventBus.Publish(events.NewMatchStartedEvent(e.match.ID(), e.match.WinningScore()))
	e.ui.MatchStarting(e.match)

	for {
		if err := e.playRound(ctx); err != nil {
			return e.abort(err)
		}

		if e.match.ScoreReached() {
			return e.finish(events.EndReasonWinningScore)
		}

		again, err := e.ui.PlayAgain(ctx)
		if err != nil {
			return e.abort(err)
		}
		if !again {
			e.match.Decline()
			return e.finish(events.EndReasonDeclined)
		}
	}
}

func (e *Engine) playRound(ctx context.Context) error {
	round, err := e.match.StartRound()
	if err != nil {
		return core.WrapRoundError(e.match.RoundsPlayed(), e.stateMachine.CurrentPhase().String(), err)
	}

	e.syncContext()
	if err := e.stateMachine.TransitionTo(states.PhaseRoundInProgress, fmt.Sprintf("round %d", round.Index())); err != nil {
		return core.WrapRoundError(round.Index(), e.stateMachine.CurrentPhase().String(), err)
	}
	e.eventBus.Publish(events.NewRoundStartedEvent(e.match.ID(), round.Index(), round.FirstMover()))
	e.ui.RoundStarting(e.match, round)

	for !round.Over() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !e.stateMachine.CurrentPhase().CanReceiveMoves() {
			return core.WrapRoundError(round.Index(), e.stateMachine.CurrentPhase().String(), core.ErrNoRoundActive)
		}

		role, turn := round.Turn(), round.TurnNumber()
		pos, tier, err := e.nextMove(ctx, round)
		if err != nil {
			return err
		}

		if !rules.IsLegalMove(round.Board(), pos) {
			cause := core.ErrCellOccupied
			if !pos.IsValid() {
				cause = core.ErrInvalidPosition
			}
			return core.NewGameError(round.Index(), turn, role, "validate move", core.WrapMoveError(role, pos, cause))
		}
		if err := round.Apply(pos); err != nil {
			return core.NewGameError(round.Index(), turn, role, "apply move", err)
		}

		e.logger.Debug().
			Int("round", round.Index()).
			Int("turn", turn).
			Str("role", role.String()).
			Int("position", int(pos)).
			Str("tier", tier).
			Str("board", round.Board().String()).
			Msg("Move applied")
		e.eventBus.Publish(events.NewMoveAppliedEvent(e.match.ID(), round.Index(), turn, role, pos, tier, round.Board()))
	}

	outcome, err := e.match.FinishRound()
	if err != nil {
		return core.WrapRoundError(round.Index(), e.stateMachine.CurrentPhase().String(), err)
	}

	e.syncContext()
	if err := e.stateMachine.TransitionTo(states.PhaseRoundOver, outcome.String()); err != nil {
		return core.WrapRoundError(round.Index(), e.stateMachine.CurrentPhase().String(), err)
	}
	e.eventBus.Publish(events.NewRoundEndedEvent(
		e.match.ID(),
		round.Index(),
		len(round.Moves()),
		outcome,
		e.match.Human().Score,
		e.match.Computer().Score,
		round.Board(),
	))
	e.ui.RoundFinished(e.match, round)
	return nil
}

// nextMove asks whoever's turn it is for a cell
func (e *Engine) nextMove(ctx context.Context, round *Round) (core.Position, string, error) {
	switch round.Turn() {
	case core.RoleHuman:
		e.ui.ShowBoard(round.Board())
		pos, err := e.ui.ChooseMove(ctx, round.Board(), round.LegalMoves())
		if err != nil {
			return core.NoPosition, "", err
		}
		return pos, "", nil

	case core.RoleComputer:
		d, err := e.strategy.Decide(round.Board().Clone(), e.match.Human(), e.match.Computer())
		if err != nil {
			return core.NoPosition, "", core.NewGameError(round.Index(), round.TurnNumber(), core.RoleComputer, "choose move", err)
		}
		return d.Position, string(d.Tier), nil

	default:
		return core.NoPosition, "", fmt.Errorf("unknown role %s", round.Turn())
	}
}

// abort ends the match when the human quits or ctx is cancelled. Any other error
// is returned as is.
func (e *Engine) abort(err error) error {
	quit := errors.Is(err, ErrPlayerQuit)
	cancelled := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	if !quit && !cancelled {
		e.logger.Error().Err(err).Msg("Match stopped by error")
		return err
	}

	e.match.Decline()
	if finishErr := e.finish(events.EndReasonAborted); finishErr != nil {
		return finishErr
	}
	if quit {
		return nil
	}
	return err
}

func (e *Engine) finish(reason string) error {
	e.endReason = reason
	e.syncContext()
	if err := e.stateMachine.TransitionTo(states.PhaseMatchOver, reason); err != nil {
		return fmt.Errorf("finish match: %w", err)
	}

	winner, hasWinner := e.match.Winner()
	e.eventBus.Publish(events.NewMatchEndedEvent(
		e.match.ID(),
		winner,
		hasWinner,
		reason,
		e.match.RoundsPlayed(),
		e.match.Human().Score,
		e.match.Computer().Score,
		e.match.Duration(),
	))
	e.ui.MatchFinished(e.match)

	e.logger.Info().
		Str("reason", reason).
		Bool("has_winner", hasWinner).
		Str("winner", winner.String()).
		Int("rounds", e.match.RoundsPlayed()).
		Int("rounds_completed", e.stateMachine.RoundsCompleted()).
		Msg("Match finished")
	return nil
}

// syncContext copies scores into the state machine's context before a transition
func (e *Engine) syncContext() {
	mc := e.stateMachine.Context()
	mc.Round = e.match.RoundsPlayed()
	mc.HumanScore = e.match.Human().Score
	mc.ComputerScore = e.match.Computer().Score
}

// Match returns the match being played
func (e *Engine) Match() *Match { return e.match }

// Phase returns the current match phase
func (e *Engine) Phase() states.MatchPhase { return e.stateMachine.CurrentPhase() }

// EndReason is empty until the match finishes
func (e *Engine) EndReason() string { return e.endReason }

// EventBus exposes the bus so callers can attach subscribers before Run
func (e *Engine) EventBus() events.Bus { return e.eventBus }
