package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/tictactoe/internal/game/core"
	"github.com/mitchelldurbincs/tictactoe/internal/game/rules"
)

// DefaultWinningScore is the number of round wins that ends a match
const DefaultWinningScore = 3

var (
	ErrRoundInProgress = errors.New("current round is still in progress")
	ErrRoundNotOver    = errors.New("round has not finished")
	ErrRoundScored     = errors.New("round already scored")
	ErrRoundUnscored   = errors.New("previous round has not been scored")
)

// FirstMoverPolicy decides who opens round 0. Later rounds always alternate.
type FirstMoverPolicy string

const (
	FirstMoverRandom   FirstMoverPolicy = "random"
	FirstMoverHuman    FirstMoverPolicy = "human"
	FirstMoverComputer FirstMoverPolicy = "computer"
)

// ParseFirstMoverPolicy validates a policy name
func ParseFirstMoverPolicy(s string) (FirstMoverPolicy, error) {
	switch p := FirstMoverPolicy(s); p {
	case FirstMoverRandom, FirstMoverHuman, FirstMoverComputer:
		return p, nil
	case "":
		return FirstMoverRandom, nil
	default:
		return FirstMoverRandom, fmt.Errorf("unknown first mover %q (want random, human or computer)", s)
	}
}

// MatchConfig configures a new match
type MatchConfig struct {
	MatchID      string
	WinningScore int
	FirstMover   FirstMoverPolicy
	HumanMarker  core.Mark
	Rng          *rand.Rand
	Logger       zerolog.Logger
}

// Match is a sequence of rounds between the human and the computer that ends when
// either score reaches the winning score or the human declines another round.
type Match struct {
	id           string
	human        *core.Player
	computer     *core.Player
	winningScore int
	policy       FirstMoverPolicy
	rng          *rand.Rand
	logger       zerolog.Logger
	checker      *rules.WinConditionChecker

	round       *Round
	roundsTotal int
	declined    bool
	startedAt   time.Time
}

// NewMatch creates a match with both scores at zero and no round started
func NewMatch(cfg MatchConfig) (*Match, error) {
	if cfg.WinningScore == 0 {
		cfg.WinningScore = DefaultWinningScore
	}
	if cfg.WinningScore < 1 {
		return nil, fmt.Errorf("winning score must be at least 1, got %d", cfg.WinningScore)
	}
	policy, err := ParseFirstMoverPolicy(string(cfg.FirstMover))
	if err != nil {
		return nil, err
	}
	if cfg.MatchID == "" {
		cfg.MatchID = uuid.NewString()
	}
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	human, computer := core.NewHuman(), core.NewComputer()
	switch cfg.HumanMarker {
	case core.Empty, core.X:
	case core.O:
		human.Marker, computer.Marker = core.O, core.X
	default:
		return nil, fmt.Errorf("human marker %d: %w", cfg.HumanMarker, core.ErrInvalidMark)
	}

	logger := cfg.Logger.With().Str("component", "Match").Str("match_id", cfg.MatchID).Logger()
	return &Match{
		id:           cfg.MatchID,
		human:        human,
		computer:     computer,
		winningScore: cfg.WinningScore,
		policy:       policy,
		rng:          cfg.Rng,
		logger:       logger,
		checker:      rules.NewWinConditionChecker(logger),
		startedAt:    time.Now(),
	}, nil
}

// StartRound replaces the board with an empty one and picks the first mover. The
// first round's mover comes from the policy; each later round flips the previous
// round's first mover, regardless of who won.
func (m *Match) StartRound() (*Round, error) {
	if m.IsOver() {
		return nil, core.ErrMatchOver
	}
	if m.round != nil && !m.round.Over() {
		return nil, ErrRoundInProgress
	}
	if m.round != nil && !m.round.scored {
		return nil, ErrRoundUnscored
	}

	var first core.Role
	if m.round == nil {
		first = m.initialFirstMover()
	} else {
		first = m.round.FirstMover().Other()
	}

	m.round = newRound(m.roundsTotal, first, m.human, m.computer, m.checker)
	m.roundsTotal++

	m.logger.Debug().
		Int("round", m.round.Index()).
		Str("first_mover", first.String()).
		Msg("Round started")
	return m.round, nil
}

func (m *Match) initialFirstMover() core.Role {
	switch m.policy {
	case FirstMoverHuman:
		return core.RoleHuman
	case FirstMoverComputer:
		return core.RoleComputer
	default:
		if m.rng.Intn(2) == 0 {
			return core.RoleHuman
		}
		return core.RoleComputer
	}
}

// FinishRound scores the current round: the winner gains a point, a tie changes
// nothing. Each round is scored exactly once.
func (m *Match) FinishRound() (rules.Outcome, error) {
	if m.round == nil {
		return rules.OutcomeNone, core.ErrNoRoundActive
	}
	if !m.round.Over() {
		return rules.OutcomeNone, ErrRoundNotOver
	}
	if m.round.scored {
		return m.round.Outcome(), ErrRoundScored
	}

	outcome := m.round.Outcome()
	if role, ok := outcome.Winner(); ok {
		m.Player(role).AddPoint()
	}
	m.round.scored = true

	m.logger.Info().
		Int("round", m.round.Index()).
		Str("outcome", outcome.String()).
		Int("human_score", m.human.Score).
		Int("computer_score", m.computer.Score).
		Msg("Round scored")
	return outcome, nil
}

// Decline ends the match at the human's request
func (m *Match) Decline() {
	m.declined = true
}

// ScoreReached reports whether either player has reached the winning score
func (m *Match) ScoreReached() bool {
	return m.human.Score >= m.winningScore || m.computer.Score >= m.winningScore
}

// IsOver reports whether no further rounds will be played
func (m *Match) IsOver() bool {
	return m.declined || m.ScoreReached()
}

// Declined reports whether the match ended because the human stopped playing
func (m *Match) Declined() bool { return m.declined }

// Winner returns the role that reached the winning score. A declined match has
// no winner.
func (m *Match) Winner() (core.Role, bool) {
	switch {
	case m.human.Score >= m.winningScore:
		return core.RoleHuman, true
	case m.computer.Score >= m.winningScore:
		return core.RoleComputer, true
	default:
		return core.RoleHuman, false
	}
}

// Player returns the participant with the given role
func (m *Match) Player(role core.Role) *core.Player {
	if role == core.RoleComputer {
		return m.computer
	}
	return m.human
}

// ID is the match's unique identifier
func (m *Match) ID() string { return m.id }

// Human returns the human player
func (m *Match) Human() *core.Player { return m.human }

// Computer returns the computer player
func (m *Match) Computer() *core.Player { return m.computer }

// WinningScore is the number of round wins that ends the match
func (m *Match) WinningScore() int { return m.winningScore }

// CurrentRound returns the latest round, or nil before the first one starts
func (m *Match) CurrentRound() *Round { return m.round }

// RoundsPlayed counts rounds started so far
func (m *Match) RoundsPlayed() int { return m.roundsTotal }

// Duration is the time since the match was created
func (m *Match) Duration() time.Duration { return time.Since(m.startedAt) }

// StartedAt is when the match was created
func (m *Match) StartedAt() time.Time { return m.startedAt }
