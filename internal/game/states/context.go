package states

import (
	"time"

	"github.com/rs/zerolog"
)

// MatchContext is the match information states consult when validating and
// logging transitions. The match keeps it current before each transition.
type MatchContext struct {
	MatchID string
	Logger  zerolog.Logger

	WinningScore  int
	Round         int
	HumanScore    int
	ComputerScore int

	// StartTime is when the first round began
	StartTime time.Time

	// RoundStartTime is when the current round began
	RoundStartTime time.Time

	// EndTime is when the match reached PhaseMatchOver
	EndTime time.Time
}

// NewMatchContext creates a new match context
func NewMatchContext(matchID string, winningScore int, logger zerolog.Logger) *MatchContext {
	return &MatchContext{
		MatchID:      matchID,
		WinningScore: winningScore,
		Logger:       logger.With().Str("match_id", matchID).Logger(),
	}
}

// ScoreReached reports whether either player has reached the winning score
func (mc *MatchContext) ScoreReached() bool {
	return mc.HumanScore >= mc.WinningScore || mc.ComputerScore >= mc.WinningScore
}

// GetElapsedTime returns the time since the first round started, frozen at match end
func (mc *MatchContext) GetElapsedTime() time.Duration {
	if mc.StartTime.IsZero() {
		return 0
	}
	if !mc.EndTime.IsZero() {
		return mc.EndTime.Sub(mc.StartTime)
	}
	return time.Since(mc.StartTime)
}
