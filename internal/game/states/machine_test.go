package states

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/tictactoe/internal/game/events"
)

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(e events.Event) {
	p.events = append(p.events, e)
}

func newTestMachine(winningScore int) (*StateMachine, *recordingPublisher) {
	pub := &recordingPublisher{}
	ctx := NewMatchContext("match-1", winningScore, zerolog.Nop())
	return NewStateMachine(ctx, pub), pub
}

func TestMatchPhase_String(t *testing.T) {
	tests := []struct {
		phase    MatchPhase
		expected string
	}{
		{PhaseInitializing, "Initializing"},
		{PhaseRoundInProgress, "RoundInProgress"},
		{PhaseRoundOver, "RoundOver"},
		{PhaseMatchOver, "MatchOver"},
		{MatchPhase(42), "Unknown(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.phase.String())
		})
	}
}

func TestMatchPhase_Properties(t *testing.T) {
	assert.True(t, PhaseMatchOver.IsTerminal())
	assert.False(t, PhaseRoundOver.IsTerminal())
	assert.True(t, PhaseRoundInProgress.CanReceiveMoves())
	assert.False(t, PhaseRoundOver.CanReceiveMoves())
	assert.Empty(t, PhaseMatchOver.AllowedTransitions())
}

func TestMatchPhase_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to MatchPhase
		allowed  bool
	}{
		{PhaseInitializing, PhaseRoundInProgress, true},
		{PhaseInitializing, PhaseMatchOver, true},
		{PhaseInitializing, PhaseRoundOver, false},
		{PhaseRoundInProgress, PhaseRoundOver, true},
		{PhaseRoundInProgress, PhaseMatchOver, true},
		{PhaseRoundInProgress, PhaseRoundInProgress, false},
		{PhaseRoundOver, PhaseRoundInProgress, true},
		{PhaseRoundOver, PhaseMatchOver, true},
		{PhaseMatchOver, PhaseRoundInProgress, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStateMachine_FullMatch(t *testing.T) {
	sm, pub := newTestMachine(3)
	ctx := sm.Context()
	assert.Equal(t, PhaseInitializing, sm.CurrentPhase())

	require.NoError(t, sm.TransitionTo(PhaseRoundInProgress, "round 0"))
	assert.False(t, ctx.StartTime.IsZero())

	ctx.HumanScore = 1
	require.NoError(t, sm.TransitionTo(PhaseRoundOver, "human_win"))
	require.NoError(t, sm.TransitionTo(PhaseRoundInProgress, "round 1"))

	ctx.HumanScore = 3
	require.NoError(t, sm.TransitionTo(PhaseRoundOver, "human_win"))
	require.NoError(t, sm.TransitionTo(PhaseMatchOver, "winning_score"))
	assert.True(t, sm.CurrentPhase().IsTerminal())
	assert.False(t, ctx.EndTime.IsZero())

	history := sm.History()
	require.Len(t, history, 5)
	assert.Equal(t, PhaseInitializing, history[0].From)
	assert.Equal(t, PhaseMatchOver, history[4].To)
	assert.Equal(t, "winning_score", history[4].Reason)
	assert.Equal(t, 1, history[2].HumanScore, "scores are captured at each transition")
	assert.Equal(t, 3, history[4].HumanScore)
	assert.Equal(t, 2, sm.RoundsCompleted())

	require.Len(t, pub.events, 5)
	last, ok := pub.events[4].(*events.StateTransitionEvent)
	require.True(t, ok)
	assert.Equal(t, "RoundOver", last.FromPhase)
	assert.Equal(t, "MatchOver", last.ToPhase)
	assert.Equal(t, "match-1", last.MatchID())
}

func TestStateMachine_InvalidTransition(t *testing.T) {
	sm, pub := newTestMachine(3)

	err := sm.TransitionTo(PhaseRoundOver, "skip")
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
	assert.Empty(t, sm.History())
	assert.Empty(t, pub.events)
}

func TestStateMachine_NoRoundAfterWinningScore(t *testing.T) {
	sm, _ := newTestMachine(3)
	require.NoError(t, sm.TransitionTo(PhaseRoundInProgress, "round 0"))
	sm.Context().ComputerScore = 3
	require.NoError(t, sm.TransitionTo(PhaseRoundOver, "computer_win"))

	err := sm.TransitionTo(PhaseRoundInProgress, "round 1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrIllegalTransition, "the edge exists, the context refuses it")
	assert.Equal(t, PhaseRoundOver, sm.CurrentPhase())
	assert.Equal(t, 1, sm.RoundsCompleted())
}

func TestStateMachine_DeclineFromInitializing(t *testing.T) {
	sm, _ := newTestMachine(3)
	require.NoError(t, sm.TransitionTo(PhaseMatchOver, "aborted"))
	assert.False(t, sm.CanTransitionTo(PhaseRoundInProgress))
}

type failingEnterState struct{ RoundOverState }

func (s *failingEnterState) Enter(ctx *MatchContext) error {
	return errors.New("boom")
}

func TestStateMachine_EnterFailureRollsBack(t *testing.T) {
	sm, _ := newTestMachine(3)
	sm.RegisterState(&failingEnterState{})
	require.NoError(t, sm.TransitionTo(PhaseRoundInProgress, "round 0"))

	err := sm.TransitionTo(PhaseRoundOver, "tie")
	assert.Error(t, err)
	assert.Equal(t, PhaseRoundInProgress, sm.CurrentPhase())
	assert.Len(t, sm.History(), 1)
}

func TestStateMachine_NilPublisher(t *testing.T) {
	sm := NewStateMachine(NewMatchContext("m", 1, zerolog.Nop()), nil)
	assert.NoError(t, sm.TransitionTo(PhaseRoundInProgress, "round 0"))
}

func TestStateMachine_HistoryBounded(t *testing.T) {
	sm, _ := newTestMachine(1000)
	sm.maxHistorySize = 4
	require.NoError(t, sm.TransitionTo(PhaseRoundInProgress, "r"))
	for i := 0; i < 5; i++ {
		require.NoError(t, sm.TransitionTo(PhaseRoundOver, "tie"))
		require.NoError(t, sm.TransitionTo(PhaseRoundInProgress, "r"))
	}
	assert.Len(t, sm.History(), 4)
}

func TestMatchContext_ElapsedTime(t *testing.T) {
	ctx := NewMatchContext("m", 3, zerolog.Nop())
	assert.Zero(t, ctx.GetElapsedTime())
	assert.False(t, ctx.ScoreReached())
	ctx.HumanScore = 3
	assert.True(t, ctx.ScoreReached())
}
