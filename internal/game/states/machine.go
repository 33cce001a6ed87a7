package states

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mitchelldurbincs/tictactoe/internal/game/events"
)

var (
	// ErrIllegalTransition is returned when the phase graph has no edge to the target
	ErrIllegalTransition = errors.New("illegal phase transition")
	// ErrUnknownPhase is returned when no State is registered for the target phase
	ErrUnknownPhase = errors.New("no state registered for phase")
)

// defaultHistorySize caps the transition log. A match needs two entries per round.
const defaultHistorySize = 256

// State represents a match phase with lifecycle callbacks
type State interface {
	// Phase returns the MatchPhase this state represents
	Phase() MatchPhase

	// Enter is called after the machine has moved into this phase
	Enter(mc *MatchContext) error

	// Exit is called before the machine leaves this phase
	Exit(mc *MatchContext) error

	// Validate decides whether the match may enter this phase right now, e.g. no new
	// round once a score has reached the target
	Validate(mc *MatchContext) error
}

// Transition is one entry of the phase log, with the round and scores as they
// stood when the phase changed.
type Transition struct {
	From          MatchPhase
	To            MatchPhase
	Timestamp     time.Time
	Reason        string
	Round         int
	HumanScore    int
	ComputerScore int
}

// StateMachine walks a match through Initializing, rounds and MatchOver, keeping a
// bounded log and announcing every change on the event bus.
type StateMachine struct {
	mu             sync.RWMutex
	currentPhase   MatchPhase
	states         map[MatchPhase]State
	mc             *MatchContext
	history        []Transition
	maxHistorySize int
	publisher      events.Publisher
}

// NewStateMachine starts in PhaseInitializing. publisher may be nil.
func NewStateMachine(mc *MatchContext, publisher events.Publisher) *StateMachine {
	sm := &StateMachine{
		currentPhase:   PhaseInitializing,
		states:         make(map[MatchPhase]State),
		mc:             mc,
		history:        make([]Transition, 0, 16),
		maxHistorySize: defaultHistorySize,
		publisher:      publisher,
	}

	sm.RegisterState(NewInitializingState())
	sm.RegisterState(NewRoundInProgressState())
	sm.RegisterState(NewRoundOverState())
	sm.RegisterState(NewMatchOverState())

	return sm
}

// RegisterState installs or replaces the State for its phase
func (sm *StateMachine) RegisterState(state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[state.Phase()] = state
}

// CurrentPhase returns the current match phase
func (sm *StateMachine) CurrentPhase() MatchPhase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase
}

// TransitionTo moves the match to target. The phase is unchanged when the edge is
// illegal, the target rejects the match context, or entering it fails.
func (sm *StateMachine) TransitionTo(target MatchPhase, reason string) error {
	sm.mu.Lock()

	from := sm.currentPhase
	if !from.CanTransitionTo(target) {
		sm.mu.Unlock()
		return fmt.Errorf("%s -> %s: %w", from, target, ErrIllegalTransition)
	}

	targetState, ok := sm.states[target]
	if !ok {
		sm.mu.Unlock()
		return fmt.Errorf("%s: %w", target, ErrUnknownPhase)
	}

	if err := targetState.Validate(sm.mc); err != nil {
		sm.mu.Unlock()
		return fmt.Errorf("cannot enter %s: %w", target, err)
	}

	if current, ok := sm.states[from]; ok {
		if err := current.Exit(sm.mc); err != nil {
			// the match moves on; a failed exit only loses bookkeeping
			sm.mc.Logger.Warn().
				Err(err).
				Str("phase", from.String()).
				Int("round", sm.mc.Round).
				Msg("Leaving match phase failed")
		}
	}

	sm.currentPhase = target
	if err := targetState.Enter(sm.mc); err != nil {
		sm.currentPhase = from
		sm.mu.Unlock()
		return fmt.Errorf("enter %s: %w", target, err)
	}

	t := Transition{
		From:          from,
		To:            target,
		Timestamp:     time.Now(),
		Reason:        reason,
		Round:         sm.mc.Round,
		HumanScore:    sm.mc.HumanScore,
		ComputerScore: sm.mc.ComputerScore,
	}
	sm.addToHistory(t)

	sm.mc.Logger.Debug().
		Str("from_phase", from.String()).
		Str("to_phase", target.String()).
		Str("reason", reason).
		Int("round", t.Round).
		Int("human_score", t.HumanScore).
		Int("computer_score", t.ComputerScore).
		Msg("Match phase changed")

	matchID := sm.mc.MatchID
	sm.mu.Unlock()

	// publish outside the lock so subscribers may query the machine
	if sm.publisher != nil {
		sm.publisher.Publish(events.NewStateTransitionEvent(matchID, from.String(), target.String(), reason))
	}

	return nil
}

func (sm *StateMachine) addToHistory(t Transition) {
	sm.history = append(sm.history, t)

	if len(sm.history) > sm.maxHistorySize {
		sm.history = sm.history[len(sm.history)-sm.maxHistorySize:]
	}
}

// History returns a copy of the phase log, oldest first
func (sm *StateMachine) History() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	history := make([]Transition, len(sm.history))
	copy(history, sm.history)
	return history
}

// RoundsCompleted counts the rounds that reached PhaseRoundOver in the log
func (sm *StateMachine) RoundsCompleted() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	n := 0
	for _, t := range sm.history {
		if t.To == PhaseRoundOver {
			n++
		}
	}
	return n
}

// Context returns the match context the states consult
func (sm *StateMachine) Context() *MatchContext {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.mc
}

// CanTransitionTo reports whether the phase graph allows moving to target now
func (sm *StateMachine) CanTransitionTo(target MatchPhase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase.CanTransitionTo(target)
}
