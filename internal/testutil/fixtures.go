package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/tictactoe/internal/game/core"
	"github.com/mitchelldurbincs/tictactoe/internal/game/events"
)

// MustParseBoard builds a board from its compact form, e.g. "XO.|.X.|..O"
func MustParseBoard(t testing.TB, s string) *core.Board {
	t.Helper()
	b, err := core.ParseBoard(s)
	require.NoError(t, err)
	return b
}

// NewPlayers returns a fresh human (X) and computer (O)
func NewPlayers() (*core.Player, *core.Player) {
	return core.NewHuman(), core.NewComputer()
}

// EventRecorder is a subscriber that keeps every event it receives
type EventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

func (r *EventRecorder) ID() string { return "test_recorder" }

func (r *EventRecorder) InterestedIn(string) bool { return true }

func (r *EventRecorder) HandleEvent(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything recorded so far
func (r *EventRecorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types lists recorded event types in delivery order
func (r *EventRecorder) Types() []string {
	evs := r.Events()
	types := make([]string, len(evs))
	for i, e := range evs {
		types[i] = e.Type()
	}
	return types
}

// OfType returns recorded events of one type
func (r *EventRecorder) OfType(eventType string) []events.Event {
	var out []events.Event
	for _, e := range r.Events() {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}
