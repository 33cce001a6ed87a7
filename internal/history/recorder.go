package history

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/tictactoe/internal/game/events"
)

// writeTimeout bounds a single history write
const writeTimeout = 5 * time.Second

// Recorder is an event subscriber that assembles a Record from match events and
// writes it to the store when the match ends.
type Recorder struct {
	store  Store
	logger zerolog.Logger

	mu      sync.Mutex
	current *Record
	last    *Record
	lastErr error
}

var _ events.Subscriber = (*Recorder)(nil)

// NewRecorder creates a recorder writing to store
func NewRecorder(store Store, logger zerolog.Logger) *Recorder {
	return &Recorder{
		store:  store,
		logger: logger.With().Str("component", "history_recorder").Logger(),
	}
}

func (r *Recorder) ID() string {
	return "history_recorder"
}

func (r *Recorder) InterestedIn(eventType string) bool {
	switch eventType {
	case events.TypeMatchStarted, events.TypeRoundStarted, events.TypeMoveApplied,
		events.TypeRoundEnded, events.TypeMatchEnded:
		return true
	default:
		return false
	}
}

func (r *Recorder) HandleEvent(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e := event.(type) {
	case *events.MatchStartedEvent:
		r.current = &Record{
			MatchID:      e.MatchID(),
			StartedAt:    e.Timestamp(),
			WinningScore: e.WinningScore,
		}

	case *events.RoundStartedEvent:
		if rec := r.recordFor(e); rec != nil {
			rec.Rounds = append(rec.Rounds, RoundRecord{
				Index:      e.Metadata.Round,
				FirstMover: e.FirstMover.String(),
			})
		}

	case *events.MoveAppliedEvent:
		if rr := r.roundFor(e, e.Metadata.Round); rr != nil {
			rr.Moves = append(rr.Moves, int(e.Position))
		}

	case *events.RoundEndedEvent:
		if rr := r.roundFor(e, e.Metadata.Round); rr != nil {
			rr.Outcome = e.Outcome.String()
			rr.Board = e.Board
		}

	case *events.MatchEndedEvent:
		rec := r.recordFor(e)
		if rec == nil {
			return
		}
		rec.EndedAt = e.Timestamp()
		rec.HumanScore = e.HumanScore
		rec.ComputerScore = e.ComputerScore
		rec.EndReason = e.Reason
		if e.HasWinner {
			rec.Winner = e.Winner.String()
		}
		r.flush(rec)
	}
}

// recordFor returns the record in progress if it belongs to the event's match
func (r *Recorder) recordFor(e events.Event) *Record {
	if r.current == nil || r.current.MatchID != e.MatchID() {
		r.logger.Warn().
			Str("event_type", e.Type()).
			Str("match_id", e.MatchID()).
			Msg("Event for unknown match")
		return nil
	}
	return r.current
}

func (r *Recorder) roundFor(e events.Event, index int) *RoundRecord {
	rec := r.recordFor(e)
	if rec == nil || len(rec.Rounds) == 0 {
		return nil
	}
	rr := &rec.Rounds[len(rec.Rounds)-1]
	if rr.Index != index {
		return nil
	}
	return rr
}

// flush writes the finished record. Callers hold r.mu.
func (r *Recorder) flush(rec *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	r.current = nil
	r.last = rec
	r.lastErr = r.store.Write(ctx, rec)
	if r.lastErr != nil {
		r.logger.Error().Err(r.lastErr).Str("match_id", rec.MatchID).Msg("Failed to save match history")
		return
	}
	r.logger.Info().
		Str("match_id", rec.MatchID).
		Int("rounds", len(rec.Rounds)).
		Msg("Match history saved")
}

// Last returns the most recently finished record and the error from writing it
func (r *Recorder) Last() (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.lastErr
}
