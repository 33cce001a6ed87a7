package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/tictactoe/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("match_id", event.MatchID()).
		Time("event_time", event.Timestamp()).
		Logger()

	logEvent := eventLogger.WithLevel(ls.logLevel)
	if logEvent == nil {
		return
	}

	switch e := event.(type) {
	case *events.MatchStartedEvent:
		logEvent.Int("winning_score", e.WinningScore)

	case *events.RoundStartedEvent:
		logEvent.
			Int("round", e.Metadata.Round).
			Str("first_mover", e.FirstMover.String())

	case *events.MoveAppliedEvent:
		logEvent.
			Int("round", e.Metadata.Round).
			Int("turn", e.Metadata.Turn).
			Str("role", e.Role.String()).
			Int("position", int(e.Position)).
			Str("board", e.Board)
		if e.Tier != "" {
			logEvent.Str("tier", e.Tier)
		}

	case *events.RoundEndedEvent:
		logEvent.
			Int("round", e.Metadata.Round).
			Int("turns", e.Metadata.Turn).
			Str("outcome", e.Outcome.String()).
			Int("human_score", e.HumanScore).
			Int("computer_score", e.ComputerScore).
			Str("board", e.Board)

	case *events.MatchEndedEvent:
		logEvent.
			Str("reason", e.Reason).
			Int("rounds", e.Rounds).
			Int("human_score", e.HumanScore).
			Int("computer_score", e.ComputerScore).
			Dur("duration", e.Duration)
		if e.HasWinner {
			logEvent.Str("winner", e.Winner.String())
		}

	case *events.StateTransitionEvent:
		logEvent.
			Str("from_phase", e.FromPhase).
			Str("to_phase", e.ToPhase).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Match event")
}
