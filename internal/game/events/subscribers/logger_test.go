package subscribers_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/tictactoe/internal/game/core"
	"github.com/mitchelldurbincs/tictactoe/internal/game/events"
	"github.com/mitchelldurbincs/tictactoe/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/tictactoe/internal/game/rules"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestLoggerSubscriber(t *testing.T) {
	logSub := subscribers.NewLoggerSubscriber("test-logger", zerolog.Nop(), zerolog.InfoLevel)

	assert.Equal(t, "test-logger", logSub.ID())
	assert.True(t, logSub.InterestedIn(events.TypeMatchStarted))
	assert.True(t, logSub.InterestedIn("any.event.type"))
}

func TestLoggerSubscriberEventLogging(t *testing.T) {
	board, err := core.ParseBoard("XXX|OO.|...")
	require.NoError(t, err)

	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, logLine map[string]interface{})
	}{
		{
			name:  "MatchStartedEvent",
			event: events.NewMatchStartedEvent("match-1", 3),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(3), logLine["winning_score"])
			},
		},
		{
			name:  "MoveAppliedEvent",
			event: events.NewMoveAppliedEvent("match-1", 1, 4, core.RoleComputer, 5, "center", board),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "computer", logLine["role"])
				assert.Equal(t, float64(5), logLine["position"])
				assert.Equal(t, "center", logLine["tier"])
				assert.Equal(t, "XXX|OO.|...", logLine["board"])
			},
		},
		{
			name:  "RoundEndedEvent",
			event: events.NewRoundEndedEvent("match-1", 1, 5, rules.OutcomeHumanWin, 2, 1, board),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "human_win", logLine["outcome"])
				assert.Equal(t, float64(2), logLine["human_score"])
				assert.Equal(t, float64(1), logLine["computer_score"])
			},
		},
		{
			name:  "MatchEndedEvent",
			event: events.NewMatchEndedEvent("match-1", core.RoleHuman, true, events.EndReasonWinningScore, 4, 3, 1, 0),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "human", logLine["winner"])
				assert.Equal(t, "winning_score", logLine["reason"])
			},
		},
		{
			name:  "StateTransitionEvent",
			event: events.NewStateTransitionEvent("match-1", "RoundInProgress", "RoundOver", "human won"),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "RoundOver", logLine["to_phase"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logSub := subscribers.NewLoggerSubscriber("event-logger", zerolog.New(&buf), zerolog.InfoLevel)

			logSub.HandleEvent(tc.event)

			lines := decodeLines(t, &buf)
			require.Len(t, lines, 1)
			assert.Equal(t, "Match event", lines[0]["message"])
			assert.Equal(t, "match-1", lines[0]["match_id"])
			assert.Equal(t, "info", lines[0]["level"])
			tc.check(t, lines[0])
		})
	}
}

func TestLoggerSubscriberFilter(t *testing.T) {
	logSub := subscribers.NewLoggerSubscriber("filtered", zerolog.Nop(), zerolog.DebugLevel)
	logSub.SetEventFilter([]string{events.TypeRoundEnded})

	assert.True(t, logSub.InterestedIn(events.TypeRoundEnded))
	assert.False(t, logSub.InterestedIn(events.TypeMoveApplied))

	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeMoveApplied))
}

func TestLoggerSubscriberDevMode(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("dev", zerolog.New(&buf), zerolog.WarnLevel)
	logSub.SetDevMode(true)

	logSub.HandleEvent(events.NewMatchStartedEvent("match-2", 5))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "warn", lines[0]["level"])
	data, ok := lines[0]["event_data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(5), data["WinningScore"])
}

func TestLoggerSubscriberRespectsLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.ErrorLevel)
	logSub := subscribers.NewLoggerSubscriber("quiet", logger, zerolog.InfoLevel)

	logSub.HandleEvent(events.NewMatchStartedEvent("match-3", 3))
	assert.Empty(t, buf.String())
}
