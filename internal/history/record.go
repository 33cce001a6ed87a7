package history

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cast"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// RoundRecord summarizes one finished round
type RoundRecord struct {
	Index      int
	FirstMover string
	Outcome    string
	Moves      []int
	Board      string
}

// Record summarizes one match. Winner is empty when the match ended without one.
type Record struct {
	MatchID       string
	StartedAt     time.Time
	EndedAt       time.Time
	WinningScore  int
	HumanScore    int
	ComputerScore int
	Winner        string
	EndReason     string
	Rounds        []RoundRecord
}

// ToProto converts the record to a protobuf Struct for JSON encoding
func (r *Record) ToProto() (*structpb.Struct, error) {
	started, err := encodeTime(r.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("started_at: %w", err)
	}
	ended, err := encodeTime(r.EndedAt)
	if err != nil {
		return nil, fmt.Errorf("ended_at: %w", err)
	}

	rounds := make([]interface{}, 0, len(r.Rounds))
	for _, rr := range r.Rounds {
		moves := make([]interface{}, len(rr.Moves))
		for i, m := range rr.Moves {
			moves[i] = m
		}
		rounds = append(rounds, map[string]interface{}{
			"index":       rr.Index,
			"first_mover": rr.FirstMover,
			"outcome":     rr.Outcome,
			"moves":       moves,
			"board":       rr.Board,
		})
	}

	return structpb.NewStruct(map[string]interface{}{
		"match_id":       r.MatchID,
		"started_at":     started,
		"ended_at":       ended,
		"winning_score":  r.WinningScore,
		"human_score":    r.HumanScore,
		"computer_score": r.ComputerScore,
		"winner":         r.Winner,
		"end_reason":     r.EndReason,
		"rounds":         rounds,
	})
}

// RecordFromProto rebuilds a record from its Struct form
func RecordFromProto(s *structpb.Struct) (*Record, error) {
	m := s.AsMap()

	started, err := decodeTime(cast.ToString(m["started_at"]))
	if err != nil {
		return nil, fmt.Errorf("started_at: %w", err)
	}
	ended, err := decodeTime(cast.ToString(m["ended_at"]))
	if err != nil {
		return nil, fmt.Errorf("ended_at: %w", err)
	}

	rec := &Record{
		MatchID:       cast.ToString(m["match_id"]),
		StartedAt:     started,
		EndedAt:       ended,
		WinningScore:  cast.ToInt(m["winning_score"]),
		HumanScore:    cast.ToInt(m["human_score"]),
		ComputerScore: cast.ToInt(m["computer_score"]),
		Winner:        cast.ToString(m["winner"]),
		EndReason:     cast.ToString(m["end_reason"]),
	}
	if rec.MatchID == "" {
		return nil, fmt.Errorf("record has no match_id")
	}

	for _, raw := range cast.ToSlice(m["rounds"]) {
		rm := cast.ToStringMap(raw)
		rr := RoundRecord{
			Index:      cast.ToInt(rm["index"]),
			FirstMover: cast.ToString(rm["first_mover"]),
			Outcome:    cast.ToString(rm["outcome"]),
			Board:      cast.ToString(rm["board"]),
		}
		for _, mv := range cast.ToSlice(rm["moves"]) {
			rr.Moves = append(rr.Moves, cast.ToInt(mv))
		}
		rec.Rounds = append(rec.Rounds, rr)
	}
	return rec, nil
}

// encodeTime renders t in the protobuf JSON form for Timestamp (RFC 3339, UTC)
func encodeTime(t time.Time) (string, error) {
	if t.IsZero() {
		return "", nil
	}
	b, err := protojson.Marshal(timestamppb.New(t))
	if err != nil {
		return "", err
	}
	return strconv.Unquote(string(b))
}

func decodeTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	var ts timestamppb.Timestamp
	if err := protojson.Unmarshal([]byte(strconv.Quote(s)), &ts); err != nil {
		return time.Time{}, err
	}
	return ts.AsTime(), nil
}
