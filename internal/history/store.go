package history

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var (
	// ErrStoreClosed is returned by operations on a closed store
	ErrStoreClosed = errors.New("history store closed")
	// ErrInvalidStoreType is returned when an unknown store type is specified
	ErrInvalidStoreType = errors.New("invalid history store type")
)

// StoreType selects a history backend
type StoreType string

const (
	// StoreTypeNone disables history
	StoreTypeNone StoreType = "none"
	// StoreTypeFile appends JSON lines to dated files
	StoreTypeFile StoreType = "file"
)

// StoreConfig configures a history store
type StoreConfig struct {
	Type StoreType
	Dir  string
}

// Store persists finished matches
type Store interface {
	// Write appends one record
	Write(ctx context.Context, rec *Record) error

	// Read returns up to limit of the most recent records, oldest first. A limit of
	// zero or less returns everything.
	Read(ctx context.Context, limit int) ([]*Record, error)

	// Close releases the store
	Close() error

	// Stats returns store statistics
	Stats() Stats
}

// Stats contains statistics about store operations
type Stats struct {
	TotalWritten  int64
	TotalRead     int64
	BytesWritten  int64
	WriteErrors   int64
	ReadErrors    int64
	LastWriteTime time.Time
}

// FileStore writes one protojson line per match to <dir>/matches_<yyyymmdd>.jsonl
type FileStore struct {
	fs     afero.Fs
	dir    string
	logger zerolog.Logger

	mu     sync.RWMutex
	stats  Stats
	closed bool
}

// NewFileStore creates the directory if needed
func NewFileStore(fs afero.Fs, dir string, logger zerolog.Logger) (*FileStore, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &FileStore{
		fs:     fs,
		dir:    dir,
		logger: logger.With().Str("component", "history_store").Str("dir", dir).Logger(),
	}, nil
}

// Write appends rec to the file for the day the match ended
func (s *FileStore) Write(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	pb, err := rec.ToProto()
	if err != nil {
		s.stats.WriteErrors++
		return fmt.Errorf("failed to convert record: %w", err)
	}
	data, err := protojson.Marshal(pb)
	if err != nil {
		s.stats.WriteErrors++
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	day := rec.EndedAt
	if day.IsZero() {
		day = time.Now()
	}
	filename := filepath.Join(s.dir, fmt.Sprintf("matches_%s.jsonl", day.UTC().Format("20060102")))

	file, err := s.fs.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		s.stats.WriteErrors++
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	n, err := file.Write(append(data, '\n'))
	if err != nil {
		s.stats.WriteErrors++
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := file.Sync(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to sync file")
	}

	s.stats.TotalWritten++
	s.stats.BytesWritten += int64(n)
	s.stats.LastWriteTime = time.Now()

	s.logger.Debug().
		Str("match_id", rec.MatchID).
		Str("file", filename).
		Msg("Wrote match record")
	return nil
}

// Read loads records from every history file. Unreadable lines are skipped.
func (s *FileStore) Read(ctx context.Context, limit int) ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	files, err := afero.Glob(s.fs, filepath.Join(s.dir, "matches_*.jsonl"))
	if err != nil {
		s.stats.ReadErrors++
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	sort.Strings(files)

	var records []*Record
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := s.readFile(file)
		if err != nil {
			s.stats.ReadErrors++
			s.logger.Warn().Err(err).Str("file", file).Msg("Failed to read history file")
			continue
		}
		records = append(records, recs...)
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	s.stats.TotalRead += int64(len(records))
	return records, nil
}

func (s *FileStore) readFile(filename string) ([]*Record, error) {
	file, err := s.fs.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var records []*Record
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var pb structpb.Struct
		if err := protojson.Unmarshal(line, &pb); err != nil {
			s.stats.ReadErrors++
			s.logger.Warn().Err(err).Str("file", filename).Msg("Skipping malformed history line")
			continue
		}
		rec, err := RecordFromProto(&pb)
		if err != nil {
			s.stats.ReadErrors++
			s.logger.Warn().Err(err).Str("file", filename).Msg("Skipping invalid history record")
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return records, nil
}

// Close marks the store closed. Files are opened per write, so nothing stays open.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// Stats returns store statistics
func (s *FileStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// NullStore discards records
type NullStore struct{}

func (n *NullStore) Write(ctx context.Context, rec *Record) error { return nil }

func (n *NullStore) Read(ctx context.Context, limit int) ([]*Record, error) { return nil, nil }

func (n *NullStore) Close() error { return nil }

func (n *NullStore) Stats() Stats { return Stats{} }

// NewStore creates a store based on configuration
func NewStore(cfg StoreConfig, fs afero.Fs, logger zerolog.Logger) (Store, error) {
	switch cfg.Type {
	case StoreTypeNone, "":
		return &NullStore{}, nil
	case StoreTypeFile:
		return NewFileStore(fs, cfg.Dir, logger)
	default:
		return nil, ErrInvalidStoreType
	}
}

// Summary tallies match results from the human's point of view
type Summary struct {
	Matches int
	Wins    int
	Losses  int
}

// Summarize counts wins and losses over records. Matches without a winner count
// toward Matches only.
func Summarize(records []*Record) Summary {
	var sum Summary
	for _, r := range records {
		sum.Matches++
		switch r.Winner {
		case "human":
			sum.Wins++
		case "computer":
			sum.Losses++
		}
	}
	return sum
}
