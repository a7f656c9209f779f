// Package history keeps a SQLite log of canonical colors with the time
// features a schedule predictor trains on.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/scheerer/ambient-lights/internal/color"
	"github.com/scheerer/ambient-lights/internal/logging"
)

var logger = logging.New("history")

// Entry is one row of the usage log.
type Entry struct {
	Time        time.Time
	DayOfYear   int
	DayOfWeek   int // Monday is 0
	SecondOfDay int
	Color       color.Color
	HSV         color.HSV
	RunID       string
}

// NewEntry derives the time features for c recorded at t.
func NewEntry(c color.Color, t time.Time, runID string) Entry {
	return Entry{
		Time:        t,
		DayOfYear:   t.YearDay(),
		DayOfWeek:   (int(t.Weekday()) + 6) % 7,
		SecondOfDay: t.Hour()*3600 + t.Minute()*60 + t.Second(),
		Color:       c,
		HSV:         c.HSV(),
		RunID:       runID,
	}
}

type Store struct {
	db    *sql.DB
	runID string

	last    color.Color
	hasLast bool
}

// Open opens the database and initializes the schema. Each Store gets its own run id.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s := &Store{db: db, runID: uuid.NewString()}
	logger.With(zap.String("path", dbPath), zap.String("run", s.runID)).Info("Usage history opened")
	return s, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS usage_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			day_of_year INTEGER NOT NULL,
			day_of_week INTEGER NOT NULL,
			second_of_day INTEGER NOT NULL,
			color TEXT NOT NULL,
			hue REAL NOT NULL,
			saturation REAL NOT NULL,
			value REAL NOT NULL,
			run_id TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_usage_log_ts ON usage_log(timestamp);
	`)
	if err != nil {
		return fmt.Errorf("failed to create usage_log table: %w", err)
	}
	return nil
}

func (s *Store) RunID() string {
	return s.runID
}

// Record appends c unless it repeats the previous color recorded by this store.
func (s *Store) Record(ctx context.Context, c color.Color, at time.Time) error {
	if s.hasLast && s.last == c {
		return nil
	}

	e := NewEntry(c, at, s.runID)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_log (timestamp, day_of_year, day_of_week, second_of_day, color, hue, saturation, value, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Time.Unix(), e.DayOfYear, e.DayOfWeek, e.SecondOfDay, e.Color.String(), e.HSV.H, e.HSV.S, e.HSV.V, e.RunID)
	if err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}

	s.last, s.hasLast = c, true
	return nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, day_of_year, day_of_week, second_of_day, color, hue, saturation, value, run_id
		FROM usage_log ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e     Entry
			ts    int64
			value string
		)
		if err := rows.Scan(&ts, &e.DayOfYear, &e.DayOfWeek, &e.SecondOfDay, &value, &e.HSV.H, &e.HSV.S, &e.HSV.V, &e.RunID); err != nil {
			return nil, fmt.Errorf("failed to scan usage: %w", err)
		}
		e.Time = time.Unix(ts, 0)
		if e.Color, err = color.Parse(value); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
