// Package sqlite persists accepted activity events and finished-day
// timelines to a local database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"lifeline-backend/application/ports"
	"lifeline-backend/domain/activity"
	"lifeline-backend/domain/timeline"
)

// Store is the sqlite-backed activity log and day archive. The analyzer
// re-derives metrics when a reopened day is merged back into its archive row.
type Store struct {
	db       *sql.DB
	analyzer *timeline.Analyzer
}

var _ ports.ActivityLog = (*Store)(nil)

// Open opens or creates the database at path and applies the schema.
func Open(path string, analyzer *timeline.Analyzer) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, analyzer: analyzer}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS activities (
		id           TEXT PRIMARY KEY,
		timestamp    DATETIME NOT NULL,
		url          TEXT NOT NULL DEFAULT '',
		window_title TEXT NOT NULL DEFAULT '',
		app_name     TEXT NOT NULL DEFAULT '',
		file_path    TEXT NOT NULL DEFAULT '',
		kind         TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS day_archive (
		day         TEXT PRIMARY KEY,
		timeline    TEXT NOT NULL,
		focus_score INTEGER NOT NULL,
		prediction  INTEGER NOT NULL,
		archived_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_activities_timestamp ON activities(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append persists one accepted event.
func (s *Store) Append(ctx context.Context, ev activity.Event) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO activities (id, timestamp, url, window_title, app_name, file_path, kind) VALUES (?, ?, ?, ?, ?, ?, ?)",
		ev.ID(), ev.Timestamp(), ev.URL(), ev.WindowTitle(), ev.AppName(), ev.FilePath(), string(ev.Kind()),
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ArchiveDay stores a finished day's timeline. A late event that reopens a
// day produces a partial snapshot on the next archive pass; that snapshot is
// merged into the stored row so the archive accumulates instead of being
// replaced.
func (s *Store) ArchiveDay(ctx context.Context, t timeline.Timeline) error {
	existing, ok, err := s.ArchivedDay(ctx, t.Day)
	if err != nil {
		return err
	}
	if ok {
		t = existing.Merge(t, s.analyzer)
	}

	payload, err := json.Marshal(t.Hours)
	if err != nil {
		return fmt.Errorf("encode timeline: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO day_archive (day, timeline, focus_score, prediction, archived_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(day) DO UPDATE SET
		   timeline = excluded.timeline,
		   focus_score = excluded.focus_score,
		   prediction = excluded.prediction,
		   archived_at = excluded.archived_at`,
		t.Day, string(payload), t.FocusScore, t.Prediction, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("archive day: %w", err)
	}
	return nil
}

// ArchivedDay loads one archived day, if present.
func (s *Store) ArchivedDay(ctx context.Context, day string) (timeline.Timeline, bool, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT timeline, focus_score, prediction FROM day_archive WHERE day = ?", day)

	var payload string
	var t timeline.Timeline
	t.Day = day
	if err := row.Scan(&payload, &t.FocusScore, &t.Prediction); err != nil {
		if err == sql.ErrNoRows {
			return timeline.Timeline{}, false, nil
		}
		return timeline.Timeline{}, false, fmt.Errorf("load archived day: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &t.Hours); err != nil {
		return timeline.Timeline{}, false, fmt.Errorf("decode archived timeline: %w", err)
	}
	return t, true, nil
}
