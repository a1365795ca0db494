// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/hifzpace/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrProfileNotFound is returned when no profile matches a lookup.
var ErrProfileNotFound = errors.New("profile not found")

// Store wraps SQLite access for profiles, progress logs and projection snapshots.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			script_lines INTEGER NOT NULL,
			current_juz INTEGER NOT NULL,
			current_page INTEGER NOT NULL,
			lines_per_day REAL NOT NULL,
			active_days INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS progress_logs (
			id INTEGER PRIMARY KEY,
			profile_id TEXT NOT NULL REFERENCES profiles(id),
			logged_at TEXT NOT NULL,
			juz INTEGER NOT NULL,
			page INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY,
			profile_id TEXT NOT NULL REFERENCES profiles(id),
			computed_at TEXT NOT NULL,
			pace REAL NOT NULL,
			finish_date TEXT NOT NULL,
			days_needed INTEGER NOT NULL,
			active_days_needed INTEGER NOT NULL,
			break_days INTEGER NOT NULL,
			progress_pct INTEGER NOT NULL,
			outcome TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_progress_logs_profile ON progress_logs(profile_id, logged_at);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_profile ON snapshots(profile_id, computed_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveProfile inserts a profile or, when one with the same name exists,
// replaces its progress. The stored profile is returned.
func (s *Store) SaveProfile(ctx context.Context, p model.Profile) (model.Profile, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return model.Profile{}, fmt.Errorf("profile name is empty")
	}
	now := s.now().UTC()

	existing, err := s.GetProfile(ctx, name)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		p.ID = uuid.New().String()
		p.Name = name
		p.CreatedAt = now
		p.UpdatedAt = now
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO profiles (id, name, script_lines, current_juz, current_page, lines_per_day, active_days, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name,
			p.Progress.ScriptLinesPerPage,
			p.Progress.CurrentJuz,
			p.Progress.CurrentPage,
			p.Progress.BaseLinesPerDay,
			p.Progress.ActiveDaysPerWeek,
			formatTime(p.CreatedAt),
			formatTime(p.UpdatedAt),
		)
		if err != nil {
			return model.Profile{}, err
		}
		return p, nil
	case err != nil:
		return model.Profile{}, err
	}

	existing.Progress = p.Progress
	existing.UpdatedAt = now
	_, err = s.db.ExecContext(ctx,
		`UPDATE profiles SET script_lines = ?, current_juz = ?, current_page = ?, lines_per_day = ?, active_days = ?, updated_at = ?
		 WHERE id = ?`,
		existing.Progress.ScriptLinesPerPage,
		existing.Progress.CurrentJuz,
		existing.Progress.CurrentPage,
		existing.Progress.BaseLinesPerDay,
		existing.Progress.ActiveDaysPerWeek,
		formatTime(existing.UpdatedAt),
		existing.ID,
	)
	if err != nil {
		return model.Profile{}, err
	}
	return existing, nil
}

// GetProfile looks a profile up by name.
func (s *Store) GetProfile(ctx context.Context, name string) (model.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, script_lines, current_juz, current_page, lines_per_day, active_days, created_at, updated_at
		 FROM profiles WHERE name = ?`, strings.TrimSpace(name))
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	return p, err
}

// ListProfiles returns all profiles ordered by name.
func (s *Store) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, script_lines, current_juz, current_page, lines_per_day, active_days, created_at, updated_at
		 FROM profiles ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var profiles []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// LogProgress records a new position for a profile and moves the profile's
// current position to it.
func (s *Store) LogProgress(ctx context.Context, profileID string, juz, page int, at time.Time) (entry model.ProgressLog, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ProgressLog{}, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE profiles SET current_juz = ?, current_page = ?, updated_at = ? WHERE id = ?`,
		juz, page, formatTime(s.now().UTC()), profileID)
	if err != nil {
		return model.ProgressLog{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.ProgressLog{}, err
	}
	if n == 0 {
		err = fmt.Errorf("%w: id %s", ErrProfileNotFound, profileID)
		return model.ProgressLog{}, err
	}

	res, err = tx.ExecContext(ctx,
		`INSERT INTO progress_logs (profile_id, logged_at, juz, page) VALUES (?, ?, ?, ?)`,
		profileID, formatTime(at), juz, page)
	if err != nil {
		return model.ProgressLog{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ProgressLog{}, err
	}
	if err = tx.Commit(); err != nil {
		return model.ProgressLog{}, err
	}
	return model.ProgressLog{ID: id, ProfileID: profileID, LoggedAt: at, Juz: juz, Page: page}, nil
}

// ListProgress returns a profile's logged positions in chronological order.
// A non-nil since keeps only entries at or after it.
func (s *Store) ListProgress(ctx context.Context, profileID string, since *time.Time) ([]model.ProgressLog, error) {
	clauses := []string{"profile_id = ?"}
	args := []any{profileID}
	if since != nil {
		clauses = append(clauses, "logged_at >= ?")
		args = append(args, formatTime(*since))
	}
	query := fmt.Sprintf(`SELECT id, profile_id, logged_at, juz, page
		FROM progress_logs
		WHERE %s
		ORDER BY logged_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var logs []model.ProgressLog
	for rows.Next() {
		var l model.ProgressLog
		var loggedAt string
		if err := rows.Scan(&l.ID, &l.ProfileID, &loggedAt, &l.Juz, &l.Page); err != nil {
			return nil, err
		}
		if l.LoggedAt, err = parseTime(loggedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// InsertSnapshot stores the outcome of a projection run.
func (s *Store) InsertSnapshot(ctx context.Context, snap model.Snapshot) (int64, error) {
	finish := ""
	if !snap.FinishDate.IsZero() {
		finish = formatTime(snap.FinishDate)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (profile_id, computed_at, pace, finish_date, days_needed, active_days_needed, break_days, progress_pct, outcome)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ProfileID,
		formatTime(snap.ComputedAt),
		snap.Pace,
		finish,
		snap.DaysNeeded,
		snap.ActiveDaysNeeded,
		snap.BreakDays,
		snap.ProgressPercent,
		string(snap.Outcome),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSnapshots returns a profile's snapshots in chronological order. When
// last > 0 only the most recent last snapshots are returned.
func (s *Store) ListSnapshots(ctx context.Context, profileID string, last int) ([]model.Snapshot, error) {
	query := `SELECT id, profile_id, computed_at, pace, finish_date, days_needed, active_days_needed, break_days, progress_pct, outcome
		FROM snapshots WHERE profile_id = ?
		ORDER BY computed_at ASC, id ASC`
	args := []any{profileID}
	if last > 0 {
		query = `SELECT * FROM (
			SELECT id, profile_id, computed_at, pace, finish_date, days_needed, active_days_needed, break_days, progress_pct, outcome
			FROM snapshots WHERE profile_id = ?
			ORDER BY computed_at DESC, id DESC
			LIMIT ?
		) ORDER BY computed_at ASC, id ASC`
		args = append(args, last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var snaps []model.Snapshot
	for rows.Next() {
		var snap model.Snapshot
		var computedAt, finish, outcome string
		if err := rows.Scan(&snap.ID, &snap.ProfileID, &computedAt, &snap.Pace, &finish,
			&snap.DaysNeeded, &snap.ActiveDaysNeeded, &snap.BreakDays, &snap.ProgressPercent, &outcome); err != nil {
			return nil, err
		}
		if snap.ComputedAt, err = parseTime(computedAt); err != nil {
			return nil, err
		}
		if finish != "" {
			if snap.FinishDate, err = parseTime(finish); err != nil {
				return nil, err
			}
		}
		snap.Outcome = model.Outcome(outcome)
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snaps, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (model.Profile, error) {
	var p model.Profile
	var createdAt, updatedAt string
	if err := row.Scan(&p.ID, &p.Name,
		&p.Progress.ScriptLinesPerPage,
		&p.Progress.CurrentJuz,
		&p.Progress.CurrentPage,
		&p.Progress.BaseLinesPerDay,
		&p.Progress.ActiveDaysPerWeek,
		&createdAt, &updatedAt); err != nil {
		return model.Profile{}, err
	}
	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Profile{}, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

// Fixed-width UTC timestamps sort correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(timeLayout, value)
}
