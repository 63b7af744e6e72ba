package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/daywatch/internal/db"
	"github.com/alexanderramin/daywatch/internal/domain"
)

// SQLiteTimetableRepo implements TimetableRepo using a SQLite database.
type SQLiteTimetableRepo struct {
	db db.DBTX
}

// NewSQLiteTimetableRepo creates a new SQLiteTimetableRepo.
func NewSQLiteTimetableRepo(db db.DBTX) *SQLiteTimetableRepo {
	return &SQLiteTimetableRepo{db: db}
}

func (r *SQLiteTimetableRepo) Create(ctx context.Context, t *domain.Timetable) error {
	if t.Mode == "" {
		t.Mode = domain.ModeChill
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO timetables (id, date, mode, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Date, string(t.Mode), t.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting timetable: %w", err)
	}
	return nil
}

func (r *SQLiteTimetableRepo) GetByDate(ctx context.Context, date string) (*domain.Timetable, error) {
	query := `SELECT id, date, mode, created_at FROM timetables WHERE date = ?`
	row := r.db.QueryRowContext(ctx, query, date)

	var t domain.Timetable
	var mode, createdAtStr string
	if err := row.Scan(&t.ID, &t.Date, &mode, &createdAtStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("timetable: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning timetable: %w", err)
	}
	t.Mode = domain.TimetableMode(mode)
	var parseErr error
	t.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	return &t, nil
}

func (r *SQLiteTimetableRepo) ListEntries(ctx context.Context, timetableID string) ([]*domain.TimetableEntry, error) {
	query := `SELECT id, timetable_id, activity_id, start_time, end_time, note, position, created_at
		FROM timetable_entries WHERE timetable_id = ? ORDER BY position, start_time`
	rows, err := r.db.QueryContext(ctx, query, timetableID)
	if err != nil {
		return nil, fmt.Errorf("listing timetable entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.TimetableEntry
	for rows.Next() {
		var e domain.TimetableEntry
		var activityID sql.NullString
		var createdAtStr string
		if err := rows.Scan(
			&e.ID, &e.TimetableID, &activityID, &e.StartTime, &e.EndTime,
			&e.Note, &e.Position, &createdAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning entry row: %w", err)
		}
		e.ActivityID = activityID.String
		e.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return entries, nil
}

// ReplaceEntries swaps out the full slot list for a timetable. The day's
// schedule is always rewritten wholesale, never patched, matching the
// rebuild semantics of the schedule driver.
func (r *SQLiteTimetableRepo) ReplaceEntries(ctx context.Context, timetableID string, entries []*domain.TimetableEntry) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM timetable_entries WHERE timetable_id = ?`, timetableID,
	); err != nil {
		return fmt.Errorf("clearing timetable entries: %w", err)
	}

	query := `INSERT INTO timetable_entries
		(id, timetable_id, activity_id, start_time, end_time, note, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for i, e := range entries {
		e.TimetableID = timetableID
		e.Position = i
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now().UTC()
		}
		var activityID interface{}
		if e.ActivityID != "" {
			activityID = e.ActivityID
		}
		if _, err := r.db.ExecContext(ctx, query,
			e.ID, e.TimetableID, activityID, e.StartTime, e.EndTime,
			e.Note, e.Position, e.CreatedAt.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("inserting timetable entry %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLiteTimetableRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM timetables WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting timetable: %w", err)
	}
	return nil
}
