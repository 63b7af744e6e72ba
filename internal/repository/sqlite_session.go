package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/daywatch/internal/db"
	"github.com/alexanderramin/daywatch/internal/domain"
)

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(db db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: db}
}

// CreateOpen inserts an open-ended session row: ended_at and
// duration_seconds stay NULL until Finalize.
func (r *SQLiteSessionRepo) CreateOpen(ctx context.Context, s *domain.ActivitySession) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO activity_sessions (id, activity_id, started_at, ended_at, duration_seconds, created_at)
		VALUES (?, ?, ?, NULL, NULL, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ActivityID, s.StartedAt.Format(time.RFC3339), s.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting activity session: %w", err)
	}
	return nil
}

// Finalize records the end time and total duration of an open session.
func (r *SQLiteSessionRepo) Finalize(ctx context.Context, id string, endedAt time.Time, durationSeconds int) error {
	query := `UPDATE activity_sessions SET ended_at = ?, duration_seconds = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, endedAt.Format(time.RFC3339), durationSeconds, id)
	if err != nil {
		return fmt.Errorf("finalizing activity session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking finalize result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("activity session: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id string) (*domain.ActivitySession, error) {
	query := `SELECT id, activity_id, started_at, ended_at, duration_seconds, created_at
		FROM activity_sessions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var s domain.ActivitySession
	var startedAtStr, createdAtStr string
	var endedAt sql.NullString
	var duration sql.NullInt64
	err := row.Scan(&s.ID, &s.ActivityID, &startedAtStr, &endedAt, &duration, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("activity session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning activity session: %w", err)
	}
	return r.populateSession(&s, startedAtStr, createdAtStr, endedAt, duration)
}

func (r *SQLiteSessionRepo) ListByActivity(ctx context.Context, activityID string) ([]*domain.ActivitySession, error) {
	query := `SELECT id, activity_id, started_at, ended_at, duration_seconds, created_at
		FROM activity_sessions WHERE activity_id = ? ORDER BY started_at`
	rows, err := r.db.QueryContext(ctx, query, activityID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions by activity: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.ActivitySession
	for rows.Next() {
		var s domain.ActivitySession
		var startedAtStr, createdAtStr string
		var endedAt sql.NullString
		var duration sql.NullInt64
		if err := rows.Scan(&s.ID, &s.ActivityID, &startedAtStr, &endedAt, &duration, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		session, parseErr := r.populateSession(&s, startedAtStr, createdAtStr, endedAt, duration)
		if parseErr != nil {
			return nil, parseErr
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

// TotalsByActivity aggregates finalized sessions from the last N days.
// Open sessions are excluded; they have no duration yet. The cutoff is
// computed here and passed as RFC3339 so it compares against started_at
// in the same text format.
func (r *SQLiteSessionRepo) TotalsByActivity(ctx context.Context, days int) ([]ActivityTotal, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)
	query := `SELECT s.activity_id, a.title, COUNT(*), COALESCE(SUM(s.duration_seconds), 0)
		FROM activity_sessions s
		JOIN activities a ON s.activity_id = a.id
		WHERE s.duration_seconds IS NOT NULL
		  AND s.started_at >= ?
		GROUP BY s.activity_id, a.title
		ORDER BY SUM(s.duration_seconds) DESC`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("aggregating session totals: %w", err)
	}
	defer rows.Close()

	var totals []ActivityTotal
	for rows.Next() {
		var t ActivityTotal
		if err := rows.Scan(&t.ActivityID, &t.Title, &t.Sessions, &t.TotalSeconds); err != nil {
			return nil, fmt.Errorf("scanning total row: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating totals: %w", err)
	}
	return totals, nil
}

func (r *SQLiteSessionRepo) populateSession(
	s *domain.ActivitySession,
	startedAtStr, createdAtStr string,
	endedAt sql.NullString,
	duration sql.NullInt64,
) (*domain.ActivitySession, error) {
	var parseErr error
	s.StartedAt, parseErr = time.Parse(time.RFC3339, startedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing started_at: %w", parseErr)
	}
	s.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	s.EndedAt = parseNullableTime(endedAt, time.RFC3339)
	s.DurationSeconds = nullableIntValue(duration)
	return s, nil
}
