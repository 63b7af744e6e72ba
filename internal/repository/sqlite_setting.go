package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/daywatch/internal/db"
)

// SQLiteSettingRepo implements SettingRepo over the settings key/value table.
type SQLiteSettingRepo struct {
	db db.DBTX
}

// NewSQLiteSettingRepo creates a new SQLiteSettingRepo.
func NewSQLiteSettingRepo(db db.DBTX) *SQLiteSettingRepo {
	return &SQLiteSettingRepo{db: db}
}

func (r *SQLiteSettingRepo) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("setting %q: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("reading setting: %w", err)
	}
	return value, nil
}

func (r *SQLiteSettingRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing setting: %w", err)
	}
	return nil
}
