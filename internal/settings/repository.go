package settings

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Upsert(ctx context.Context, setting *Setting) error
	List(ctx context.Context) ([]*Setting, error)
}

// RepositoryImpl handles all database operations for settings
type RepositoryImpl struct {
	db *sql.DB
}

// NewRepository creates a new settings repository
func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// ErrSettingNotFound is returned when a key has never been set
var ErrSettingNotFound = fmt.Errorf("setting not found")

func (r *RepositoryImpl) Get(ctx context.Context, key string) (*Setting, error) {
	query := `SELECT key, value, COALESCE(updated_by, ''), updated_at FROM trade_settings WHERE key = $1`

	var setting Setting
	var raw string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&setting.Key, &raw, &setting.UpdatedBy, &setting.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	setting.Value, err = decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("corrupt value for setting %s: %w", key, err)
	}
	return &setting, nil
}

func (r *RepositoryImpl) Upsert(ctx context.Context, setting *Setting) error {
	query := `
		INSERT INTO trade_settings (key, value, updated_by, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_by = $3, updated_at = $4`

	setting.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query, setting.Key, setting.Value.String(), setting.UpdatedBy, setting.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert setting %s: %w", setting.Key, err)
	}
	return nil
}

func (r *RepositoryImpl) List(ctx context.Context) ([]*Setting, error) {
	query := `SELECT key, value, COALESCE(updated_by, ''), updated_at FROM trade_settings ORDER BY key`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var settings []*Setting
	for rows.Next() {
		var setting Setting
		var raw string
		if err := rows.Scan(&setting.Key, &raw, &setting.UpdatedBy, &setting.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		setting.Value, err = decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt value for setting %s: %w", setting.Key, err)
		}
		settings = append(settings, &setting)
	}
	return settings, rows.Err()
}
