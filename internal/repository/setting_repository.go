package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type settingRepository struct {
	db sqlx.ExtContext
}

func NewSettingRepository(db sqlx.ExtContext) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM system_settings WHERE key = $1`

	var value string
	if err := sqlx.GetContext(ctx, r.db, &value, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}

	return value, nil
}
