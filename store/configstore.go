package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

// Config implements queue.ConfigStore using a bun-backed SQL store.
type Config struct {
	db *bun.DB
}

// NewConfig creates a new SQL-backed Config store.
func NewConfig(db *bun.DB) *Config {
	return &Config{db: db}
}

// Get returns the string value stored for key, or fallback if key is
// unset.
func (c *Config) Get(ctx context.Context, key string, fallback string) (string, error) {
	var model configModel
	err := c.db.NewSelect().
		Model(&model).
		Where("key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fallback, nil
		}
		return "", err
	}
	return model.Value, nil
}

// Set upserts key to value.
func (c *Config) Set(ctx context.Context, key string, value string) error {
	_, err := c.db.NewInsert().
		Model(&configModel{Key: key, Value: value}).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	return err
}
