package db

import (
	"context"
	"strings"

	"hrrecords/internal/platform/config"
)

// Seed inserts the configured departments. Existing names are left untouched.
func Seed(ctx context.Context, pool *Pool, cfg config.Config) error {
	return ensureDepartments(ctx, pool, cfg.SeedDepartments)
}

func ensureDepartments(ctx context.Context, pool *Pool, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := pool.Exec(ctx, "INSERT INTO departments (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name); err != nil {
			return err
		}
	}
	return nil
}
