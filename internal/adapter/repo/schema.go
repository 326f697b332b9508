package repo

import (
	"context"

	"github.com/HenrikWarf/creative-studio/internal/infra"
	"github.com/HenrikWarf/creative-studio/internal/sqlinline"
)

// EnsureSchema applies the bootstrap DDL. Safe to run on every startup.
func EnsureSchema(ctx context.Context, sql infra.SQLExecutor) error {
	statements := []string{
		sqlinline.QCreateProjectsTable,
		sqlinline.QCreateAssetsTable,
		sqlinline.QCreateContextVersionsTable,
	}
	for _, stmt := range statements {
		if _, err := sql.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
