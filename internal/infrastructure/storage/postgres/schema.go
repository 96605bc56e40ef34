package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"backoffice/pkg/logger"
)

// Table names of the catalogs.
const (
	TableRubros        = "cat_rubros"
	TableSubRubros     = "cat_subrubros"
	TableUnits         = "cat_unidades_medida"
	TableTaxConditions = "cat_condiciones_iva"
	TableProducts      = "cat_productos"
)

//go:embed schema.sql
var schemaSQL string

// Migrate creates missing tables and indexes. It is idempotent.
func Migrate(ctx context.Context, pool *Pool) error {
	// No arguments: pgx sends the script over the simple protocol,
	// which accepts several statements at once.
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.Info(ctx, "database schema applied")
	return nil
}
