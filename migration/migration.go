package migration

import (
	"context"

	"github.com/dolpin-app/backend/internal/entity"
)

// Migrate brings the schema to the latest version. It is safe to run on every
// startup, AutoMigrate only adds missing tables, columns, and indexes.
func Migrate(ctx context.Context) error {
	return entity.MigrateTable(ctx)
}
