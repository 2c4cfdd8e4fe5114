package entity

import (
	"context"

	"github.com/dolpin-app/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&RefreshToken{},
		&Place{},
		&PlaceBookmark{},
		&Moment{},
		&Comment{},
	)
}
