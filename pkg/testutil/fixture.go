package testutil

import (
	"context"
	"database/sql"

	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/pkg/xcontext"
)

func CreateUser(ctx context.Context, username string) *entity.User {
	user := &entity.User{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		Provider:      entity.ProviderKakao,
		ProviderID:    username + "-provider-id",
		Username:      username,
		Email:         sql.NullString{Valid: true, String: username + "@example.com"},
	}

	if err := xcontext.DB(ctx).Create(user).Error; err != nil {
		panic(err)
	}

	return user
}

func CreatePlace(ctx context.Context, name string) *entity.Place {
	place := &entity.Place{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		Name:          name,
		Category:      "cafe",
		Address:       "1 Example Street",
		Lat:           37.5665,
		Lng:           126.978,
	}

	if err := xcontext.DB(ctx).Create(place).Error; err != nil {
		panic(err)
	}

	return place
}

func CreateMoment(ctx context.Context, userID int64, title string, isPublic bool) *entity.Moment {
	moment := &entity.Moment{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        userID,
		Title:         title,
		Content:       "content of " + title,
		IsPublic:      isPublic,
	}

	if err := xcontext.DB(ctx).Create(moment).Error; err != nil {
		panic(err)
	}

	return moment
}

func CreateComment(ctx context.Context, momentID, userID int64, content string) *entity.Comment {
	comment := &entity.Comment{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		MomentID:      momentID,
		UserID:        userID,
		Content:       content,
	}

	if err := xcontext.DB(ctx).Create(comment).Error; err != nil {
		panic(err)
	}

	return comment
}
