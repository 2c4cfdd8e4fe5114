package common

import (
	"fmt"

	"github.com/dolpin-app/backend/internal/entity"
)

func RedisKeyPopularMoments(period entity.PopularPeriod, date string) string {
	return fmt.Sprintf("popular:moments:%s:%s", period, date)
}

// RedisKeyLatestPopularMoments points to the most recent ranking written by
// the cron job.
func RedisKeyLatestPopularMoments(period entity.PopularPeriod) string {
	return fmt.Sprintf("popular:moments:latest_%s", period)
}

func RedisKeyUserBookmarks(userID int64) string {
	return fmt.Sprintf("bookmarks:%d", userID)
}

func RedisKeyPlaceBookmarkCount(placeID int64) string {
	return fmt.Sprintf("bookmarkcount:%d", placeID)
}

func RedisKeyMomentViews(momentID int64) string {
	return fmt.Sprintf("momentviews:%d", momentID)
}
