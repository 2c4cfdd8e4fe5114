package model

import "time"

// BookmarkEvent is published to the event bus whenever a user toggles a
// place bookmark.
type BookmarkEvent struct {
	UserID     int64     `json:"user_id"`
	PlaceID    int64     `json:"place_id"`
	Bookmarked bool      `json:"bookmarked"`
	OccurredAt time.Time `json:"occurred_at"`
}
