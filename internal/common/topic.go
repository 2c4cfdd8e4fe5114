package common

// Topics of the event bus.
const (
	BookmarkChangedTopic = "bookmark-changed"
)
