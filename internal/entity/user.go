package entity

import (
	"database/sql"
)

type User struct {
	SnowFlakeBase

	Provider   string `gorm:"index:idx_users_provider,unique"`
	ProviderID string `gorm:"index:idx_users_provider,unique"`

	Username        string `gorm:"unique"`
	Email           sql.NullString
	ProfileImageURL sql.NullString
	Introduction    sql.NullString
	IsNewUser       bool

	PrivacyAgreedAt  sql.NullTime
	LocationAgreedAt sql.NullTime
}

const (
	ProviderKakao  = "kakao"
	ProviderGoogle = "google"
)

// PlaceholderUsernamePrefix marks usernames generated at sign up. A user with
// such a username has not completed the profile yet.
const PlaceholderUsernamePrefix = "user"
