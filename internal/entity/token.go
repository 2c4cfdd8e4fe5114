package entity

import (
	"time"

	"github.com/dolpin-app/backend/pkg/enum"
)

type TokenStatus string

var (
	TokenStatusActive  = enum.New(TokenStatus("active"))
	TokenStatusRevoked = enum.New(TokenStatus("revoked"))
)

type RefreshToken struct {
	SnowFlakeBase

	UserID int64 `gorm:"index"`
	User   User  `gorm:"foreignKey:UserID"`

	Token     string `gorm:"unique"`
	Status    TokenStatus
	ExpiredAt time.Time
}

// Usable reports whether the token can still be exchanged for a new access
// token.
func (t *RefreshToken) Usable(now time.Time) bool {
	return t.Status == TokenStatusActive && !now.After(t.ExpiredAt)
}
