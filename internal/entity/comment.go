package entity

import "database/sql"

type Comment struct {
	SnowFlakeBase

	MomentID int64  `gorm:"index"`
	Moment   Moment `gorm:"foreignKey:MomentID"`

	UserID int64 `gorm:"index"`
	User   User  `gorm:"foreignKey:UserID"`

	// ParentID is set for replies. Only one level of nesting is allowed, a
	// reply to a reply attaches to the root comment.
	ParentID sql.NullInt64 `gorm:"index"`

	Content string
}
