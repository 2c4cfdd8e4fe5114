package entity

import "database/sql"

type Moment struct {
	SnowFlakeBase

	UserID int64 `gorm:"index"`
	User   User  `gorm:"foreignKey:UserID"`

	PlaceID   sql.NullInt64 `gorm:"index"`
	PlaceName string

	Title     string
	Content   string
	Images    Array[string] `gorm:"type:text"`
	IsPublic  bool          `gorm:"index"`
	ViewCount int64
}

// Thumbnail returns the first image of the moment, or empty if it has none.
func (m *Moment) Thumbnail() string {
	if len(m.Images) == 0 {
		return ""
	}

	return m.Images[0]
}
