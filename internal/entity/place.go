package entity

type Place struct {
	SnowFlakeBase

	Name     string `gorm:"index"`
	Category string `gorm:"index"`
	Address  string
	Phone    string
	Lat      float64
	Lng      float64

	ImageURLs Array[string] `gorm:"type:text"`
}

type PlaceBookmark struct {
	SnowFlakeBase

	UserID int64 `gorm:"index:idx_place_bookmarks_user_place,unique"`
	User   User  `gorm:"foreignKey:UserID"`

	PlaceID int64 `gorm:"index:idx_place_bookmarks_user_place,unique"`
	Place   Place `gorm:"foreignKey:PlaceID"`
}
