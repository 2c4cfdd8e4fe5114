package model

type Place struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Address       string   `json:"address"`
	Phone         string   `json:"phone,omitempty"`
	Lat           float64  `json:"lat"`
	Lng           float64  `json:"lng"`
	ImageURLs     []string `json:"image_urls,omitempty"`
	Bookmarked    bool     `json:"bookmarked"`
	BookmarkCount int64    `json:"bookmark_count"`
}

type GetPlaceRequest struct {
	ID int64 `json:"id"`
}

type GetPlaceResponse struct {
	Place Place `json:"place"`
}

type SearchPlacesRequest struct {
	Query  string `json:"query"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type SearchPlacesResponse struct {
	Places []Place `json:"places"`
}

type ToggleBookmarkRequest struct {
	PlaceID int64 `json:"place_id"`
}

type ToggleBookmarkResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

type ListBookmarksRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type ListBookmarksResponse struct {
	Places []Place `json:"places"`
}
