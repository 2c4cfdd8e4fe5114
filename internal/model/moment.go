package model

type Moment struct {
	ID           int64    `json:"id"`
	UserID       int64    `json:"user_id"`
	Username     string   `json:"username"`
	PlaceID      int64    `json:"place_id,omitempty"`
	PlaceName    string   `json:"place_name,omitempty"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Images       []string `json:"images,omitempty"`
	Thumbnail    string   `json:"thumbnail,omitempty"`
	IsPublic     bool     `json:"is_public"`
	ViewCount    int64    `json:"view_count"`
	CommentCount int64    `json:"comment_count"`
	CreatedAt    string   `json:"created_at"`
}

type CreateMomentRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Images    []string `json:"images"`
	PlaceID   int64    `json:"place_id"`
	PlaceName string   `json:"place_name"`
	IsPublic  *bool    `json:"is_public"`
}

type CreateMomentResponse struct {
	Moment Moment `json:"moment"`
}

type UpdateMomentRequest struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Images    []string `json:"images"`
	PlaceID   int64    `json:"place_id"`
	PlaceName string   `json:"place_name"`
	IsPublic  *bool    `json:"is_public"`
}

type UpdateMomentResponse struct {
	Moment Moment `json:"moment"`
}

type DeleteMomentRequest struct {
	ID int64 `json:"id"`
}

type DeleteMomentResponse struct{}

type GetMomentRequest struct {
	ID int64 `json:"id"`
}

type GetMomentResponse struct {
	Moment Moment `json:"moment"`
}

type GetMomentsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetMomentsResponse struct {
	Moments []Moment `json:"moments"`
}

type GetMyMomentsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetMyMomentsResponse struct {
	Moments []Moment `json:"moments"`
}

type GetUserMomentsRequest struct {
	UserID int64 `json:"user_id"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

type GetUserMomentsResponse struct {
	Moments []Moment `json:"moments"`
}

type GetPlaceMomentsRequest struct {
	PlaceID int64 `json:"place_id"`
	Offset  int   `json:"offset"`
	Limit   int   `json:"limit"`
}

type GetPlaceMomentsResponse struct {
	Moments []Moment `json:"moments"`
}
