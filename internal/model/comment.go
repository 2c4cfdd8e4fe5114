package model

type Comment struct {
	ID              int64     `json:"id"`
	MomentID        int64     `json:"moment_id"`
	UserID          int64     `json:"user_id,omitempty"`
	Username        string    `json:"username,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	Content         string    `json:"content"`
	IsDeleted       bool      `json:"is_deleted,omitempty"`
	CreatedAt       string    `json:"created_at"`
	Replies         []Comment `json:"replies,omitempty"`
}

type CreateCommentRequest struct {
	MomentID int64  `json:"moment_id"`
	Content  string `json:"content"`
	ParentID int64  `json:"parent_id"`
}

type CreateCommentResponse struct {
	Comment Comment `json:"comment"`
}

type GetCommentsRequest struct {
	MomentID int64 `json:"moment_id"`
	Offset   int   `json:"offset"`
	Limit    int   `json:"limit"`
}

type GetCommentsResponse struct {
	Comments []Comment `json:"comments"`
	Total    int64     `json:"total"`
}

type DeleteCommentRequest struct {
	ID int64 `json:"id"`
}

type DeleteCommentResponse struct{}
