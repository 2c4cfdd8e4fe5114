package model

type GetPopularMomentsRequest struct {
	Period string `json:"period"`
}

type GetPopularMomentsResponse struct {
	Period  string   `json:"period"`
	Moments []Moment `json:"moments"`
}
