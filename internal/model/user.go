package model

type User struct {
	ID               int64  `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email,omitempty"`
	ProfileImageURL  string `json:"profile_image_url,omitempty"`
	Introduction     string `json:"introduction,omitempty"`
	ProfileCompleted bool   `json:"profile_completed"`

	// Only present on the own profile.
	Provider         string `json:"provider,omitempty"`
	IsPrivacyAgreed  bool   `json:"is_privacy_agreed,omitempty"`
	IsLocationAgreed bool   `json:"is_location_agreed,omitempty"`
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User User `json:"user"`
}

type GetUserRequest struct {
	ID int64 `json:"id"`
}

type GetUserResponse struct {
	User User `json:"user"`
}

type UpdateProfileRequest struct {
	Username        string `json:"username"`
	ProfileImageURL string `json:"profile_image_url"`
	Introduction    string `json:"introduction"`
}

type UpdateProfileResponse struct {
	User User `json:"user"`
}

type AgreementRequest struct {
	IsPrivacyAgreed  bool `json:"is_privacy_agreed"`
	IsLocationAgreed bool `json:"is_location_agreed"`
}

type AgreementResponse struct{}

type DeleteUserRequest struct{}

type DeleteUserResponse struct{}
