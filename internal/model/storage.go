package model

type GeneratePresignedURLRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	UploadType  string `json:"upload_type"`
	FileSize    int64  `json:"file_size"`
}

type GeneratePresignedURLResponse struct {
	SignedURL string `json:"signed_url"`
	ObjectURL string `json:"object_url"`
	ExpiresIn int64  `json:"expires_in"`
}
