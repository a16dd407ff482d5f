package dto

import "io"

type SetIdentityRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=255"`
}

type SessionResponse struct {
	Authenticated            bool   `json:"authenticated"`
	Username                 string `json:"username,omitempty"`
	UserId                   uint   `json:"user_id,omitempty"`
	CurrentUploadedFilename  string `json:"current_uploaded_filename,omitempty"`
	CurrentProcessedFilename string `json:"current_processed_filename,omitempty"`
	UploadedURL              string `json:"uploaded_url,omitempty"`
	ProcessedURL             string `json:"processed_url,omitempty"`
}

// UploadFile is a transport-neutral view of an uploaded file part.
type UploadFile struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type UploadResponse struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}
