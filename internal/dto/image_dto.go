package dto

import "time"

type ProcessImageRequest struct {
	Filter string `json:"filter" form:"filter" validate:"omitempty,max=64"`
}

type ProcessImageResponse struct {
	Id                uint      `json:"id"`
	OriginalFilename  string    `json:"original_filename"`
	ProcessedFilename string    `json:"processed_filename"`
	FilterType        string    `json:"filter_type"`
	Applied           bool      `json:"applied"`
	Width             int       `json:"width"`
	Height            int       `json:"height"`
	URL               string    `json:"url"`
	CreatedAt         time.Time `json:"created_at"`
}

type FilterResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type HistoryItemResponse struct {
	Id                uint      `json:"id"`
	UserId            uint      `json:"user_id"`
	Username          string    `json:"username"`
	OriginalFilename  string    `json:"original_filename"`
	ProcessedFilename string    `json:"processed_filename"`
	FilterType        string    `json:"filter_type"`
	OriginalURL       string    `json:"original_url"`
	ProcessedURL      string    `json:"processed_url"`
	CreatedAt         time.Time `json:"created_at"`
}

// HistoryQuery narrows a history listing. Zero values mean no restriction;
// Offset only applies together with Limit.
type HistoryQuery struct {
	Filter   string `query:"filter" validate:"omitempty,max=64"`
	Username string `query:"username" validate:"omitempty,max=255"`
	UserID   uint   `query:"user_id"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
}

type HistoryStatsResponse struct {
	TotalImages int64              `json:"total_images"`
	TotalUsers  int64              `json:"total_users"`
	ByFilter    []FilterCountEntry `json:"by_filter"`
}

type FilterCountEntry struct {
	FilterType string `json:"filter_type"`
	Total      int64  `json:"total"`
}

type ClearHistoryResponse struct {
	ImagesDeleted         int64 `json:"images_deleted"`
	UsersDeleted          int64 `json:"users_deleted"`
	UploadFilesDeleted    int   `json:"upload_files_deleted"`
	ProcessedFilesDeleted int   `json:"processed_files_deleted"`
}

// HistoryFeedMessage is pushed to websocket clients when a record is added
// or the history is cleared.
type HistoryFeedMessage struct {
	Type string               `json:"type"`
	Item *HistoryItemResponse `json:"item,omitempty"`
}

const (
	FeedTypeCreated = "history.created"
	FeedTypeCleared = "history.cleared"
)

func UploadedFileURL(name string) string {
	return "/api/files/uploads/" + name
}

func ProcessedFileURL(name string) string {
	return "/api/files/processed/" + name
}
