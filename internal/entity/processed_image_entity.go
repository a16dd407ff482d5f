package entity

import "time"

// ProcessedImage is one history record: a single successful filter run.
type ProcessedImage struct {
	Id                uint
	UserId            uint
	UserName          string
	OriginalFilename  string
	ProcessedFilename string
	FilterKind        string
	CreatedAt         time.Time
}

type FilterCount struct {
	FilterKind string
	Total      int64
}
