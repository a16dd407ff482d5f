package model

import "time"

type ProcessedImage struct {
	Id                uint      `gorm:"primaryKey;autoIncrement"`
	UserId            uint      `gorm:"not null;index"`
	UserName          string    `gorm:"column:username;type:varchar(255);not null"`
	OriginalFilename  string    `gorm:"type:text;not null"`
	ProcessedFilename string    `gorm:"type:text;not null"`
	FilterKind        string    `gorm:"column:filter_type;type:varchar(64);not null;index"`
	CreatedAt         time.Time `gorm:"autoCreateTime;index"`
}

func (ProcessedImage) TableName() string {
	return "processed_images"
}

// AllModels lists every table owned by the service, in creation order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&ProcessedImage{},
	}
}
