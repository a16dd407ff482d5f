package model

import "time"

type User struct {
	Id        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"column:username;type:varchar(255);uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
