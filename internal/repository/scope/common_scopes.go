package scope

import "gorm.io/gorm"

// NewestFirst orders by creation time, id breaking ties within one clock tick.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}
