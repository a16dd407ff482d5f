package specification

import "gorm.io/gorm"

// ByName matches a user name exactly (case-sensitive).
type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Name)
}
