package specification

import "gorm.io/gorm"

type ByUserID struct {
	UserID uint
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ByFilterKind struct {
	Kind string
}

func (s ByFilterKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("filter_type = ?", s.Kind)
}

// ByUserName matches the user name recorded on the history row.
type ByUserName struct {
	Name string
}

func (s ByUserName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Name)
}
