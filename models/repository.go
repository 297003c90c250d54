package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Insert creates value without touching its associations.
func Insert(db *gorm.DB, value any) error {
	return TranslateError(db.Omit(clause.Associations).Create(value).Error)
}

// UpdateAll writes every column of value, zero values included, without touching its
// associations. Unlike gorm's Save it never falls back to an insert.
func UpdateAll(db *gorm.DB, value any) error {
	res := db.Model(value).Select("*").Omit(clause.Associations).Updates(value)
	if res.Error != nil {
		return TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
