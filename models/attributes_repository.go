package models

import (
	"context"

	"gorm.io/gorm"
)

type AttributesRepository struct {
	db *gorm.DB
}

func NewAttributesRepository(db *gorm.DB) *AttributesRepository {
	return &AttributesRepository{db: db}
}

func (r *AttributesRepository) GetAttribute(ctx context.Context, id uint) (*Attribute, error) {
	var attr Attribute
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Values", func(db *gorm.DB) *gorm.DB { return db.Order("sequence, id") }).
		First(&attr, id).Error
	if err != nil {
		return nil, TranslateError(err)
	}
	return &attr, nil
}

func (r *AttributesRepository) CreateAttributeCategory(ctx context.Context, c *AttributeCategory) error {
	return Insert(r.db.WithContext(ctx), c)
}

func (r *AttributesRepository) CreateAttribute(ctx context.Context, a *Attribute) error {
	return Insert(r.db.WithContext(ctx), a)
}

func (r *AttributesRepository) CreateValue(ctx context.Context, v *AttributeValue) error {
	return Insert(r.db.WithContext(ctx), v)
}

// CreateLine enables valueIDs of the line's attribute on the line's product.
func (r *AttributesRepository) CreateLine(ctx context.Context, line *AttributeValueLine, valueIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := LoadLineValues(tx, line, valueIDs); err != nil {
			return err
		}
		if err := Insert(tx, line); err != nil {
			return err
		}
		return TranslateError(tx.Model(line).Association("Values").Replace(line.Values))
	})
}

// LoadLineValues replaces line.Values with the given values and validates them.
func LoadLineValues(db *gorm.DB, line *AttributeValueLine, valueIDs []uint) error {
	line.Values = nil
	valueIDs = uniqueIDs(valueIDs)
	if len(valueIDs) > 0 {
		if err := db.Where("id IN ?", valueIDs).Order("sequence, id").Find(&line.Values).Error; err != nil {
			return err
		}
		if len(line.Values) != len(valueIDs) {
			return ErrInvalidAttributeValues
		}
	}
	return line.Validate()
}

// DeleteAttribute removes an attribute and its values. It fails with ErrProtected while a
// product line uses the attribute.
func (r *AttributesRepository) DeleteAttribute(ctx context.Context, id uint) error {
	attr, err := r.GetAttribute(ctx, id)
	if err != nil {
		return err
	}
	return TranslateDeleteError(r.db.WithContext(ctx).Delete(attr).Error)
}

// DeleteAttributeCategory removes a category; its attributes keep existing uncategorised.
func (r *AttributesRepository) DeleteAttributeCategory(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&AttributeCategory{}, id)
	if res.Error != nil {
		return TranslateDeleteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
