package models

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type ProductsRepository struct {
	db *gorm.DB
}

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)

type ProductFilters struct {
	CategoryID    *uint
	PriceLessThan *float64
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

// GetFilteredProducts returns one page of active products and the filtered total.
func (r *ProductsRepository) GetFilteredProducts(ctx context.Context, offset, limit int, filters ProductFilters) ([]Template, int64, error) {
	var products []Template
	var total int64

	query := r.db.WithContext(ctx).Model(&Template{}).
		Where("product_templates.active = ?", true)

	if filters.CategoryID != nil {
		query = query.Where("product_templates.categ_id = ?", *filters.CategoryID)
	}
	if filters.PriceLessThan != nil {
		query = query.Where("product_templates.price < ?", *filters.PriceLessThan)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Categ").
		Order("product_templates.id").
		Offset(offset).Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// GetBySKU loads a product with its category and attribute lines, values ordered by sequence.
func (r *ProductsRepository) GetBySKU(ctx context.Context, sku string) (*Template, error) {
	var product Template
	if err := r.db.WithContext(ctx).
		Preload("Categ").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("attribute_value_lines.id") }).
		Preload("Lines.Attribute").
		Preload("Lines.Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("attribute_values.sequence, attribute_values.id")
		}).
		Where("sku = ?", sku).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}
