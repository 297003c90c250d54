package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{db: db}
}

// GetAllCategories returns every category ordered by id, with Parent pointers linked.
func (r *CategoriesRepository) GetAllCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := r.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	LinkCategoryTree(categories)
	return categories, nil
}

func (r *CategoriesRepository) GetCategory(ctx context.Context, id uint) (*Category, error) {
	var c Category
	if err := r.db.WithContext(ctx).Preload("Parent").First(&c, id).Error; err != nil {
		return nil, TranslateError(err)
	}
	return &c, nil
}

func (r *CategoriesRepository) CreateCategory(ctx context.Context, category *Category) error {
	category.ID = 0
	return Insert(r.db.WithContext(ctx), category)
}

// UpdateCategory writes the name, description and parent of category. The stored image is
// left as it is.
func (r *CategoriesRepository) UpdateCategory(ctx context.Context, category *Category) error {
	if category.ID == 0 {
		return ErrNotFound
	}
	res := r.db.WithContext(ctx).
		Model(category).
		Select("name", "description", "parent_id").
		Updates(category)
	if res.Error != nil {
		return TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category; its children and products lose their category.
func (r *CategoriesRepository) DeleteCategory(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Category{}, id)
	if res.Error != nil {
		return TranslateDeleteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DefaultCategoryID returns the id of the lowest-id category, or nil when there is none.
func (r *CategoriesRepository) DefaultCategoryID(ctx context.Context) (*uint, error) {
	return DefaultCategoryID(r.db.WithContext(ctx))
}

// DefaultCategoryID is the default category for new products.
func DefaultCategoryID(db *gorm.DB) (*uint, error) {
	var c Category
	err := db.Select("id").Order("id").Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c.ID, nil
}
