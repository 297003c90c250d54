package models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// maxCategoryDepth bounds display-name rendering on trees that were corrupted outside the app.
const maxCategoryDepth = 32

// Category represents a product category.
// Categories form a tree through an optional parent.
type Category struct {
	ID          uint       `gorm:"primaryKey"`
	Name        string     `gorm:"size:64;not null"`
	Description string     `gorm:"type:text"`
	ParentID    *uint      `gorm:"index"`
	Parent      *Category  `gorm:"foreignKey:ParentID"`
	Children    []Category `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL;"`
	Image       Image      `gorm:"embedded;embeddedPrefix:image_"`
}

func (c *Category) TableName() string {
	return "categories"
}

// String renders the category with its ancestors, e.g. "All / Saleable / Office".
// Ancestors are only included when Parent is loaded.
func (c *Category) String() string {
	name := c.Name
	depth := 0
	for p := c.Parent; p != nil && depth < maxCategoryDepth; p = p.Parent {
		name = p.Name + " / " + name
		depth++
	}
	return name
}

func (c *Category) AdminURL() string {
	return fmt.Sprintf("/admin/category/%d/change/", c.ID)
}

func (c *Category) AdminLabel() string {
	return c.String()
}

// ChoiceLabel is the label used in product category dropdowns.
func (c *Category) ChoiceLabel() string {
	return "Category: " + c.Name
}

// BeforeSave rejects a parent that would make the category its own ancestor.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	db := tx.Session(&gorm.Session{NewDB: true})
	return c.checkParent(func(id uint) (*uint, error) {
		var row struct{ ParentID *uint }
		err := db.Model(&Category{}).Select("parent_id").Where("id = ?", id).Take(&row).Error
		if err != nil {
			return nil, TranslateError(err)
		}
		return row.ParentID, nil
	})
}

// checkParent walks the ancestor chain of the proposed parent. parentOf returns the
// parent id of a category, or ErrNotFound when the category does not exist.
func (c *Category) checkParent(parentOf func(id uint) (*uint, error)) error {
	if c.ParentID == nil {
		return nil
	}
	if c.ID != 0 && *c.ParentID == c.ID {
		return ErrRecursiveCategory
	}

	seen := make(map[uint]bool)
	for cur := c.ParentID; cur != nil; {
		if c.ID != 0 && *cur == c.ID {
			return ErrRecursiveCategory
		}
		if seen[*cur] {
			// a cycle above us that we are not part of
			return nil
		}
		seen[*cur] = true

		next, err := parentOf(*cur)
		if errors.Is(err, ErrNotFound) {
			if cur == c.ParentID {
				return ErrUnknownParent
			}
			return nil
		}
		if err != nil {
			return err
		}
		cur = next
	}
	return nil
}

// LinkCategoryTree wires Parent pointers between the given categories so String can render
// full paths without further queries.
func LinkCategoryTree(categories []Category) {
	byID := make(map[uint]*Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}
	for i := range categories {
		if pid := categories[i].ParentID; pid != nil {
			categories[i].Parent = byID[*pid]
		}
	}
}
