package models

import (
	"fmt"

	"gorm.io/gorm"
)

type AttributeType string

const (
	AttributeTypeSelect AttributeType = "select"
	AttributeTypeRadio  AttributeType = "radio"
	AttributeTypeColor  AttributeType = "color"
)

// AttributeTypeChoices lists the attribute display types with their labels.
var AttributeTypeChoices = []Choice{
	{Value: string(AttributeTypeSelect), Label: "Select"},
	{Value: string(AttributeTypeRadio), Label: "Radio"},
	{Value: string(AttributeTypeColor), Label: "Color"},
}

// CreateVariantPolicy controls when product variants are generated from an attribute.
type CreateVariantPolicy string

const (
	CreateVariantNever   CreateVariantPolicy = "no_variant"
	CreateVariantAlways  CreateVariantPolicy = "always"
	CreateVariantDynamic CreateVariantPolicy = "dynamic"
)

var CreateVariantChoices = []Choice{
	{Value: string(CreateVariantNever), Label: "Never"},
	{Value: string(CreateVariantAlways), Label: "Always"},
	{Value: string(CreateVariantDynamic), Label: "Only when the product is added to a sales order"},
}

// Choice is a stored value and its human label.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AttributeCategory groups attributes.
type AttributeCategory struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:64;not null"`
	Description string `gorm:"type:text"`
}

func (c *AttributeCategory) TableName() string {
	return "attribute_categories"
}

func (c *AttributeCategory) String() string {
	return c.Name
}

func (c *AttributeCategory) AdminURL() string {
	return fmt.Sprintf("/admin/attributecategory/%d/change/", c.ID)
}

func (c *AttributeCategory) AdminLabel() string {
	return c.Name
}

// Attribute is a configurable product dimension such as "Color".
type Attribute struct {
	ID            uint                `gorm:"primaryKey"`
	Name          string              `gorm:"size:64;not null"`
	CategoryID    *uint               `gorm:"index"`
	Category      *AttributeCategory  `gorm:"constraint:OnDelete:SET NULL;"`
	Type          AttributeType       `gorm:"size:32;not null" default:"select"`
	CreateVariant CreateVariantPolicy `gorm:"size:32;not null" default:"always"`
	Values        []AttributeValue    `gorm:"foreignKey:AttributeID;constraint:OnDelete:CASCADE;"`
}

func (a *Attribute) TableName() string {
	return "attributes"
}

func (a *Attribute) String() string {
	return a.Name
}

func (a *Attribute) AdminURL() string {
	return fmt.Sprintf("/admin/attribute/%d/change/", a.ID)
}

func (a *Attribute) AdminLabel() string {
	return a.Name
}

// BeforeDelete refuses to delete an attribute that product lines still use.
func (a *Attribute) BeforeDelete(tx *gorm.DB) error {
	if a.ID == 0 {
		return nil
	}
	var n int64
	err := tx.Session(&gorm.Session{NewDB: true}).
		Model(&AttributeValueLine{}).
		Where("attribute_id = ?", a.ID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: attribute %q is used by %d product lines", ErrProtected, a.Name, n)
	}
	return nil
}

// AttributeValue is one allowed value of an attribute, such as "Red".
type AttributeValue struct {
	ID          uint       `gorm:"primaryKey"`
	Name        string     `gorm:"size:64;not null;uniqueIndex:attribute_value_name_attribute_uniq,priority:1"`
	AttributeID uint       `gorm:"not null;index:attribute_id_name_idx;uniqueIndex:attribute_value_name_attribute_uniq,priority:2"`
	Attribute   *Attribute `gorm:"foreignKey:AttributeID"`
	IsCustom    bool       `gorm:"not null"`
	HTMLColor   string     `gorm:"size:64"`
	Sequence    int        `gorm:"not null;index:sequence_idx"`
}

func (v *AttributeValue) TableName() string {
	return "attribute_values"
}

func (v *AttributeValue) String() string {
	return v.Name
}

// lineCount counts the product lines that select the value. With onlyValue set it counts
// the lines that select nothing else.
func (v *AttributeValue) lineCount(tx *gorm.DB, onlyValue bool) (int64, error) {
	db := tx.Session(&gorm.Session{NewDB: true})
	q := db.Table("attribute_value_line_values AS j").Where("j.attribute_value_id = ?", v.ID)
	if onlyValue {
		others := db.Table("attribute_value_line_values AS o").
			Select("1").
			Where("o.attribute_value_line_id = j.attribute_value_line_id AND o.attribute_value_id <> ?", v.ID)
		q = q.Where("NOT EXISTS (?)", others)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// BeforeUpdate keeps a value on its attribute while product lines select it.
func (v *AttributeValue) BeforeUpdate(tx *gorm.DB) error {
	if v.ID == 0 {
		return nil
	}
	var stored struct{ AttributeID uint }
	err := tx.Session(&gorm.Session{NewDB: true}).
		Model(&AttributeValue{}).
		Select("attribute_id").
		Where("id = ?", v.ID).
		Take(&stored).Error
	if err != nil {
		return TranslateError(err)
	}
	if stored.AttributeID == v.AttributeID {
		return nil
	}
	n, err := v.lineCount(tx, false)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrValueInUse
	}
	return nil
}

// BeforeDelete refuses to delete the last value a product line selects.
func (v *AttributeValue) BeforeDelete(tx *gorm.DB) error {
	if v.ID == 0 {
		return nil
	}
	n, err := v.lineCount(tx, true)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: value %q is the only value of %d product lines", ErrProtected, v.Name, n)
	}
	return nil
}

// AttributeValueLine enables a subset of one attribute's values on one product template.
type AttributeValueLine struct {
	ID            uint             `gorm:"primaryKey"`
	ProductTmplID uint             `gorm:"not null;index:product_tmpl_idx"`
	ProductTmpl   *Template        `gorm:"foreignKey:ProductTmplID"`
	AttributeID   uint             `gorm:"not null;index:attribute_idx"`
	Attribute     *Attribute       `gorm:"constraint:OnDelete:RESTRICT;"`
	Values        []AttributeValue `gorm:"many2many:attribute_value_line_values;constraint:OnDelete:CASCADE;"`
}

func (l *AttributeValueLine) TableName() string {
	return "attribute_value_lines"
}

// Validate requires at least one value and that every value belongs to the line's attribute.
// Values must be loaded.
func (l *AttributeValueLine) Validate() error {
	if len(l.Values) == 0 {
		return ErrInvalidAttributeValues
	}
	for _, v := range l.Values {
		if v.AttributeID != l.AttributeID {
			return ErrInvalidAttributeValues
		}
	}
	return nil
}

func (l *AttributeValueLine) BeforeSave(tx *gorm.DB) error {
	return l.Validate()
}
