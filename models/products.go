package models

import (
	"github.com/creasty/defaults"
	"github.com/shopspring/decimal"
)

type ProductType string

const (
	ProductTypeStorable   ProductType = "product"
	ProductTypeConsumable ProductType = "consu"
	ProductTypeService    ProductType = "service"
)

var ProductTypeChoices = []Choice{
	{Value: string(ProductTypeStorable), Label: "Storable"},
	{Value: string(ProductTypeConsumable), Label: "Consumable"},
	{Value: string(ProductTypeService), Label: "Service"},
}

// Template represents a product in the catalog.
// Its configurable attributes are declared through AttributeValueLines.
type Template struct {
	ID                  uint                 `gorm:"primaryKey"`
	Name                string               `gorm:"size:64;not null;index:product_template_name_idx"`
	SKU                 string               `gorm:"size:64;not null"`
	Image               Image                `gorm:"embedded;embeddedPrefix:image_"`
	Description         string               `gorm:"type:text"`
	DescriptionPurchase string               `gorm:"type:text"`
	DescriptionSale     string               `gorm:"type:text"`
	Type                ProductType          `gorm:"size:32;not null" default:"consu"`
	Rental              bool                 `gorm:"not null"`
	CategID             *uint                `gorm:"index"`
	Categ               *Category            `gorm:"foreignKey:CategID;constraint:OnDelete:SET NULL;"`
	SaleOK              bool                 `gorm:"not null" default:"true"`
	Active              bool                 `gorm:"not null" default:"true"`
	Price               decimal.Decimal      `gorm:"type:decimal(12,2);not null"`
	Lines               []AttributeValueLine `gorm:"foreignKey:ProductTmplID;constraint:OnDelete:CASCADE;"`
}

func (t *Template) TableName() string {
	return "product_templates"
}

func (t *Template) String() string {
	return t.Name
}

// SetDefaults is called by defaults.Set after the tag defaults are applied.
func (t *Template) SetDefaults() {
	if t.Price.IsZero() {
		t.Price = decimal.NewFromInt(1)
	}
}

// NewTemplate returns a product with the catalog defaults and the given category,
// normally the lowest-id category (see CategoriesRepository.DefaultCategoryID).
func NewTemplate(categID *uint) *Template {
	t := &Template{CategID: categID}
	// defaults.Set only fails for non-pointer input
	_ = defaults.Set(t)
	return t
}

// NewAttribute returns an attribute with the default type and variant policy.
func NewAttribute() *Attribute {
	a := &Attribute{}
	_ = defaults.Set(a)
	return a
}

// NewUser returns an active, non-staff account.
func NewUser(username, email string) *User {
	u := &User{Username: username, Email: email}
	_ = defaults.Set(u)
	return u
}

// All lists every persisted model in dependency order, for migrations.
func All() []any {
	return []any{
		&User{},
		&Author{},
		&Publisher{},
		&Book{},
		&Post{},
		&Category{},
		&AttributeCategory{},
		&Attribute{},
		&AttributeValue{},
		&Template{},
		&AttributeValueLine{},
	}
}
