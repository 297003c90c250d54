package admin

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/mytheresa/content-portal/models"
)

// RegisterDefaults registers the blog and product models.
func (s *Site) RegisterDefaults() {
	s.Register(postAdmin())
	s.Register(publisherAdmin())
	s.Register(authorAdmin())
	s.Register(bookAdmin())
	s.Register(categoryAdmin())
	s.Register(attributeCategoryAdmin())
	s.Register(attributeAdmin())
	s.Register(attributeValueAdmin())
	s.Register(templateAdmin())
}

func postAdmin() *Resource[models.Post] {
	return &Resource[models.Post]{
		Name:          "post",
		Verbose:       "post",
		VerbosePlural: "posts",
		Admin: ModelAdmin{
			Fields:         []string{"author", "title", "text", "created_date", "published_date"},
			ReadonlyFields: []string{"created_date"},
		},
		Preload: []string{"Author"},
		PK:      func(p *models.Post) uint { return p.ID },
		Values: func(p *models.Post) map[string]any {
			return map[string]any{
				"author":         optionalID(&p.AuthorID),
				"title":          p.Title,
				"text":           p.Text,
				"created_date":   optionalTime(&p.CreatedDate),
				"published_date": p.PublishedDate,
			}
		},
		Bind: func(f *Form, p *models.Post) {
			if id := f.ID("author", true); id != nil {
				p.AuthorID, p.Author = *id, nil
			}
			p.Title = f.Text("title", "required,max=200")
			p.Text = f.Text("text", "required")
			p.PublishedDate = f.Date("published_date")
		},
		Choices: func(ctx context.Context, db *gorm.DB) (map[string][]models.Choice, error) {
			authors, err := authorChoices(ctx, db)
			return map[string][]models.Choice{"author": authors}, err
		},
	}
}

func publisherAdmin() *Resource[models.Publisher] {
	return &Resource[models.Publisher]{
		Name:          "publisher",
		Verbose:       "publisher",
		VerbosePlural: "publishers",
		Admin: ModelAdmin{
			Fieldsets: []Fieldset{
				{Name: "Full Name", Fields: []string{"name"}},
				{Name: "Address", Fields: []string{"address", "city", "state_province", "country"}},
				{Name: "Website", Fields: []string{"website"}},
			},
			ListDisplay:  []string{"name", "website"},
			ListFilter:   []string{"name", "country"},
			SearchFields: []string{"city"},
			SaveAs:       true,
		},
		Inlines: []Inline{
			bookInline("book_set", Stacked),
			bookInline("book_set-2", Tabular),
		},
		Order: "name, id",
		PK:    func(p *models.Publisher) uint { return p.ID },
		Values: func(p *models.Publisher) map[string]any {
			return map[string]any{
				"name":           p.Name,
				"address":        p.Address,
				"city":           p.City,
				"state_province": p.StateProvince,
				"country":        p.Country,
				"website":        p.Website,
			}
		},
		Bind: func(f *Form, p *models.Publisher) {
			p.Name = f.Text("name", "required,max=30")
			p.Address = f.Text("address", "max=50")
			p.City = f.Text("city", "max=60")
			p.StateProvince = f.Text("state_province", "max=30")
			p.Country = f.Text("country", "max=50")
			p.Website = f.Text("website", "omitempty,url,max=200")
		},
		ViewOnSite: func(publicURL string, p *models.Publisher) string {
			return fmt.Sprintf("%s/post/%d/", publicURL, p.ID)
		},
	}
}

func bookInline(prefix string, style InlineStyle) *InlineOf[models.Book] {
	return &InlineOf[models.Book]{
		Prefix:    prefix,
		Verbose:   "book",
		Style:     style,
		Fields:    []string{"title", "authors", "publication_date"},
		FK:        "publisher_id",
		Preload:   []string{"Authors"},
		PK:        func(b *models.Book) uint { return b.ID },
		SetParent: func(b *models.Book, publisherID uint) { b.PublisherID = publisherID },
		Values:    bookValues,
		Bind: func(f *Form, b *models.Book) {
			b.Title = f.Text("title", "required,max=100")
			b.PublicationDate = f.RequiredDate("publication_date")
			f.IDs("authors")
		},
		Choices: func(ctx context.Context, db *gorm.DB) (map[string][]models.Choice, error) {
			authors, err := authorChoices(ctx, db)
			return map[string][]models.Choice{"authors": authors}, err
		},
		AfterSave: func(tx *gorm.DB, f *Form, b *models.Book) error {
			return replaceAuthors(tx, b, f.IDs("authors"))
		},
	}
}

func bookValues(b *models.Book) map[string]any {
	ids := make([]uint, len(b.Authors))
	for i, a := range b.Authors {
		ids[i] = a.ID
	}
	return map[string]any{
		"title":            b.Title,
		"authors":          ids,
		"publisher":        optionalID(&b.PublisherID),
		"publication_date": dateValue(b.PublicationDate),
	}
}

func replaceAuthors(tx *gorm.DB, b *models.Book, ids []uint) error {
	var authors []models.Author
	if len(ids) > 0 {
		if err := tx.Where("id IN ?", ids).Find(&authors).Error; err != nil {
			return err
		}
		if len(authors) != len(uniq(ids)) {
			return &models.ValidationError{Field: "authors", Message: msgInvalidChoice}
		}
	}
	return models.TranslateError(tx.Model(b).Association("Authors").Replace(authors))
}

func bookAdmin() *Resource[models.Book] {
	return &Resource[models.Book]{
		Name:          "book",
		Verbose:       "book",
		VerbosePlural: "books",
		Admin: ModelAdmin{
			Fields: []string{"publication_date", "title", "authors", "publisher"},
		},
		Preload: []string{"Authors", "Publisher"},
		PK:      func(b *models.Book) uint { return b.ID },
		Values:  bookValues,
		Columns: map[string]func(*models.Book) any{
			"publisher": func(b *models.Book) any { return RelatedLink(b.Publisher) },
		},
		Bind: func(f *Form, b *models.Book) {
			b.PublicationDate = f.RequiredDate("publication_date")
			b.Title = f.Text("title", "required,max=100")
			f.IDs("authors")
			if id := f.ID("publisher", true); id != nil {
				b.PublisherID, b.Publisher = *id, nil
			}
		},
		Choices: func(ctx context.Context, db *gorm.DB) (map[string][]models.Choice, error) {
			authors, err := authorChoices(ctx, db)
			if err != nil {
				return nil, err
			}
			publishers, err := choicesOf(ctx, db, "name, id", func(p *models.Publisher) models.Choice {
				return models.Choice{Value: idString(p.ID), Label: p.Name}
			})
			return map[string][]models.Choice{"authors": authors, "publisher": publishers}, err
		},
		AfterSave: func(tx *gorm.DB, f *Form, b *models.Book) error {
			return replaceAuthors(tx, b, f.IDs("authors"))
		},
	}
}

func authorAdmin() *Resource[models.Author] {
	return &Resource[models.Author]{
		Name:          "author",
		Verbose:       "author",
		VerbosePlural: "authors",
		Admin: ModelAdmin{
			Fields: []string{"salutation", "name", "email", "headshot", "last_accessed"},
		},
		Order: "name, id",
		PK:    func(a *models.Author) uint { return a.ID },
		Values: func(a *models.Author) map[string]any {
			return map[string]any{
				"salutation":    a.Salutation,
				"name":          a.Name,
				"email":         a.Email,
				"headshot":      imageValue(a.Headshot),
				"last_accessed": a.LastAccessed,
			}
		},
		Bind: func(f *Form, a *models.Author) {
			a.Salutation = f.Text("salutation", "max=10")
			a.Name = f.Text("name", "required,max=200")
			a.Email = f.Text("email", "omitempty,email,max=254")
			f.Image("headshot", "authors", &a.Headshot)
			a.LastAccessed = f.Date("last_accessed")
		},
		Images: func(a *models.Author) []models.Image {
			return []models.Image{a.Headshot}
		},
	}
}

func categoryAdmin() *Resource[models.Category] {
	return &Resource[models.Category]{
		Name:          "category",
		Verbose:       "category",
		VerbosePlural: "Categories",
		Admin: ModelAdmin{
			Fields: []string{"name", "description", "parent", "image"},
		},
		Preload: []string{"Parent"},
		Order:   "id",
		PK:      func(c *models.Category) uint { return c.ID },
		Values: func(c *models.Category) map[string]any {
			return map[string]any{
				"name":        c.Name,
				"description": c.Description,
				"parent":      derefID(c.ParentID),
				"image":       imageValue(c.Image),
			}
		},
		Bind: func(f *Form, c *models.Category) {
			c.Name = f.Text("name", "required,max=64")
			c.Description = f.Text("description", "")
			c.ParentID, c.Parent = f.ID("parent", false), nil
			f.Image("image", "product_category", &c.Image)
		},
		Choices: func(ctx context.Context, db *gorm.DB) (map[string][]models.Choice, error) {
			var categories []models.Category
			if err := db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
				return nil, err
			}
			models.LinkCategoryTree(categories)
			choices := make([]models.Choice, len(categories))
			for i := range categories {
				choices[i] = models.Choice{Value: idString(categories[i].ID), Label: categories[i].String()}
			}
			return map[string][]models.Choice{"parent": choices}, nil
		},
		Images: func(c *models.Category) []models.Image {
			return []models.Image{c.Image}
		},
	}
}

func attributeCategoryAdmin() *Resource[models.AttributeCategory] {
	return &Resource[models.AttributeCategory]{
		Name:          "attributecategory",
		Verbose:       "attribute category",
		VerbosePlural: "attribute categories",
		Admin: ModelAdmin{
			Fields: []string{"name", "description"},
		},
		PK: func(c *models.AttributeCategory) uint { return c.ID },
		Values: func(c *models.AttributeCategory) map[string]any {
			return map[string]any{"name": c.Name, "description": c.Description}
		},
		Bind: func(f *Form, c *models.AttributeCategory) {
			c.Name = f.Text("name", "required,max=64")
			c.Description = f.Text("description", "")
		},
	}
}

func attributeAdmin() *Resource[models.Attribute] {
	return &Resource[models.Attribute]{
		Name:          "attribute",
		Verbose:       "attribute",
		VerbosePlural: "attributes",
		Admin: ModelAdmin{
			Fields:      []string{"name", "category", "type", "create_variant"},
			ListDisplay: []string{"name", "type", "category"},
			Labels:      map[string]string{"create_variant": "Create Variants"},
		},
		Inlines: []Inline{attributeValueInline()},
		Preload: []string{"Category"},
		PK:      func(a *models.Attribute) uint { return a.ID },
		New: func(context.Context, *gorm.DB) (*models.Attribute, error) {
			return models.NewAttribute(), nil
		},
		Values: func(a *models.Attribute) map[string]any {
			return map[string]any{
				"name":           a.Name,
				"category":       derefID(a.CategoryID),
				"type":           string(a.Type),
				"create_variant": string(a.CreateVariant),
			}
		},
		Columns: map[string]func(*models.Attribute) any{
			"category": func(a *models.Attribute) any { return RelatedLink(a.Category) },
		},
		Bind: func(f *Form, a *models.Attribute) {
			a.Name = f.Text("name", "required,max=64")
			a.CategoryID, a.Category = f.ID("category", false), nil
			a.Type = models.AttributeType(f.Choice("type", models.AttributeTypeChoices))
			a.CreateVariant = models.CreateVariantPolicy(f.Choice("create_variant", models.CreateVariantChoices))
		},
		Choices: func(ctx context.Context, db *gorm.DB) (map[string][]models.Choice, error) {
			categories, err := choicesOf(ctx, db, "name, id", func(c *models.AttributeCategory) models.Choice {
				return models.Choice{Value: idString(c.ID), Label: c.Name}
			})
			return map[string][]models.Choice{
				"category":       categories,
				"type":           models.AttributeTypeChoices,
				"create_variant": models.CreateVariantChoices,
			}, err
		},
	}
}

func attributeValueInline() *InlineOf[models.AttributeValue] {
	return &InlineOf[models.AttributeValue]{
		Prefix:    "value_ids",
		Verbose:   "attribute value",
		Style:     Tabular,
		Fields:    []string{"name", "is_custom", "html_color", "sequence"},
		FK:        "attribute_id",
		Order:     "sequence, id",
		PK:        func(v *models.AttributeValue) uint { return v.ID },
		SetParent: func(v *models.AttributeValue, attributeID uint) { v.AttributeID = attributeID },
		Values:    attributeValueValues,
		Bind:      bindAttributeValue,
	}
}

func attributeValueValues(v *models.AttributeValue) map[string]any {
	return map[string]any{
		"attribute":  optionalID(&v.AttributeID),
		"name":       v.Name,
		"is_custom":  v.IsCustom,
		"html_color": v.HTMLColor,
		"sequence":   v.Sequence,
	}
}

func bindAttributeValue(f *Form, v *models.AttributeValue) {
	v.Name = f.Text("name", "required,max=64")
	v.IsCustom = f.Bool("is_custom")
	v.HTMLColor = f.Text("html_color", "max=64")
	v.Sequence = f.Int("sequence")
}

func attributeValueAdmin() *Resource[models.AttributeValue] {
	return &Resource[models.AttributeValue]{
		Name:          "attributevalue",
		Verbose:       "attribute value",
		VerbosePlural: "attribute values",
		Admin: ModelAdmin{
			Fields:      []string{"name", "attribute", "is_custom", "html_color", "sequence"},
			ListDisplay: []string{"attribute", "name", "html_color", "is_custom"},
			Labels: map[string]string{
				"name":       "Value",
				"is_custom":  "Is custom value",
				"html_color": "HTML Color Index",
			},
		},
		Preload: []string{"Attribute"},
		PK:      func(v *models.AttributeValue) uint { return v.ID },
		Values:  attributeValueValues,
		Columns: map[string]func(*models.AttributeValue) any{
			"attribute": func(v *models.AttributeValue) any { return RelatedLink(v.Attribute) },
		},
		Bind: func(f *Form, v *models.AttributeValue) {
			if id := f.ID("attribute", true); id != nil {
				v.AttributeID, v.Attribute = *id, nil
			}
			bindAttributeValue(f, v)
		},
		Choices: func(ctx context.Context, db *gorm.DB) (map[string][]models.Choice, error) {
			attributes, err := attributeChoices(ctx, db)
			return map[string][]models.Choice{"attribute": attributes}, err
		},
	}
}

func templateAdmin() *Resource[models.Template] {
	return &Resource[models.Template]{
		Name:          "template",
		Verbose:       "Product",
		VerbosePlural: "Products",
		Admin: ModelAdmin{
			Fields: []string{
				"name", "sku", "image", "headshot_image", "description", "description_purchase",
				"description_sale", "type", "rental", "categ", "sale_ok", "active", "price",
			},
			ListDisplay:    []string{"sku", "name", "category_link", "price"},
			ReadonlyFields: []string{"headshot_image"},
			RawIDFields:    []string{"categ"},
			Labels: map[string]string{
				"sku":                  "SKU",
				"description":          "Product Description",
				"description_purchase": "Purchase Description",
				"description_sale":     "Sale Description",
				"rental":               "Can be Rent",
				"categ":                "Category",
				"category_link":        "Category",
				"sale_ok":              "Can be Sold",
			},
		},
		Inlines: []Inline{attributeLineInline()},
		Preload: []string{"Categ"},
		PK:      func(t *models.Template) uint { return t.ID },
		New: func(ctx context.Context, db *gorm.DB) (*models.Template, error) {
			categID, err := models.DefaultCategoryID(db.WithContext(ctx))
			if err != nil {
				return nil, err
			}
			t := models.NewTemplate(categID)
			if categID != nil {
				t.Categ = &models.Category{}
				if err := db.WithContext(ctx).First(t.Categ, *categID).Error; err != nil {
					return nil, models.TranslateError(err)
				}
			}
			return t, nil
		},
		Values: func(t *models.Template) map[string]any {
			return map[string]any{
				"name":                 t.Name,
				"sku":                  t.SKU,
				"image":                imageValue(t.Image),
				"headshot_image":       ImageTag(t.Image),
				"description":          t.Description,
				"description_purchase": t.DescriptionPurchase,
				"description_sale":     t.DescriptionSale,
				"type":                 string(t.Type),
				"rental":               t.Rental,
				"categ":                derefID(t.CategID),
				"sale_ok":              t.SaleOK,
				"active":               t.Active,
				"price":                t.Price,
			}
		},
		Columns: map[string]func(*models.Template) any{
			"categ":         func(t *models.Template) any { return RelatedLink(t.Categ) },
			"category_link": func(t *models.Template) any { return RelatedLink(t.Categ) },
		},
		Bind: func(f *Form, t *models.Template) {
			t.Name = f.Text("name", "required,max=64")
			t.SKU = f.Text("sku", "required,max=64")
			f.Image("image", "product_template", &t.Image)
			t.Description = f.Text("description", "")
			t.DescriptionPurchase = f.Text("description_purchase", "")
			t.DescriptionSale = f.Text("description_sale", "")
			t.Type = models.ProductType(f.Choice("type", models.ProductTypeChoices))
			t.Rental = f.Bool("rental")
			t.CategID, t.Categ = f.ID("categ", false), nil
			t.SaleOK = f.Bool("sale_ok")
			t.Active = f.Bool("active")
			t.Price = f.Decimal("price")
		},
		Choices: func(context.Context, *gorm.DB) (map[string][]models.Choice, error) {
			return map[string][]models.Choice{"type": models.ProductTypeChoices}, nil
		},
		Images: func(t *models.Template) []models.Image {
			return []models.Image{t.Image}
		},
	}
}

func attributeLineInline() *InlineOf[models.AttributeValueLine] {
	return &InlineOf[models.AttributeValueLine]{
		Prefix:    "attribute_line_ids",
		Verbose:   "attribute value line",
		Style:     Tabular,
		Fields:    []string{"attribute", "values"},
		FK:        "product_tmpl_id",
		Preload:   []string{"Values"},
		PK:        func(l *models.AttributeValueLine) uint { return l.ID },
		SetParent: func(l *models.AttributeValueLine, templateID uint) { l.ProductTmplID = templateID },
		Values: func(l *models.AttributeValueLine) map[string]any {
			ids := make([]uint, len(l.Values))
			for i, v := range l.Values {
				ids[i] = v.ID
			}
			return map[string]any{"attribute": optionalID(&l.AttributeID), "values": ids}
		},
		Bind: func(f *Form, l *models.AttributeValueLine) {
			if id := f.ID("attribute", true); id != nil {
				l.AttributeID, l.Attribute = *id, nil
			}
			f.IDs("values")
		},
		Choices: func(ctx context.Context, db *gorm.DB) (map[string][]models.Choice, error) {
			attributes, err := attributeChoices(ctx, db)
			if err != nil {
				return nil, err
			}
			values, err := choicesOf(ctx, db, "attribute_id, sequence, id", func(v *models.AttributeValue) models.Choice {
				return models.Choice{Value: idString(v.ID), Label: v.Name}
			})
			return map[string][]models.Choice{"attribute": attributes, "values": values}, err
		},
		BeforeSave: func(tx *gorm.DB, f *Form, l *models.AttributeValueLine) error {
			return models.LoadLineValues(tx, l, f.IDs("values"))
		},
		AfterSave: func(tx *gorm.DB, _ *Form, l *models.AttributeValueLine) error {
			return models.TranslateError(tx.Model(l).Association("Values").Replace(l.Values))
		},
	}
}

func authorChoices(ctx context.Context, db *gorm.DB) ([]models.Choice, error) {
	return choicesOf(ctx, db, "name, id", func(a *models.Author) models.Choice {
		return models.Choice{Value: idString(a.ID), Label: a.String()}
	})
}

func attributeChoices(ctx context.Context, db *gorm.DB) ([]models.Choice, error) {
	return choicesOf(ctx, db, "name, id", func(a *models.Attribute) models.Choice {
		return models.Choice{Value: idString(a.ID), Label: a.Name}
	})
}

// categoryChoices lists the categories a product can be filed under.
func categoryChoices(ctx context.Context, db *gorm.DB) ([]models.Choice, error) {
	return choicesOf(ctx, db, "id", func(c *models.Category) models.Choice {
		return models.Choice{Value: idString(c.ID), Label: c.ChoiceLabel()}
	})
}

func choicesOf[T any](ctx context.Context, db *gorm.DB, order string, choice func(*T) models.Choice) ([]models.Choice, error) {
	var rows []T
	if err := db.WithContext(ctx).Order(order).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Choice, len(rows))
	for i := range rows {
		out[i] = choice(&rows[i])
	}
	return out, nil
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// optionalID renders an unset id as null.
func optionalID(id *uint) any {
	if *id == 0 {
		return nil
	}
	return *id
}

func derefID(id *uint) any {
	if id == nil {
		return nil
	}
	return *id
}

func optionalTime(t *time.Time) any {
	if t.IsZero() {
		return nil
	}
	return *t
}

func dateValue(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.DateOnly)
}

func imageValue(img models.Image) any {
	if img.IsZero() {
		return nil
	}
	return img
}

func uniq(ids []uint) []uint {
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
