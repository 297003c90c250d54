package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/mytheresa/content-portal/cmd/cms/output"
	"github.com/mytheresa/content-portal/models"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo content into an empty database",
	Long: `Load a small category tree, a Color attribute, two products, a publisher with
books and a first blog post. Does nothing when categories or publishers exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(ctx context.Context) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	var n int64
	for _, m := range []any{&models.Category{}, &models.Publisher{}} {
		if err := e.db.WithContext(ctx).Model(m).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			output.Warning("The database already has content; nothing seeded.")
			return nil
		}
	}

	output.Section("Seeding demo content")
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return seed(ctx, tx, time.Now())
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	output.Success("Demo content loaded")
	return nil
}

func seed(ctx context.Context, tx *gorm.DB, now time.Time) error {
	categories := models.NewCategoriesRepository(tx)
	attributes := models.NewAttributesRepository(tx)

	all := &models.Category{Name: "All"}
	if err := categories.CreateCategory(ctx, all); err != nil {
		return err
	}
	saleable := &models.Category{Name: "Saleable", ParentID: &all.ID}
	if err := categories.CreateCategory(ctx, saleable); err != nil {
		return err
	}
	office := &models.Category{Name: "Office Furniture", ParentID: &saleable.ID}
	if err := categories.CreateCategory(ctx, office); err != nil {
		return err
	}
	output.Muted("  categories: All / Saleable / Office Furniture")

	looks := &models.AttributeCategory{Name: "Looks"}
	if err := attributes.CreateAttributeCategory(ctx, looks); err != nil {
		return err
	}
	color := models.NewAttribute()
	color.Name, color.CategoryID, color.Type = "Color", &looks.ID, models.AttributeTypeColor
	if err := attributes.CreateAttribute(ctx, color); err != nil {
		return err
	}
	var valueIDs []uint
	for i, v := range []struct{ name, html string }{{"White", "#FFFFFF"}, {"Black", "#000000"}, {"Oak", "#B5895A"}} {
		value := &models.AttributeValue{Name: v.name, HTMLColor: v.html, AttributeID: color.ID, Sequence: i}
		if err := attributes.CreateValue(ctx, value); err != nil {
			return err
		}
		valueIDs = append(valueIDs, value.ID)
	}
	output.Muted("  attribute: Color (%d values)", len(valueIDs))

	desk := models.NewTemplate(&office.ID)
	desk.Name, desk.SKU, desk.Type = "Customizable Desk", "FURN_0096", models.ProductTypeStorable
	desk.Price = decimal.RequireFromString("750.00")
	chair := models.NewTemplate(&office.ID)
	chair.Name, chair.SKU = "Office Chair", "FURN_7777"
	chair.Price = decimal.RequireFromString("70.00")
	for _, t := range []*models.Template{desk, chair} {
		if err := models.Insert(tx.WithContext(ctx), t); err != nil {
			return err
		}
	}
	line := &models.AttributeValueLine{ProductTmplID: desk.ID, AttributeID: color.ID}
	if err := attributes.CreateLine(ctx, line, valueIDs); err != nil {
		return err
	}
	output.Muted("  products: %s, %s", desk.SKU, chair.SKU)

	acme := &models.Publisher{Name: "Acme Publishing", City: "Springfield", Country: "USA", Website: "https://acme.example.com"}
	if err := models.Insert(tx.WithContext(ctx), acme); err != nil {
		return err
	}
	ada := &models.Author{Salutation: "Ms.", Name: "Ada Lovelace", Email: "ada@example.com"}
	if err := models.Insert(tx.WithContext(ctx), ada); err != nil {
		return err
	}
	for _, title := range []string{"Notes on the Analytical Engine", "Sketch of the Engine"} {
		book := &models.Book{Title: title, PublisherID: acme.ID, PublicationDate: now.UTC().Truncate(24 * time.Hour)}
		if err := models.Insert(tx.WithContext(ctx), book); err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Model(book).Association("Authors").Append(ada); err != nil {
			return err
		}
	}
	output.Muted("  publisher: %s (2 books)", acme.Name)

	post := &models.Post{Title: "Hello, world", Text: "The first post of the new site."}
	post.Publish(ada, now)
	if err := models.NewPostsRepository(tx).SavePost(ctx, post); err != nil {
		return err
	}
	output.Muted("  post: %q", post.Title)
	return nil
}
