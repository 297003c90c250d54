//go:build integration

package models_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mytheresa/content-portal/models"
)

// setupTestDB starts a throwaway Postgres and migrates every model into it.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("content"),
		postgres.WithUsername("content"),
		postgres.WithPassword("content"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres")
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func TestIntegration(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	categories := models.NewCategoriesRepository(db)
	attributes := models.NewAttributesRepository(db)

	t.Run("category parent", func(t *testing.T) {
		root := &models.Category{Name: "All"}
		require.NoError(t, categories.CreateCategory(ctx, root))
		child := &models.Category{Name: "Saleable", ParentID: &root.ID}
		require.NoError(t, categories.CreateCategory(ctx, child))

		root.ParentID = &root.ID
		assert.ErrorIs(t, categories.UpdateCategory(ctx, root), models.ErrRecursiveCategory)
		root.ParentID = &child.ID
		assert.ErrorIs(t, categories.UpdateCategory(ctx, root), models.ErrRecursiveCategory)

		missing := uint(999999)
		orphan := &models.Category{Name: "Orphan", ParentID: &missing}
		assert.ErrorIs(t, categories.CreateCategory(ctx, orphan), models.ErrValidation)
	})

	t.Run("attribute value uniqueness", func(t *testing.T) {
		color := models.NewAttribute()
		color.Name = "Color"
		require.NoError(t, attributes.CreateAttribute(ctx, color))
		size := models.NewAttribute()
		size.Name = "Size"
		require.NoError(t, attributes.CreateAttribute(ctx, size))

		require.NoError(t, attributes.CreateValue(ctx, &models.AttributeValue{Name: "Red", AttributeID: color.ID}))
		require.NoError(t, attributes.CreateValue(ctx, &models.AttributeValue{Name: "Red", AttributeID: size.ID}))
		err := attributes.CreateValue(ctx, &models.AttributeValue{Name: "Red", AttributeID: color.ID})
		assert.ErrorIs(t, err, models.ErrDuplicate)
	})

	t.Run("attribute delete rules", func(t *testing.T) {
		looks := &models.AttributeCategory{Name: "Looks"}
		require.NoError(t, attributes.CreateAttributeCategory(ctx, looks))
		finish := models.NewAttribute()
		finish.Name, finish.CategoryID = "Finish", &looks.ID
		require.NoError(t, attributes.CreateAttribute(ctx, finish))
		matte := &models.AttributeValue{Name: "Matte", AttributeID: finish.ID}
		require.NoError(t, attributes.CreateValue(ctx, matte))

		desk := models.NewTemplate(nil)
		desk.Name = "Desk"
		require.NoError(t, models.Insert(db, desk))
		line := &models.AttributeValueLine{ProductTmplID: desk.ID, AttributeID: finish.ID}
		require.NoError(t, attributes.CreateLine(ctx, line, []uint{matte.ID}))

		assert.ErrorIs(t, attributes.DeleteAttribute(ctx, finish.ID), models.ErrProtected)

		require.NoError(t, attributes.DeleteAttributeCategory(ctx, looks.ID))
		got, err := attributes.GetAttribute(ctx, finish.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CategoryID)
	})

	t.Run("category update keeps the image", func(t *testing.T) {
		desks := &models.Category{Name: "Desks", Image: models.Image{URL: "https://cdn/x.png", PublicID: "product_category/x", Width: 80, Height: 60}}
		require.NoError(t, categories.CreateCategory(ctx, desks))

		require.NoError(t, categories.UpdateCategory(ctx, &models.Category{ID: desks.ID, Name: "Desks & tables"}))

		got, err := categories.GetCategory(ctx, desks.ID)
		require.NoError(t, err)
		assert.Equal(t, "Desks & tables", got.Name)
		assert.Equal(t, desks.Image, got.Image)

		assert.ErrorIs(t, categories.UpdateCategory(ctx, &models.Category{ID: 999999, Name: "x"}), models.ErrNotFound)
	})

	t.Run("selected values stay on their attribute", func(t *testing.T) {
		legs := models.NewAttribute()
		legs.Name = "Leg style"
		require.NoError(t, attributes.CreateAttribute(ctx, legs))
		top := models.NewAttribute()
		top.Name = "Top"
		require.NoError(t, attributes.CreateAttribute(ctx, top))
		straight := &models.AttributeValue{Name: "Straight", AttributeID: legs.ID}
		require.NoError(t, attributes.CreateValue(ctx, straight))
		tapered := &models.AttributeValue{Name: "Tapered", AttributeID: legs.ID}
		require.NoError(t, attributes.CreateValue(ctx, tapered))
		unused := &models.AttributeValue{Name: "Hairpin", AttributeID: legs.ID}
		require.NoError(t, attributes.CreateValue(ctx, unused))

		table := models.NewTemplate(nil)
		table.Name = "Table"
		require.NoError(t, models.Insert(db, table))
		line := &models.AttributeValueLine{ProductTmplID: table.ID, AttributeID: legs.ID}
		require.NoError(t, attributes.CreateLine(ctx, line, []uint{straight.ID, tapered.ID}))

		straight.AttributeID = top.ID
		assert.ErrorIs(t, models.UpdateAll(db, straight), models.ErrValueInUse)
		unused.AttributeID = top.ID
		assert.NoError(t, models.UpdateAll(db, unused))
		tapered.Name = "Tapered oak"
		assert.NoError(t, models.UpdateAll(db, tapered))

		require.NoError(t, models.TranslateDeleteError(db.Delete(tapered).Error))
		err := models.TranslateDeleteError(db.Delete(&models.AttributeValue{ID: straight.ID, Name: "Straight"}).Error)
		assert.ErrorIs(t, err, models.ErrProtected)

		var got models.AttributeValueLine
		require.NoError(t, db.Preload("Values").First(&got, line.ID).Error)
		require.Len(t, got.Values, 1)
		assert.Equal(t, straight.ID, got.Values[0].ID)
		assert.NoError(t, got.Validate())
	})

	t.Run("line values must belong to the attribute", func(t *testing.T) {
		a := models.NewAttribute()
		a.Name = "Material"
		require.NoError(t, attributes.CreateAttribute(ctx, a))
		b := models.NewAttribute()
		b.Name = "Legs"
		require.NoError(t, attributes.CreateAttribute(ctx, b))
		wood := &models.AttributeValue{Name: "Wood", AttributeID: b.ID}
		require.NoError(t, attributes.CreateValue(ctx, wood))

		chair := models.NewTemplate(nil)
		chair.Name = "Chair"
		require.NoError(t, models.Insert(db, chair))
		line := &models.AttributeValueLine{ProductTmplID: chair.ID, AttributeID: a.ID}
		assert.ErrorIs(t, attributes.CreateLine(ctx, line, []uint{wood.ID}), models.ErrInvalidAttributeValues)
		assert.ErrorIs(t, attributes.CreateLine(ctx, line, nil), models.ErrInvalidAttributeValues)
	})

	t.Run("books by publisher fragment", func(t *testing.T) {
		acme := &models.Publisher{Name: "Acme Publishing"}
		require.NoError(t, models.Insert(db, acme))
		other := &models.Publisher{Name: "Globex Press"}
		require.NoError(t, models.Insert(db, other))
		day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, models.Insert(db, &models.Book{Title: "Roadrunner Recipes", PublisherID: acme.ID, PublicationDate: day}))
		require.NoError(t, models.Insert(db, &models.Book{Title: "Paper Clips", PublisherID: other.ID, PublicationDate: day}))

		publishers := models.NewPublishersRepository(db)
		p, err := publishers.ResolvePublisher(ctx, "Acme")
		require.NoError(t, err)
		assert.Equal(t, acme.ID, p.ID)

		books, err := publishers.ListBooks(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Roadrunner Recipes", books[0].Title)

		_, err = publishers.ResolvePublisher(ctx, "Initech")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("touch author", func(t *testing.T) {
		author := &models.Author{Name: "Grace Hopper", Email: "grace@example.com"}
		require.NoError(t, models.Insert(db, author))

		authors := models.NewAuthorsRepository(db)
		before := time.Now().UTC().Truncate(time.Microsecond)
		_, err := authors.TouchAuthor(ctx, author.ID, time.Now().UTC())
		require.NoError(t, err)

		got, err := authors.GetAuthor(ctx, author.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastAccessed)
		assert.False(t, got.LastAccessed.Before(before))
		assert.False(t, got.LastAccessed.After(time.Now()))

		_, err = authors.TouchAuthor(ctx, 999999, time.Now())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
