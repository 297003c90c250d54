package admin

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mytheresa/content-portal/app/forms"
	"github.com/mytheresa/content-portal/app/media"
	"github.com/mytheresa/content-portal/models"
)

func TestFormFields(t *testing.T) {
	f := NewForm(url.Values{
		"name":     {"  Acme  "},
		"website":  {"not a url"},
		"rental":   {"on"},
		"sequence": {"x"},
		"price":    {"12.50"},
		"date":     {"2024-03-01"},
		"type":     {"service"},
		"categ":    {"7"},
		"parent":   {"-1"},
		"authors":  {"1,2", "3"},
		"values":   {"4,zz"},
	}, nil)

	assert.Equal(t, "Acme", f.Text("name", "required,max=30"))
	f.Text("website", "omitempty,url")
	assert.True(t, f.Bool("rental"))
	assert.False(t, f.Bool("sale_ok"))
	f.Int("sequence")
	assert.True(t, decimal.RequireFromString("12.5").Equal(f.Decimal("price")))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *f.Date("date"))
	assert.Nil(t, f.Date("missing"))
	assert.Equal(t, "service", f.Choice("type", models.ProductTypeChoices))
	assert.Equal(t, uint(7), *f.ID("categ", false))
	assert.Nil(t, f.ID("parent", false))
	assert.Nil(t, f.ID("nothing", false))
	assert.Equal(t, []uint{1, 2, 3}, f.IDs("authors"))
	assert.Equal(t, []uint{4}, f.IDs("values"))

	assert.Equal(t, []string{"parent", "sequence", "values", "website"}, f.Errors.Fields())
	assert.Equal(t, "Enter a valid URL.", f.Errors.First("website"))
	assert.Equal(t, msgInvalidChoice, f.Errors.First("parent"))
}

func TestFormRequired(t *testing.T) {
	f := NewForm(url.Values{"type": {"gadget"}}, nil)

	f.Text("name", "required")
	f.Decimal("price")
	f.RequiredDate("publication_date")
	f.ID("author", true)
	f.Choice("type", models.ProductTypeChoices)

	assert.Equal(t, forms.MsgRequired, f.Errors.First("name"))
	assert.Equal(t, forms.MsgRequired, f.Errors.First("price"))
	assert.Equal(t, forms.MsgRequired, f.Errors.First("publication_date"))
	assert.Equal(t, forms.MsgRequired, f.Errors.First("author"))
	assert.Equal(t, "Select a valid choice. gadget is not one of the available choices.", f.Errors.First("type"))
}

func TestSubFormSharesErrors(t *testing.T) {
	f := NewForm(url.Values{"book_set-0-title": {""}, "book_set-0-id": {"5"}}, nil)
	sub := f.Sub("book_set-0")

	assert.Equal(t, uint(5), *sub.ID("id", false))
	sub.Text("title", "required")

	assert.Equal(t, forms.MsgRequired, f.Errors.First("book_set-0-title"))
	assert.False(t, sub.Filled("title", "authors"))
}

func TestQualify(t *testing.T) {
	sub := NewForm(nil, nil).Sub("attribute_line_ids-2")

	err := sub.qualify(models.ErrInvalidAttributeValues)
	errs, ok := forms.FromError(err)
	require.True(t, ok)
	assert.Equal(t, models.ErrInvalidAttributeValues.Message, errs.First("attribute_line_ids-2-values"))

	assert.Equal(t, models.ErrDuplicate, sub.qualify(models.ErrDuplicate))
}

type recordingStore struct {
	media.DevStore
	destroyed []string
}

func (s *recordingStore) Destroy(_ context.Context, img models.Image) error {
	s.destroyed = append(s.destroyed, img.PublicID)
	return nil
}

func multipartForm(t *testing.T, fields map[string]string, files map[string]string) *Form {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, name := range files {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = io.WriteString(part, "fake image bytes")
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return NewForm(url.Values(req.MultipartForm.Value), req.MultipartForm.File)
}

func TestFormImageUpload(t *testing.T) {
	ctx := context.Background()
	store := &recordingStore{}
	old := models.Image{URL: "https://img/old.png", PublicID: "authors/old"}

	t.Run("replace", func(t *testing.T) {
		store.destroyed = nil
		target := old
		f := multipartForm(t, nil, map[string]string{"headshot": "Ada Lovelace.PNG"})

		f.Image("headshot", "authors", &target)
		assert.Equal(t, old, target, "nothing is uploaded before the form validates")

		require.NoError(t, f.upload(ctx, store))
		assert.Equal(t, "authors/ada_lovelace", target.PublicID)
		assert.Equal(t, media.PlaceholderWidth, target.Width)

		f.finish(ctx, store, log.New("test"), true)
		assert.Equal(t, []string{"authors/old"}, store.destroyed)
	})

	t.Run("failed save drops the new upload", func(t *testing.T) {
		store.destroyed = nil
		target := old
		f := multipartForm(t, nil, map[string]string{"headshot": "new.png"})
		f.Image("headshot", "authors", &target)
		require.NoError(t, f.upload(ctx, store))

		f.finish(ctx, store, log.New("test"), false)
		assert.Equal(t, []string{"authors/new"}, store.destroyed)
	})

	t.Run("clear", func(t *testing.T) {
		store.destroyed = nil
		target := old
		f := multipartForm(t, map[string]string{"headshot-clear": "on"}, nil)
		f.Image("headshot", "authors", &target)
		require.NoError(t, f.upload(ctx, store))

		assert.True(t, target.IsZero())
		f.finish(ctx, store, log.New("test"), true)
		assert.Equal(t, []string{"authors/old"}, store.destroyed)
	})
}
