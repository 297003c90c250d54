package admin

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"

	"github.com/mytheresa/content-portal/app/forms"
	"github.com/mytheresa/content-portal/app/media"
	"github.com/mytheresa/content-portal/models"
)

const msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."

// Form reads one submitted change form. Inline rows are read through sub-forms that share
// the parent's errors and uploads; their keys carry the row prefix, e.g. "books-0-title".
type Form struct {
	values url.Values
	files  map[string][]*multipart.FileHeader
	prefix string
	Errors forms.Errors
	state  *uploads
}

type pendingUpload struct {
	folder string
	header *multipart.FileHeader
	target *models.Image
}

type uploads struct {
	pending  []pendingUpload
	uploaded []models.Image
	replaced []models.Image
}

func NewForm(values url.Values, files map[string][]*multipart.FileHeader) *Form {
	if values == nil {
		values = url.Values{}
	}
	return &Form{values: values, files: files, Errors: forms.Errors{}, state: &uploads{}}
}

// Sub returns the form of the inline row with the given prefix.
func (f *Form) Sub(prefix string) *Form {
	return &Form{values: f.values, files: f.files, prefix: prefix, Errors: f.Errors, state: f.state}
}

func (f *Form) key(field string) string {
	if f.prefix == "" {
		return field
	}
	return f.prefix + "-" + field
}

func (f *Form) fail(field, msg string) {
	f.Errors.Add(f.key(field), msg)
}

// Raw returns the trimmed submitted value of field.
func (f *Form) Raw(field string) string {
	return strings.TrimSpace(f.values.Get(f.key(field)))
}

// Filled reports whether any of fields was submitted with a value.
func (f *Form) Filled(fields ...string) bool {
	for _, field := range fields {
		if f.Raw(field) != "" || len(f.files[f.key(field)]) > 0 {
			return true
		}
	}
	return false
}

// Text returns field after checking it against validator rules such as "required,max=30".
func (f *Form) Text(field, rules string) string {
	v := f.Raw(field)
	if rules != "" {
		if msg := forms.Check(v, rules); msg != "" {
			f.fail(field, msg)
		}
	}
	return v
}

// Bool reads a checkbox.
func (f *Form) Bool(field string) bool {
	switch strings.ToLower(f.Raw(field)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func (f *Form) Int(field string) int {
	raw := f.Raw(field)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f.fail(field, "Enter a whole number.")
	}
	return n
}

func (f *Form) Decimal(field string) decimal.Decimal {
	raw := f.Raw(field)
	if raw == "" {
		f.fail(field, forms.MsgRequired)
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		f.fail(field, "Enter a number.")
	}
	return d
}

// Date reads an optional date or datetime.
func (f *Form) Date(field string) *time.Time {
	raw := f.Raw(field)
	if raw == "" {
		return nil
	}
	t, err := forms.ParseTime(raw)
	if err != nil {
		f.fail(field, "Enter a valid date.")
		return nil
	}
	return &t
}

// RequiredDate is Date for fields that must be set.
func (f *Form) RequiredDate(field string) time.Time {
	if f.Raw(field) == "" {
		f.fail(field, forms.MsgRequired)
		return time.Time{}
	}
	if t := f.Date(field); t != nil {
		return *t
	}
	return time.Time{}
}

// Choice returns field when it is one of choices.
func (f *Form) Choice(field string, choices []models.Choice) string {
	raw := f.Raw(field)
	if raw == "" {
		f.fail(field, forms.MsgRequired)
		return ""
	}
	for _, c := range choices {
		if c.Value == raw {
			return raw
		}
	}
	f.fail(field, fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", raw))
	return ""
}

// ID reads a foreign key. It returns nil when the field is empty.
func (f *Form) ID(field string, required bool) *uint {
	raw := f.Raw(field)
	if raw == "" {
		if required {
			f.fail(field, forms.MsgRequired)
		}
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		f.fail(field, msgInvalidChoice)
		return nil
	}
	id := uint(n)
	return &id
}

// IDs reads a many-to-many selection, given as repeated keys or as one comma-separated value.
func (f *Form) IDs(field string) []uint {
	var ids []uint
	for _, raw := range f.values[f.key(field)] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.ParseUint(part, 10, 64)
			if err != nil || n == 0 {
				f.fail(field, fmt.Sprintf("%q is not a valid value.", part))
				continue
			}
			ids = append(ids, uint(n))
		}
	}
	return ids
}

// Image schedules an upload of the file submitted for field into target. A checked
// "{field}-clear" box removes the current image.
func (f *Form) Image(field, folder string, target *models.Image) {
	if f.Bool(field+"-clear") && !target.IsZero() {
		f.state.replaced = append(f.state.replaced, *target)
		*target = models.Image{}
	}
	if headers := f.files[f.key(field)]; len(headers) > 0 {
		f.state.pending = append(f.state.pending, pendingUpload{folder: folder, header: headers[0], target: target})
	}
}

// upload stores the scheduled images and points their targets at the stored copies.
func (f *Form) upload(ctx context.Context, store media.Store) error {
	for _, p := range f.state.pending {
		file, err := p.header.Open()
		if err != nil {
			return fmt.Errorf("open upload %s: %w", p.header.Filename, err)
		}
		img, err := store.Upload(ctx, p.folder, p.header.Filename, file)
		file.Close()
		if err != nil {
			return err
		}
		if !p.target.IsZero() {
			f.state.replaced = append(f.state.replaced, *p.target)
		}
		*p.target = img
		f.state.uploaded = append(f.state.uploaded, img)
	}
	f.state.pending = nil
	return nil
}

// finish removes the images the save made obsolete, or on failure the ones it uploaded.
func (f *Form) finish(ctx context.Context, store media.Store, l *log.Logger, saved bool) {
	obsolete := f.state.uploaded
	if saved {
		obsolete = f.state.replaced
	}
	for _, img := range obsolete {
		if err := store.Destroy(ctx, img); err != nil {
			l.Warnf("destroy image %s: %v", img.PublicID, err)
		}
	}
}
