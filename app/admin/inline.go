package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mytheresa/content-portal/app/forms"
	"github.com/mytheresa/content-portal/models"
)

// maxInlineForms caps the rows one inline formset may submit.
const maxInlineForms = 1000

// Inline edits the child rows of a model on the model's change form.
type Inline interface {
	view(ctx context.Context, db *gorm.DB, parentID uint) (InlineView, error)
	bind(ctx context.Context, db *gorm.DB, f *Form, parentID uint) (rowsWriter, error)
}

// rowsWriter writes bound inline rows once the parent has its id.
type rowsWriter func(tx *gorm.DB, parentID uint) error

// InlineOf edits the C rows whose FK column references the parent. Rows are submitted as
// "{prefix}-{i}-{field}" with "{prefix}-{i}-id", "{prefix}-{i}-DELETE" and
// "{prefix}-TOTAL_FORMS". A formset without TOTAL_FORMS leaves the rows untouched.
type InlineOf[C any] struct {
	Prefix  string
	Verbose string
	Style   InlineStyle
	Fields  []string
	Extra   int
	FK      string
	Order   string
	Preload []string

	PK        func(child *C) uint
	SetParent func(child *C, parentID uint)
	Values    func(child *C) map[string]any
	Bind      func(f *Form, child *C)
	Choices   func(ctx context.Context, db *gorm.DB) (map[string][]models.Choice, error)
	// BeforeSave and AfterSave run in the save transaction around the row write.
	BeforeSave func(tx *gorm.DB, f *Form, child *C) error
	AfterSave  func(tx *gorm.DB, f *Form, child *C) error
}

func (in *InlineOf[C]) children(ctx context.Context, db *gorm.DB, parentID uint) ([]C, error) {
	if parentID == 0 {
		return nil, nil
	}
	q := db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: in.FK}, Value: parentID})
	for _, p := range in.Preload {
		q = q.Preload(p)
	}
	order := in.Order
	if order == "" {
		order = "id"
	}
	var rows []C
	if err := q.Order(order).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load %s rows: %w", in.Prefix, err)
	}
	return rows, nil
}

func (in *InlineOf[C]) view(ctx context.Context, db *gorm.DB, parentID uint) (InlineView, error) {
	rows, err := in.children(ctx, db, parentID)
	if err != nil {
		return InlineView{}, err
	}
	choices := map[string][]models.Choice{}
	if in.Choices != nil {
		if choices, err = in.Choices(ctx, db); err != nil {
			return InlineView{}, fmt.Errorf("choices for %s: %w", in.Prefix, err)
		}
	}

	v := InlineView{
		Prefix:     in.Prefix,
		Verbose:    in.Verbose,
		Style:      in.Style,
		Extra:      in.Extra,
		TotalForms: len(rows) + in.Extra,
		Rows:       make([]InlineRow, 0, len(rows)),
	}
	for _, name := range in.Fields {
		v.Fields = append(v.Fields, FieldView{Name: name, Label: humanize(name), Choices: choices[name]})
	}
	for i := range rows {
		v.Rows = append(v.Rows, InlineRow{ID: in.PK(&rows[i]), Values: in.Values(&rows[i])})
	}
	return v, nil
}

type boundRow[C any] struct {
	form   *Form
	child  *C
	remove bool
}

// bind reads the submitted rows. With parentID 0 (an add, or save as new) every row is
// created afresh and submitted ids are ignored.
func (in *InlineOf[C]) bind(ctx context.Context, db *gorm.DB, f *Form, parentID uint) (rowsWriter, error) {
	raw := f.Raw(in.Prefix + "-TOTAL_FORMS")
	if raw == "" {
		return nil, nil
	}
	total, err := strconv.Atoi(raw)
	if err != nil || total < 0 || total > maxInlineForms {
		f.Errors.Add(forms.NonField, "ManagementForm data is missing or has been tampered with.")
		return nil, nil
	}

	existing, err := in.children(ctx, db, parentID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*C, len(existing))
	for i := range existing {
		byID[in.PK(&existing[i])] = &existing[i]
	}

	rows := make([]boundRow[C], 0, total)
	for i := 0; i < total; i++ {
		sub := f.Sub(fmt.Sprintf("%s-%d", in.Prefix, i))
		deleted := sub.Bool("DELETE")

		var child *C
		if parentID != 0 {
			if id := sub.ID("id", false); id != nil {
				c, ok := byID[*id]
				if !ok {
					sub.fail("id", msgInvalidChoice)
					continue
				}
				child = c
			}
		}
		switch {
		case child != nil && deleted:
			rows = append(rows, boundRow[C]{form: sub, child: child, remove: true})
			continue
		case child == nil && (deleted || !sub.Filled(in.Fields...)):
			// an untouched extra form
			continue
		case child == nil:
			child = new(C)
		}
		in.Bind(sub, child)
		rows = append(rows, boundRow[C]{form: sub, child: child})
	}

	return func(tx *gorm.DB, parentID uint) error {
		for _, row := range rows {
			if err := in.write(tx, row, parentID); err != nil {
				return err
			}
		}
		return nil
	}, nil
}

func (in *InlineOf[C]) write(tx *gorm.DB, row boundRow[C], parentID uint) error {
	if row.remove {
		return models.TranslateDeleteError(tx.Delete(row.child).Error)
	}
	in.SetParent(row.child, parentID)
	if in.BeforeSave != nil {
		if err := in.BeforeSave(tx, row.form, row.child); err != nil {
			return row.form.qualify(err)
		}
	}
	var err error
	if in.PK(row.child) == 0 {
		err = models.Insert(tx, row.child)
	} else {
		err = models.UpdateAll(tx, row.child)
	}
	if err != nil {
		return row.form.qualify(err)
	}
	if in.AfterSave != nil {
		if err := in.AfterSave(tx, row.form, row.child); err != nil {
			return row.form.qualify(err)
		}
	}
	return nil
}

// qualify moves a validation error onto this form's keys.
func (f *Form) qualify(err error) error {
	var verr *models.ValidationError
	if f.prefix == "" || !errors.As(err, &verr) {
		return err
	}
	field := verr.Field
	if field == "" {
		return &models.ValidationError{Field: f.prefix, Message: verr.Message}
	}
	return &models.ValidationError{Field: f.key(field), Message: verr.Message}
}
