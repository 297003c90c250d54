package admin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mytheresa/content-portal/app/forms"
	"github.com/mytheresa/content-portal/models"
)

// strColumn is the list column showing each object's string form.
const strColumn = "__str__"

// Model is a registered admin model.
type Model interface {
	Info() ModelInfo
	saveAs() bool
	changelist(ctx context.Context, s *Site, query url.Values) (*ChangeList, error)
	changeForm(ctx context.Context, s *Site, id uint) (*ChangeForm, error)
	save(ctx context.Context, s *Site, id uint, f *Form) (uint, forms.Errors, error)
	remove(ctx context.Context, s *Site, id uint) (string, error)
}

// Resource registers T with the admin.
type Resource[T any] struct {
	Name          string
	Verbose       string
	VerbosePlural string
	Admin         ModelAdmin
	Inlines       []Inline
	Preload       []string
	Order         string

	PK func(obj *T) uint
	// New returns the object an add form starts from. It defaults to new(T).
	New func(ctx context.Context, db *gorm.DB) (*T, error)
	// Values are obj's form values by field name.
	Values func(obj *T) map[string]any
	// Columns computes list columns that are not form values, such as related links.
	Columns   map[string]func(obj *T) any
	Bind      func(f *Form, obj *T)
	Choices   func(ctx context.Context, db *gorm.DB) (map[string][]models.Choice, error)
	AfterSave func(tx *gorm.DB, f *Form, obj *T) error
	// ViewOnSite returns the public page of obj, or "".
	ViewOnSite func(publicURL string, obj *T) string
	// Images lists the stored images that go away with obj.
	Images func(obj *T) []models.Image
}

func (r *Resource[T]) Info() ModelInfo {
	return ModelInfo{
		Name:          r.Name,
		Verbose:       r.Verbose,
		VerbosePlural: r.VerbosePlural,
		URL:           "/admin/" + r.Name + "/",
		AddURL:        "/admin/" + r.Name + "/add/",
	}
}

func (r *Resource[T]) saveAs() bool {
	return r.Admin.SaveAs
}

func (r *Resource[T]) changeURL(id uint) string {
	return fmt.Sprintf("/admin/%s/%d/change/", r.Name, id)
}

func (r *Resource[T]) order() string {
	if r.Order != "" {
		return r.Order
	}
	return "id DESC"
}

func (r *Resource[T]) preload(q *gorm.DB) *gorm.DB {
	for _, p := range r.Preload {
		q = q.Preload(p)
	}
	return q
}

func (r *Resource[T]) load(ctx context.Context, db *gorm.DB, id uint) (*T, error) {
	obj := new(T)
	if err := r.preload(db.WithContext(ctx)).First(obj, id).Error; err != nil {
		return nil, models.TranslateError(err)
	}
	return obj, nil
}

func (r *Resource[T]) newObject(ctx context.Context, db *gorm.DB) (*T, error) {
	if r.New != nil {
		return r.New(ctx, db)
	}
	return new(T), nil
}

func (r *Resource[T]) changelist(ctx context.Context, s *Site, query url.Values) (*ChangeList, error) {
	q := s.db.WithContext(ctx).Model(new(T))

	term := strings.TrimSpace(query.Get("q"))
	if len(r.Admin.SearchFields) > 0 {
		for _, word := range strings.Fields(strings.ToLower(term)) {
			like := "%" + models.EscapeLike(word) + "%"
			conds := make([]string, len(r.Admin.SearchFields))
			args := make([]any, len(r.Admin.SearchFields))
			for i, col := range r.Admin.SearchFields {
				conds[i] = "LOWER(" + col + ") LIKE ?"
				args[i] = like
			}
			q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
		}
	}

	filters := make([]Filter, 0, len(r.Admin.ListFilter))
	for _, col := range r.Admin.ListFilter {
		choices, err := r.filterChoices(ctx, s.db, col)
		if err != nil {
			return nil, fmt.Errorf("filter choices for %s.%s: %w", r.Name, col, err)
		}
		selected := query.Get(col)
		if selected != "" {
			q = q.Where(clause.Eq{Column: clause.Column{Name: col}, Value: selected})
		}
		filters = append(filters, Filter{Field: col, Label: r.Admin.label(col), Selected: selected, Choices: choices})
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	perPage := r.Admin.perPage()
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	page, _ := strconv.Atoi(query.Get("p"))
	page = max(1, min(page, pages))

	var objs []T
	err := r.preload(q).Order(r.order()).Offset((page - 1) * perPage).Limit(perPage).Find(&objs).Error
	if err != nil {
		return nil, err
	}

	display := r.Admin.ListDisplay
	if len(display) == 0 {
		display = []string{strColumn}
	}
	cl := &ChangeList{
		Model:        r.Name,
		Title:        "Select " + r.Verbose + " to change",
		Count:        total,
		Page:         page,
		Pages:        pages,
		PerPage:      perPage,
		Query:        term,
		SearchFields: r.Admin.SearchFields,
		Filters:      filters,
		Results:      make([]Row, 0, len(objs)),
	}
	for _, name := range display {
		label := r.Admin.label(name)
		if name == strColumn {
			label = humanize(r.Verbose)
		}
		cl.Columns = append(cl.Columns, Column{Name: name, Label: label})
	}
	for i := range objs {
		obj := &objs[i]
		values := r.Values(obj)
		row := Row{ID: r.PK(obj), URL: r.changeURL(r.PK(obj)), Label: fmt.Sprint(obj), Values: make(map[string]any, len(display))}
		for _, name := range display {
			row.Values[name] = r.cell(obj, values, name)
		}
		cl.Results = append(cl.Results, row)
	}
	return cl, nil
}

func (r *Resource[T]) cell(obj *T, values map[string]any, name string) any {
	if fn, ok := r.Columns[name]; ok {
		return fn(obj)
	}
	if name == strColumn {
		return fmt.Sprint(obj)
	}
	return values[name]
}

// filterChoices lists the distinct non-empty values of col.
func (r *Resource[T]) filterChoices(ctx context.Context, db *gorm.DB, col string) ([]models.Choice, error) {
	var values []string
	err := db.WithContext(ctx).Model(new(T)).Distinct().Order(col).Pluck(col, &values).Error
	if err != nil {
		return nil, err
	}
	choices := make([]models.Choice, 0, len(values))
	for _, v := range values {
		if v != "" {
			choices = append(choices, models.Choice{Value: v, Label: v})
		}
	}
	return choices, nil
}

func (r *Resource[T]) changeForm(ctx context.Context, s *Site, id uint) (*ChangeForm, error) {
	var (
		obj *T
		err error
	)
	if id == 0 {
		obj, err = r.newObject(ctx, s.db)
	} else {
		obj, err = r.load(ctx, s.db, id)
	}
	if err != nil {
		return nil, err
	}

	choices := map[string][]models.Choice{}
	if r.Choices != nil {
		if choices, err = r.Choices(ctx, s.db); err != nil {
			return nil, fmt.Errorf("choices for %s: %w", r.Name, err)
		}
	}

	pk := r.PK(obj)
	form := &ChangeForm{Model: r.Name, Title: "Add " + r.Verbose, SaveAs: r.Admin.SaveAs}
	if pk != 0 {
		form.Title = "Change " + r.Verbose
		form.ID = pk
		form.Label = fmt.Sprint(obj)
		form.DeleteURL = fmt.Sprintf("/admin/%s/%d/delete/", r.Name, pk)
		if r.ViewOnSite != nil {
			form.ViewOnSite = r.ViewOnSite(s.cfg.PublicURL, obj)
		}
	}

	values := r.Values(obj)
	for _, fs := range r.Admin.fieldsets() {
		view := FieldsetView{Name: fs.Name}
		for _, name := range fs.Fields {
			fv := FieldView{
				Name:     name,
				Label:    r.Admin.label(name),
				Value:    values[name],
				Readonly: r.Admin.readonly(name),
				RawID:    r.Admin.rawID(name),
			}
			if fn, ok := r.Columns[name]; ok && fv.RawID {
				fv.Link = fn(obj)
			}
			if !fv.RawID && !fv.Readonly {
				fv.Choices = choices[name]
			}
			view.Fields = append(view.Fields, fv)
		}
		form.Fieldsets = append(form.Fieldsets, view)
	}

	for _, in := range r.Inlines {
		v, err := in.view(ctx, s.db, pk)
		if err != nil {
			return nil, err
		}
		form.Inlines = append(form.Inlines, v)
	}
	return form, nil
}

// save binds f onto the object with the given id, or onto a new object when id is 0, and
// writes it together with its inline rows. Rejected input comes back as form errors.
func (r *Resource[T]) save(ctx context.Context, s *Site, id uint, f *Form) (uint, forms.Errors, error) {
	var (
		obj *T
		err error
	)
	if id == 0 {
		obj, err = r.newObject(ctx, s.db)
	} else {
		obj, err = r.load(ctx, s.db, id)
	}
	if err != nil {
		return 0, nil, err
	}

	r.Bind(f, obj)
	writers := make([]rowsWriter, 0, len(r.Inlines))
	for _, in := range r.Inlines {
		w, err := in.bind(ctx, s.db, f, r.PK(obj))
		if err != nil {
			return 0, nil, err
		}
		if w != nil {
			writers = append(writers, w)
		}
	}
	if !f.Errors.Empty() {
		return 0, f.Errors, nil
	}

	if err := f.upload(ctx, s.store); err != nil {
		f.finish(ctx, s.store, s.log, false)
		return 0, nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var werr error
		if r.PK(obj) == 0 {
			werr = models.Insert(tx, obj)
		} else {
			werr = models.UpdateAll(tx, obj)
		}
		if werr != nil {
			return werr
		}
		if r.AfterSave != nil {
			if werr = r.AfterSave(tx, f, obj); werr != nil {
				return werr
			}
		}
		for _, w := range writers {
			if werr = w(tx, r.PK(obj)); werr != nil {
				return werr
			}
		}
		return nil
	})
	f.finish(ctx, s.store, s.log, err == nil)
	if err != nil {
		if errs, ok := r.saveErrors(err); ok {
			return 0, errs, nil
		}
		return 0, nil, err
	}
	return r.PK(obj), nil, nil
}

// saveErrors turns a rejected write into form errors.
func (r *Resource[T]) saveErrors(err error) (forms.Errors, bool) {
	if errs, ok := forms.FromError(err); ok {
		return errs, true
	}
	switch {
	case errors.Is(err, models.ErrDuplicate):
		return forms.Errors{forms.NonField: {humanize(r.Verbose) + " with these values already exists."}}, true
	case errors.Is(err, models.ErrInvalidReference):
		return forms.Errors{forms.NonField: {msgInvalidChoice}}, true
	case errors.Is(err, models.ErrProtected):
		return forms.Errors{forms.NonField: {"A removed row is still referenced by other records."}}, true
	}
	return nil, false
}

func (r *Resource[T]) remove(ctx context.Context, s *Site, id uint) (string, error) {
	obj, err := r.load(ctx, s.db, id)
	if err != nil {
		return "", err
	}
	if err := models.TranslateDeleteError(s.db.WithContext(ctx).Delete(obj).Error); err != nil {
		return "", err
	}
	if r.Images != nil {
		for _, img := range r.Images(obj) {
			if img.IsZero() {
				continue
			}
			if err := s.store.Destroy(ctx, img); err != nil {
				s.log.Warnf("destroy image %s of %s %d: %v", img.PublicID, r.Name, id, err)
			}
		}
	}
	return fmt.Sprint(obj), nil
}
