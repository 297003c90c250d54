// Package admin serves the staff console: list, add, change and delete pages for every
// registered model, as JSON over echo.
package admin

import (
	"strings"
	"unicode"
)

const defaultPerPage = 100

type InlineStyle string

const (
	Stacked InlineStyle = "stacked"
	Tabular InlineStyle = "tabular"
)

type Fieldset struct {
	Name   string   `json:"name,omitempty"`
	Fields []string `json:"fields"`
}

// ModelAdmin is the declarative configuration of one model's admin pages. Field names are
// form keys; ListFilter and SearchFields name database columns.
type ModelAdmin struct {
	Fields         []string
	Fieldsets      []Fieldset
	ListDisplay    []string
	ListFilter     []string
	SearchFields   []string
	ReadonlyFields []string
	RawIDFields    []string
	SaveAs         bool
	Labels         map[string]string
	PerPage        int
}

func (m *ModelAdmin) fieldsets() []Fieldset {
	if len(m.Fieldsets) > 0 {
		return m.Fieldsets
	}
	return []Fieldset{{Fields: m.Fields}}
}

func (m *ModelAdmin) perPage() int {
	if m.PerPage > 0 {
		return m.PerPage
	}
	return defaultPerPage
}

func (m *ModelAdmin) readonly(field string) bool {
	return contains(m.ReadonlyFields, field)
}

func (m *ModelAdmin) rawID(field string) bool {
	return contains(m.RawIDFields, field)
}

func (m *ModelAdmin) filters(field string) bool {
	return contains(m.ListFilter, field)
}

func (m *ModelAdmin) label(field string) string {
	if l, ok := m.Labels[field]; ok {
		return l
	}
	return humanize(field)
}

// humanize turns a field name such as "state_province" into "State province".
func humanize(field string) string {
	s := strings.TrimSuffix(field, "_id")
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
