package admin

import (
	"github.com/mytheresa/content-portal/app/forms"
	"github.com/mytheresa/content-portal/models"
)

type Index struct {
	SiteHeader string      `json:"site_header"`
	SiteTitle  string      `json:"site_title"`
	IndexTitle string      `json:"index_title"`
	Models     []ModelInfo `json:"models"`
}

type ModelInfo struct {
	Name          string `json:"name"`
	Verbose       string `json:"verbose_name"`
	VerbosePlural string `json:"verbose_name_plural"`
	URL           string `json:"url"`
	AddURL        string `json:"add_url"`
}

type ChangeList struct {
	Model        string   `json:"model"`
	Title        string   `json:"title"`
	Columns      []Column `json:"columns"`
	Results      []Row    `json:"results"`
	Count        int64    `json:"count"`
	Page         int      `json:"page"`
	Pages        int      `json:"pages"`
	PerPage      int      `json:"per_page"`
	Query        string   `json:"q,omitempty"`
	SearchFields []string `json:"search_fields,omitempty"`
	Filters      []Filter `json:"filters,omitempty"`
}

type Column struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type Row struct {
	ID     uint           `json:"id"`
	URL    string         `json:"url"`
	Label  string         `json:"label"`
	Values map[string]any `json:"values"`
}

type Filter struct {
	Field    string          `json:"field"`
	Label    string          `json:"label"`
	Selected string          `json:"selected,omitempty"`
	Choices  []models.Choice `json:"choices"`
}

type ChangeForm struct {
	Model      string         `json:"model"`
	Title      string         `json:"title"`
	ID         uint           `json:"id,omitempty"`
	Label      string         `json:"label,omitempty"`
	Fieldsets  []FieldsetView `json:"fieldsets"`
	Inlines    []InlineView   `json:"inlines,omitempty"`
	SaveAs     bool           `json:"save_as"`
	DeleteURL  string         `json:"delete_url,omitempty"`
	ViewOnSite string         `json:"view_on_site,omitempty"`
}

type FieldsetView struct {
	Name   string      `json:"name,omitempty"`
	Fields []FieldView `json:"fields"`
}

type FieldView struct {
	Name     string          `json:"name"`
	Label    string          `json:"label"`
	Value    any             `json:"value"`
	Readonly bool            `json:"readonly,omitempty"`
	RawID    bool            `json:"raw_id,omitempty"`
	Link     any             `json:"link,omitempty"`
	Choices  []models.Choice `json:"choices,omitempty"`
}

type InlineView struct {
	Prefix     string      `json:"prefix"`
	Verbose    string      `json:"verbose_name"`
	Style      InlineStyle `json:"style"`
	Fields     []FieldView `json:"fields"`
	Extra      int         `json:"extra"`
	TotalForms int         `json:"total_forms"`
	Rows       []InlineRow `json:"rows"`
}

type InlineRow struct {
	ID     uint           `json:"id"`
	Values map[string]any `json:"values"`
}

// Saved answers a successful add or change.
type Saved struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Invalid answers a rejected submission; Errors are keyed by form key.
type Invalid struct {
	Errors forms.Errors `json:"errors"`
}

type Deleted struct {
	Message string `json:"message"`
}
