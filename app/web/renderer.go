// Package web renders the public site's HTML pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/labstack/gommon/log"

	"github.com/mytheresa/content-portal/app/auth"
	"github.com/mytheresa/content-portal/models"
)

//go:embed templates/*.html
var embedded embed.FS

const layout = "base.html"

// View is the value every page template executes against.
type View struct {
	User  *models.User
	Path  string
	Title string
	Data  any
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	mu    sync.RWMutex
	fsys  fs.FS
	pages map[string]*template.Template
	log   *log.Logger
}

// New parses the templates in dir, or the embedded templates when dir is empty.
func New(dir string, l *log.Logger) (*Renderer, error) {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(embedded, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}

	r := &Renderer{fsys: fsys, log: l}
	if err := r.Load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Load (re)parses every page. On failure the previous set stays in use.
func (r *Renderer) Load() error {
	names, err := fs.Glob(r.fsys, "*.html")
	if err != nil {
		return err
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		if name == layout {
			continue
		}
		t, err := template.New(layout).Funcs(Funcs).ParseFS(r.fsys, layout, name)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		pages[strings.TrimSuffix(name, path.Ext(name))] = t
	}

	r.mu.Lock()
	r.pages = pages
	r.mu.Unlock()
	return nil
}

// Pages lists the names of the loaded pages.
func (r *Renderer) Pages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.pages))
	for n := range r.pages {
		names = append(names, n)
	}
	return names
}

// Render writes page with status. The page is fully rendered before anything is written,
// so template failures still produce a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, page string, data any) {
	r.mu.RLock()
	t, ok := r.pages[page]
	r.mu.RUnlock()
	if !ok {
		r.log.Errorf("unknown page %q", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	view := View{
		User: auth.UserFromContext(req.Context()),
		Path: req.URL.RequestURI(),
		Data: data,
	}
	if titled, ok := data.(interface{ PageTitle() string }); ok {
		view.Title = titled.PageTitle()
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layout, view); err != nil {
		r.log.Errorf("render %s: %v", page, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.log.Warnf("write %s: %v", page, err)
	}
}

// Error renders the error page with a short message.
func (r *Renderer) Error(w http.ResponseWriter, req *http.Request, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	r.Render(w, req, status, "error", ErrorPage{Status: status, Message: message})
}

type ErrorPage struct {
	Status  int
	Message string
}

func (p ErrorPage) PageTitle() string {
	return http.StatusText(p.Status)
}
