package authors

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/mytheresa/content-portal/models"
)

type AuthorProvider interface {
	TouchAuthor(ctx context.Context, id uint, at time.Time) (*models.Author, error)
}

type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page string, data any)
	Error(w http.ResponseWriter, r *http.Request, status int, message string)
}

type DetailPage struct {
	Author *models.Author
}

func (p DetailPage) PageTitle() string {
	return p.Author.String()
}

type AuthorHandler struct {
	repo   AuthorProvider
	render Renderer
	log    *log.Logger
	now    func() time.Time
}

func NewAuthorHandler(repo AuthorProvider, render Renderer, l *log.Logger) *AuthorHandler {
	return &AuthorHandler{repo: repo, render: render, log: l, now: time.Now}
}

// HandleDetail records the visit as the author's last access and shows the author.
func (h *AuthorHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		h.render.Error(w, r, http.StatusNotFound, "")
		return
	}

	author, err := h.repo.TouchAuthor(r.Context(), uint(id), h.now())
	if errors.Is(err, models.ErrNotFound) {
		h.render.Error(w, r, http.StatusNotFound, "No author matches the given query.")
		return
	}
	if err != nil {
		h.log.Errorf("touch author %d: %v", id, err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}
	h.render.Render(w, r, http.StatusOK, "author_detail", DetailPage{Author: author})
}
