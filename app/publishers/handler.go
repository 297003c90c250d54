package publishers

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/labstack/gommon/log"

	"github.com/mytheresa/content-portal/models"
)

// fragmentPattern is what /books/{fragment}/ accepts: letters, digits, underscore and hyphen.
var fragmentPattern = regexp.MustCompile(`^[\p{L}\p{N}_-]+$`)

type PublisherProvider interface {
	ListPublishers(ctx context.Context) ([]models.Publisher, error)
	ResolvePublisher(ctx context.Context, fragment string) (*models.Publisher, error)
	ListBooks(ctx context.Context, publisherID uint) ([]models.Book, error)
}

type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page string, data any)
	Error(w http.ResponseWriter, r *http.Request, status int, message string)
}

type ListPage struct {
	Publishers []models.Publisher
}

func (ListPage) PageTitle() string {
	return "Publishers"
}

type BooksPage struct {
	Publisher *models.Publisher
	Books     []models.Book
}

func (p BooksPage) PageTitle() string {
	return "Books by " + p.Publisher.Name
}

type AmbiguousPage struct {
	Fragment   string
	Candidates []models.Publisher
}

type PublisherHandler struct {
	repo   PublisherProvider
	render Renderer
	log    *log.Logger
}

func NewPublisherHandler(repo PublisherProvider, render Renderer, l *log.Logger) *PublisherHandler {
	return &PublisherHandler{repo: repo, render: render, log: l}
}

func (h *PublisherHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	publishers, err := h.repo.ListPublishers(r.Context())
	if err != nil {
		h.log.Errorf("list publishers: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}
	h.render.Render(w, r, http.StatusOK, "publisher_list", ListPage{Publishers: publishers})
}

// HandleBooks lists the books of the publisher whose name matches the path fragment.
func (h *PublisherHandler) HandleBooks(w http.ResponseWriter, r *http.Request) {
	fragment := r.PathValue("fragment")
	if !fragmentPattern.MatchString(fragment) {
		h.render.Error(w, r, http.StatusNotFound, "")
		return
	}

	publisher, err := h.repo.ResolvePublisher(r.Context(), fragment)
	var ambiguous *models.AmbiguousMatchError
	switch {
	case errors.Is(err, models.ErrNotFound):
		h.render.Error(w, r, http.StatusNotFound, "No publisher matches "+fragment+".")
		return
	case errors.As(err, &ambiguous):
		h.render.Render(w, r, http.StatusConflict, "publisher_ambiguous", AmbiguousPage{
			Fragment:   ambiguous.Fragment,
			Candidates: ambiguous.Candidates,
		})
		return
	case err != nil:
		h.log.Errorf("resolve publisher %q: %v", fragment, err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}

	books, err := h.repo.ListBooks(r.Context(), publisher.ID)
	if err != nil {
		h.log.Errorf("list books of publisher %d: %v", publisher.ID, err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}
	h.render.Render(w, r, http.StatusOK, "book_list", BooksPage{Publisher: publisher, Books: books})
}
