package posts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/mytheresa/content-portal/app/auth"
	"github.com/mytheresa/content-portal/app/forms"
	"github.com/mytheresa/content-portal/models"
)

type PostProvider interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id uint) (*models.Post, error)
	SavePost(ctx context.Context, post *models.Post) error
}

type AuthorProvider interface {
	EnsureForUser(ctx context.Context, user *models.User) (*models.Author, error)
}

type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page string, data any)
	Error(w http.ResponseWriter, r *http.Request, status int, message string)
}

type ListPage struct {
	Posts []models.Post
}

type DetailPage struct {
	Post *models.Post
}

func (p DetailPage) PageTitle() string {
	return p.Post.Title
}

// PostForm is the submitted title and text of a post.
type PostForm struct {
	Title string `schema:"title" validate:"required,max=200"`
	Text  string `schema:"text" validate:"required"`
}

type EditPage struct {
	// Post is nil when creating.
	Post   *models.Post
	Form   PostForm
	Errors forms.Errors
}

func (p EditPage) PageTitle() string {
	if p.Post == nil {
		return "New post"
	}
	return "Edit " + p.Post.Title
}

type PostHandler struct {
	repo    PostProvider
	authors AuthorProvider
	render  Renderer
	log     *log.Logger
	now     func() time.Time
}

func NewPostHandler(repo PostProvider, authors AuthorProvider, render Renderer, l *log.Logger) *PostHandler {
	return &PostHandler{
		repo:    repo,
		authors: authors,
		render:  render,
		log:     l,
		now:     time.Now,
	}
}

func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.repo.ListPosts(r.Context())
	if err != nil {
		h.log.Errorf("list posts: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}
	h.render.Render(w, r, http.StatusOK, "post_list", ListPage{Posts: posts})
}

func (h *PostHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	post, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.render.Render(w, r, http.StatusOK, "post_detail", DetailPage{Post: post})
}

func (h *PostHandler) HandleNew(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render.Render(w, r, http.StatusOK, "post_edit", EditPage{})
		return
	}
	h.save(w, r, &models.Post{})
}

func (h *PostHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	post, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPost {
		h.render.Render(w, r, http.StatusOK, "post_edit", EditPage{
			Post: post,
			Form: PostForm{Title: post.Title, Text: post.Text},
		})
		return
	}
	h.save(w, r, post)
}

// save validates the submitted form into post, attributes it to the requester and
// stamps it as published now.
func (h *PostHandler) save(w http.ResponseWriter, r *http.Request, post *models.Post) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, auth.LoginURL(r.URL.RequestURI()), http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.render.Error(w, r, http.StatusBadRequest, "Malformed form submission.")
		return
	}

	var f PostForm
	page := EditPage{}
	if post.ID != 0 {
		page.Post = post
	}
	if errs := forms.Decode(&f, r.PostForm); errs != nil {
		page.Form, page.Errors = f, errs
		h.render.Render(w, r, http.StatusOK, "post_edit", page)
		return
	}

	author, err := h.authors.EnsureForUser(r.Context(), user)
	if err != nil {
		h.log.Errorf("author profile for %q: %v", user.Username, err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}

	post.Title = f.Title
	post.Text = f.Text
	post.Publish(author, h.now())

	if err := h.repo.SavePost(r.Context(), post); err != nil {
		if errs, ok := forms.FromError(err); ok {
			page.Form, page.Errors = f, errs
			h.render.Render(w, r, http.StatusOK, "post_edit", page)
			return
		}
		if errors.Is(err, models.ErrNotFound) {
			h.render.Error(w, r, http.StatusNotFound, "No post matches the given query.")
			return
		}
		h.log.Errorf("save post: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d/", post.ID), http.StatusSeeOther)
}

func (h *PostHandler) lookup(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		h.render.Error(w, r, http.StatusNotFound, "No post matches the given query.")
		return nil, false
	}
	post, err := h.repo.GetPost(r.Context(), uint(id))
	if errors.Is(err, models.ErrNotFound) {
		h.render.Error(w, r, http.StatusNotFound, "No post matches the given query.")
		return nil, false
	}
	if err != nil {
		h.log.Errorf("get post %d: %v", id, err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return nil, false
	}
	return post, true
}
