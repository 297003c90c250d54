// Package server assembles the site, the JSON API and the admin console into one HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"github.com/mytheresa/content-portal/app/admin"
	"github.com/mytheresa/content-portal/app/auth"
	"github.com/mytheresa/content-portal/app/authors"
	"github.com/mytheresa/content-portal/app/catalog"
	"github.com/mytheresa/content-portal/app/categories"
	"github.com/mytheresa/content-portal/app/config"
	"github.com/mytheresa/content-portal/app/logging"
	"github.com/mytheresa/content-portal/app/media"
	"github.com/mytheresa/content-portal/app/posts"
	"github.com/mytheresa/content-portal/app/publishers"
	"github.com/mytheresa/content-portal/app/web"
	"github.com/mytheresa/content-portal/models"
)

const shutdownTimeout = 5 * time.Second

// Handlers are the request handlers Routes mounts.
type Handlers struct {
	Posts      *posts.PostHandler
	Publishers *publishers.PublisherHandler
	Authors    *authors.AuthorHandler
	Login      *auth.LoginHandler
	Catalog    *catalog.CatalogHandler
	Categories *categories.CategoryHandler
	Admin      http.Handler
}

// Routes maps every public URL onto h.
func Routes(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Posts.HandleList)
	mux.HandleFunc("GET /post/{id}/{$}", h.Posts.HandleDetail)
	mux.HandleFunc("GET /post/new/{$}", auth.RequireLogin(h.Posts.HandleNew))
	mux.HandleFunc("POST /post/new/{$}", auth.RequireLogin(h.Posts.HandleNew))
	mux.HandleFunc("GET /post/{id}/edit", auth.RequireLogin(h.Posts.HandleEdit))
	mux.HandleFunc("POST /post/{id}/edit", auth.RequireLogin(h.Posts.HandleEdit))

	mux.HandleFunc("GET /publishers/{$}", h.Publishers.HandleList)
	mux.HandleFunc("GET /books/{fragment}/{$}", h.Publishers.HandleBooks)
	mux.HandleFunc("GET /authors/{id}/{$}", h.Authors.HandleDetail)

	mux.HandleFunc("GET /accounts/login/{$}", h.Login.HandleLoginForm)
	mux.HandleFunc("POST /accounts/login/{$}", h.Login.HandleLogin)
	mux.HandleFunc("POST /accounts/logout/{$}", h.Login.HandleLogout)

	mux.HandleFunc("GET /catalog", h.Catalog.HandleGet)
	mux.HandleFunc("GET /catalog/{sku}", h.Catalog.HandleGetProduct)
	mux.HandleFunc("GET /categories", h.Categories.HandleGetAll)
	mux.HandleFunc("POST /categories", h.Categories.HandleCreate)
	mux.HandleFunc("PUT /categories/{id}", h.Categories.HandleUpdate)

	mux.Handle("/admin/", h.Admin)
	return mux
}

type Server struct {
	cfg     *config.Config
	log     *log.Logger
	render  *web.Renderer
	handler http.Handler
}

// New builds the server on an open database.
func New(cfg *config.Config, db *gorm.DB, store media.Store, l *log.Logger) (*Server, error) {
	render, err := web.New(cfg.TemplateDir, l)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	users := models.NewUsersRepository(db)
	sessions, err := auth.NewSessions(cfg.Session, users)
	if err != nil {
		return nil, err
	}
	if cfg.Session.Secret == "" {
		l.Warn("SESSION_SECRET is not set: sessions end when the server restarts")
	}

	authorsRepo := models.NewAuthorsRepository(db)
	site := admin.NewSite(db, store, cfg.Admin, l)
	site.RegisterDefaults()

	mux := Routes(Handlers{
		Posts:      posts.NewPostHandler(models.NewPostsRepository(db), authorsRepo, render, l),
		Publishers: publishers.NewPublisherHandler(models.NewPublishersRepository(db), render, l),
		Authors:    authors.NewAuthorHandler(authorsRepo, render, l),
		Login:      auth.NewLoginHandler(users, sessions, render, l),
		Catalog:    catalog.NewCatalogHandler(models.NewProductsRepository(db)),
		Categories: categories.NewCategoryHandler(models.NewCategoriesRepository(db)),
		Admin:      site.Echo(),
	})

	return &Server{
		cfg:     cfg,
		log:     l,
		render:  render,
		handler: sessions.Middleware(logging.Requests(l, mux)),
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is done, then shuts down gracefully. With a template directory
// configured, edits to the templates are picked up without a restart.
func (s *Server) Run(ctx context.Context) error {
	if dir := s.cfg.TemplateDir; dir != "" {
		if err := s.render.Watch(ctx, dir); err != nil {
			s.log.Warnf("can not watch templates in %s: %v", dir, err)
		} else {
			s.log.Infof("watching templates in %s", dir)
		}
	}

	srv := &http.Server{
		Addr:              s.cfg.HTTP.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ch := make(chan error, 1)
	go func() {
		defer close(ch)
		s.log.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ch <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Infof("context has been done: %s, cause: %s", ctx.Err(), context.Cause(ctx))
	case err := <-ch:
		if err != nil {
			return fmt.Errorf("server stops with error: %w", err)
		}
		return nil
	}

	s.log.Info("shutting down...")
	qctx, qcancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer qcancel()
	if err := srv.Shutdown(qctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
