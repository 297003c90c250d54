package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/gommon/log"

	"github.com/mytheresa/content-portal/app/forms"
	"github.com/mytheresa/content-portal/models"
)

const msgBadLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

type AccountProvider interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page string, data any)
}

type LoginPage struct {
	Username string
	Next     string
	Error    string
}

func (LoginPage) PageTitle() string {
	return "Log in"
}

type loginForm struct {
	Username string `schema:"username" validate:"required"`
	Password string `schema:"password" validate:"required"`
	Next     string `schema:"next"`
}

type LoginHandler struct {
	accounts AccountProvider
	sessions *Sessions
	render   Renderer
	log      *log.Logger
}

func NewLoginHandler(accounts AccountProvider, sessions *Sessions, render Renderer, l *log.Logger) *LoginHandler {
	return &LoginHandler{accounts: accounts, sessions: sessions, render: render, log: l}
}

func (h *LoginHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "login", LoginPage{Next: r.URL.Query().Get("next")})
}

func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	var f loginForm
	if errs := forms.Decode(&f, r.PostForm); errs != nil {
		h.render.Render(w, r, http.StatusOK, "login", LoginPage{Username: f.Username, Next: f.Next, Error: msgBadLogin})
		return
	}

	user, err := h.accounts.GetUserByUsername(r.Context(), f.Username)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		h.log.Errorf("login %q: %v", f.Username, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if user == nil || !user.IsActive || !user.CheckPassword(f.Password) {
		h.render.Render(w, r, http.StatusOK, "login", LoginPage{Username: f.Username, Next: f.Next, Error: msgBadLogin})
		return
	}

	if err := h.sessions.Issue(w, user); err != nil {
		h.log.Errorf("issue session for %q: %v", f.Username, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.log.Infof("user %q signed in", user.Username)
	http.Redirect(w, r, SafeNext(f.Next), http.StatusSeeOther)
}

func (h *LoginHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
