package web

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mytheresa/content-portal/app/auth"
	"github.com/mytheresa/content-portal/app/authors"
	"github.com/mytheresa/content-portal/app/forms"
	"github.com/mytheresa/content-portal/app/posts"
	"github.com/mytheresa/content-portal/app/publishers"
	"github.com/mytheresa/content-portal/models"
)

func TestRenderPages(t *testing.T) {
	r, err := New("", log.New("test"))
	require.NoError(t, err)

	published := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	author := &models.Author{ID: 3, Salutation: "Dr.", Name: "Ada", Headshot: models.Image{URL: "https://img/ada.png", Width: 80, Height: 80}}
	post := &models.Post{ID: 1, Title: "Hello <world>", Text: "line one\nline two\n\nsecond para", Author: author, PublishedDate: &published}
	acme := models.Publisher{ID: 1, Name: "Acme"}

	testCases := []struct {
		page     string
		data     any
		user     *models.User
		contains []string
	}{
		{
			page:     "post_list",
			data:     posts.ListPage{Posts: []models.Post{*post, {ID: 2, Title: "Draft"}}},
			contains: []string{`<a href="/post/1/">Hello &lt;world&gt;</a>`, "Dr. Ada", "draft", "<p>line one<br>line two</p>"},
		},
		{
			page:     "post_detail",
			data:     posts.DetailPage{Post: post},
			user:     &models.User{ID: 1, Username: "alice"},
			contains: []string{`href="/post/1/edit"`, "<title>Hello &lt;world&gt; | Blog</title>", "Log out alice"},
		},
		{
			page:     "post_edit",
			data:     posts.EditPage{Form: posts.PostForm{Title: "x"}, Errors: forms.Errors{"text": {forms.MsgRequired}}},
			contains: []string{"New post", forms.MsgRequired, `value="x"`},
		},
		{
			page:     "publisher_list",
			data:     publishers.ListPage{Publishers: []models.Publisher{acme}},
			contains: []string{`href="/books/Acme/"`},
		},
		{
			page:     "book_list",
			data:     publishers.BooksPage{Publisher: &acme, Books: []models.Book{{Title: "Go", Authors: []models.Author{*author, {ID: 4, Name: "Bob"}}}}},
			contains: []string{"Books by Acme", "Go by", ">Ada</a>, <a"},
		},
		{
			page:     "publisher_ambiguous",
			data:     publishers.AmbiguousPage{Fragment: "ac", Candidates: []models.Publisher{acme, {Name: "Acme Press"}}},
			contains: []string{"Acme Press"},
		},
		{
			page:     "author_detail",
			data:     authors.DetailPage{Author: author},
			contains: []string{"Dr. Ada", `width="80"`},
		},
		{
			page:     "login",
			data:     auth.LoginPage{Next: "/post/new/", Error: "bad"},
			contains: []string{`name="next" value="/post/new/"`, "bad"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.page, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/somewhere/", nil)
			if tc.user != nil {
				req = req.WithContext(auth.WithUser(req.Context(), tc.user))
			}
			rec := httptest.NewRecorder()

			r.Render(rec, req, http.StatusOK, tc.page, tc.data)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			for _, s := range tc.contains {
				assert.Contains(t, rec.Body.String(), s)
			}
		})
	}
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := New("", log.New("test"))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	r.Render(rec, httptest.NewRequest("GET", "/", nil), http.StatusOK, "nope", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestError(t *testing.T) {
	r, err := New("", log.New("test"))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	r.Error(rec, httptest.NewRequest("GET", "/", nil), http.StatusNotFound, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not Found")
	assert.Contains(t, rec.Body.String(), `/accounts/login/?next=`)
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	write("base.html", `<main>{{block "content" .}}{{end}}</main>`)
	write("hello.html", `{{define "content"}}v1{{end}}`)

	r, err := New(dir, log.New("test"))
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, r.Pages())

	render := func() string {
		rec := httptest.NewRecorder()
		r.Render(rec, httptest.NewRequest("GET", "/", nil), http.StatusOK, "hello", nil)
		return rec.Body.String()
	}
	assert.Equal(t, "<main>v1</main>", render())

	write("hello.html", `{{define "content"}}v2{{end}}`)
	require.NoError(t, r.Load())
	assert.Equal(t, "<main>v2</main>", render())

	write("hello.html", `{{define "content"}}{{end`)
	assert.Error(t, r.Load())
	assert.Equal(t, "<main>v2</main>", render(), "a broken edit keeps the last good set")
}

func TestLinebreaks(t *testing.T) {
	assert.Equal(t, template.HTML("<p>a<br>&lt;b&gt;</p>\n<p>c</p>\n"), linebreaks("a\r\n<b>\n\n\nc"))
	assert.Equal(t, template.HTML(""), linebreaks("  "))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC)
	assert.Equal(t, "Mar. 1, 2024, 10:05", formatDate(d))
	assert.Equal(t, "Mar. 1, 2024, 10:05", formatDate(&d))
	assert.Equal(t, "", formatDate((*time.Time)(nil)))
	assert.Equal(t, "", formatDate(time.Time{}))
}
