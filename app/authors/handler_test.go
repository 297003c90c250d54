package authors

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mytheresa/content-portal/models"
)

type MockAuthorRepo struct {
	Authors map[uint]*models.Author
	Err     error
	Touched []time.Time
}

func (m *MockAuthorRepo) TouchAuthor(_ context.Context, id uint, at time.Time) (*models.Author, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	a, ok := m.Authors[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	m.Touched = append(m.Touched, at)
	a.LastAccessed = &at
	return a, nil
}

type MockRenderer struct {
	Page string
	Data any
}

func (m *MockRenderer) Render(w http.ResponseWriter, _ *http.Request, status int, page string, data any) {
	m.Page, m.Data = page, data
	w.WriteHeader(status)
}

func (m *MockRenderer) Error(w http.ResponseWriter, _ *http.Request, status int, _ string) {
	m.Page = "error"
	w.WriteHeader(status)
}

func TestHandleDetail(t *testing.T) {
	visits := []time.Time{
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
	}

	repo := &MockAuthorRepo{Authors: map[uint]*models.Author{1: {ID: 1, Name: "Ada"}}}
	render := &MockRenderer{}
	h := NewAuthorHandler(repo, render, log.New("test"))

	for _, at := range visits {
		h.now = func() time.Time { return at }
		req := httptest.NewRequest("GET", "/authors/1/", nil)
		req.SetPathValue("id", "1")
		rec := httptest.NewRecorder()

		h.HandleDetail(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		page := render.Data.(DetailPage)
		assert.Equal(t, at, *page.Author.LastAccessed, "every view records its own time")
	}
	assert.Equal(t, visits, repo.Touched)
}

func TestHandleDetailErrors(t *testing.T) {
	testCases := []struct {
		name       string
		id         string
		err        error
		wantStatus int
	}{
		{name: "unknown author", id: "2", wantStatus: http.StatusNotFound},
		{name: "bad id", id: "x", wantStatus: http.StatusNotFound},
		{name: "db error", id: "1", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &MockAuthorRepo{Authors: map[uint]*models.Author{1: {ID: 1}}, Err: tc.err}
			render := &MockRenderer{}
			h := NewAuthorHandler(repo, render, log.New("test"))
			req := httptest.NewRequest("GET", "/authors/"+tc.id+"/", nil)
			req.SetPathValue("id", tc.id)
			rec := httptest.NewRecorder()

			h.HandleDetail(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "error", render.Page)
			assert.Empty(t, repo.Touched)
		})
	}
}
