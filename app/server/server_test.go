package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoutes(t *testing.T) {
	mux := Routes(Handlers{Admin: http.NotFoundHandler()})

	testCases := []struct {
		method      string
		path        string
		wantPattern string
	}{
		{"GET", "/", "GET /{$}"},
		{"GET", "/post/12/", "GET /post/{id}/{$}"},
		{"GET", "/post/new/", "GET /post/new/{$}"},
		{"POST", "/post/new/", "POST /post/new/{$}"},
		{"POST", "/post/12/edit", "POST /post/{id}/edit"},
		{"GET", "/publishers/", "GET /publishers/{$}"},
		{"GET", "/books/Acme/", "GET /books/{fragment}/{$}"},
		{"GET", "/authors/3/", "GET /authors/{id}/{$}"},
		{"POST", "/accounts/login/", "POST /accounts/login/{$}"},
		{"POST", "/accounts/logout/", "POST /accounts/logout/{$}"},
		{"GET", "/catalog", "GET /catalog"},
		{"GET", "/catalog/SKU-1", "GET /catalog/{sku}"},
		{"POST", "/categories", "POST /categories"},
		{"PUT", "/categories/4", "PUT /categories/{id}"},
		{"GET", "/admin/", "/admin/"},
		{"POST", "/admin/publisher/1/change/", "/admin/"},
	}
	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			_, pattern := mux.Handler(httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.wantPattern, pattern)
		})
	}
}

func TestUnroutedRequests(t *testing.T) {
	mux := Routes(Handlers{Admin: http.NotFoundHandler()})

	testCases := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{"GET", "/nowhere", http.StatusNotFound},
		{"DELETE", "/post/1/", http.StatusMethodNotAllowed},
		{"GET", "/accounts/logout/", http.StatusMethodNotAllowed},
	}
	for _, tc := range testCases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.wantStatus, rec.Code, "%s %s", tc.method, tc.path)
	}
}
