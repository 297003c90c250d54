package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mytheresa/content-portal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// --- Tests ---

func TestHandleGetProduct(t *testing.T) {
	color := &models.Attribute{ID: 1, Name: "Color", Type: models.AttributeTypeColor}
	size := &models.Attribute{ID: 2, Name: "Size", Type: models.AttributeTypeSelect}

	allMockProducts := []models.Template{
		{
			SKU:   "PROD001",
			Name:  "Desk",
			Type:  models.ProductTypeConsumable,
			Price: decimal.NewFromFloat(15.50),
			Categ: &models.Category{ID: 2, Name: "Office", Parent: &models.Category{ID: 1, Name: "All"}},
			Image: models.Image{URL: "https://cdn.example.com/desk.png"},
			Lines: []models.AttributeValueLine{
				{
					AttributeID: 1,
					Attribute:   color,
					Values: []models.AttributeValue{
						{Name: "Black", HTMLColor: "#000000", AttributeID: 1},
						{Name: "White", HTMLColor: "#ffffff", AttributeID: 1},
					},
				},
				{
					AttributeID: 2,
					Attribute:   size,
					Values:      []models.AttributeValue{{Name: "L", AttributeID: 2}},
				},
			},
		},
		{
			SKU:   "PROD100",
			Name:  "Support",
			Type:  models.ProductTypeService,
			Price: decimal.NewFromFloat(30.00),
		},
	}

	testCases := []struct {
		name               string
		sku                string
		mockRepoSetup      func() *MockProductRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkRepoCall      func(t *testing.T, repo *MockProductRepo)
	}{
		{
			name: "Success with attribute lines",
			sku:  "PROD001",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: allMockProducts}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp ProductDetail
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, "PROD001", resp.SKU)
				assert.Equal(t, 15.50, resp.Price)
				assert.Equal(t, "consu", resp.Type)
				assert.Equal(t, "https://cdn.example.com/desk.png", resp.Image)
				assert.Equal(t, "All / Office", resp.Category.DisplayName)
				assert.Len(t, resp.Lines, 2)
				assert.Equal(t, "Color", resp.Lines[0].Attribute)
				assert.Equal(t, "color", resp.Lines[0].Type)
				assert.Equal(t, []Value{{Name: "Black", HTMLColor: "#000000"}, {Name: "White", HTMLColor: "#ffffff"}}, resp.Lines[0].Values)
				assert.Equal(t, "Size", resp.Lines[1].Attribute)
			},
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Equal(t, "PROD001", repo.lastCalledSKU)
			},
		},
		{
			name: "Product not found",
			sku:  "NONEXISTENT",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: allMockProducts}
			},
			expectedStatusCode: http.StatusNotFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "Product not found", errResp["error"])
			},
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Equal(t, "NONEXISTENT", repo.lastCalledSKU)
			},
		},
		{
			name: "Repository internal error",
			sku:  "PROD-ERR",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{Err: errors.New("db connection lost")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "Failed to retrieve product", errResp["error"])
			},
		},
		{
			name: "Product without lines or category",
			sku:  "PROD100",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: allMockProducts}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp ProductDetail
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, "PROD100", resp.SKU)
				assert.Nil(t, resp.Category)
				assert.Len(t, resp.Lines, 0)
			},
		},
		{
			name: "Empty sku in path",
			sku:  "",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: allMockProducts}
			},
			expectedStatusCode: http.StatusNotFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "Product not found", errResp["error"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewCatalogHandler(mockRepo)
			req := httptest.NewRequest("GET", "/catalog/"+tc.sku, nil)
			req.SetPathValue("sku", tc.sku)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleGetProduct(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)

			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}

			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, mockRepo)
			}
		})
	}
}
