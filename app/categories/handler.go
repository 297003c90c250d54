package categories

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/mytheresa/content-portal/app/api"
	"github.com/mytheresa/content-portal/models"
)

type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	ParentID    *uint  `json:"parent_id"`
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
}

type CategoryProvider interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
}

type CategoryHandler struct {
	repo CategoryProvider
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{repo: r}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAllCategories(r.Context())
	if err != nil {
		api.ErrorResponse(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i := range categories {
		response[i] = toResponse(&categories[i])
	}

	api.OKResponse(w, response)
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	category, ok := decodeInput(w, r)
	if !ok {
		return
	}

	if err := h.repo.CreateCategory(r.Context(), category); err != nil {
		writeWriteError(w, err, "Failed to create category")
		return
	}

	api.JSONResponse(w, http.StatusCreated, map[string]any{
		"message": "Category created successfully",
		"id":      category.ID,
	})
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		api.ErrorResponse(w, http.StatusNotFound, "Category not found")
		return
	}

	category, ok := decodeInput(w, r)
	if !ok {
		return
	}
	category.ID = uint(id)

	if err := h.repo.UpdateCategory(r.Context(), category); err != nil {
		writeWriteError(w, err, "Failed to update category")
		return
	}

	api.OKResponse(w, map[string]string{
		"message": "Category updated successfully",
	})
}

func decodeInput(w http.ResponseWriter, r *http.Request) (*models.Category, bool) {
	var input CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return nil, false
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		api.ErrorResponse(w, http.StatusBadRequest, "Missing name")
		return nil, false
	}

	return &models.Category{
		Name:        input.Name,
		Description: input.Description,
		ParentID:    input.ParentID,
	}, true
}

func writeWriteError(w http.ResponseWriter, err error, fallback string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		api.ErrorResponse(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, models.ErrInvalidReference):
		api.ErrorResponse(w, http.StatusBadRequest, models.ErrUnknownParent.Message)
	case errors.Is(err, models.ErrNotFound):
		api.ErrorResponse(w, http.StatusNotFound, "Category not found")
	default:
		api.ErrorResponse(w, http.StatusInternalServerError, fallback)
	}
}

func toResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		DisplayName: c.String(),
		Description: c.Description,
		ParentID:    c.ParentID,
	}
}
