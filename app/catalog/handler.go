package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/mytheresa/content-portal/app/api"
	"github.com/mytheresa/content-portal/models"
)

type Response struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

type Category struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

type Product struct {
	SKU      string    `json:"sku"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Category *Category `json:"category"`
}

type Value struct {
	Name      string `json:"name"`
	HTMLColor string `json:"html_color,omitempty"`
}

type Line struct {
	Attribute string  `json:"attribute"`
	Type      string  `json:"type"`
	Values    []Value `json:"values"`
}

type ProductDetail struct {
	Product
	Type        string `json:"type"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Lines       []Line `json:"attribute_lines"`
}

type ProductProvider interface {
	GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Template, int64, error)
	GetBySKU(ctx context.Context, sku string) (*models.Template, error)
}

type CatalogHandler struct {
	repo ProductProvider
}

func NewCatalogHandler(r ProductProvider) *CatalogHandler {
	return &CatalogHandler{
		repo: r,
	}
}

func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	// Parse pagination query params
	offset := 0
	limit := 10

	if oStr := r.URL.Query().Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			limit = min(max(l, 1), 100)
		}
	}

	// Parse filters
	var filters models.ProductFilters
	if cStr := r.URL.Query().Get("category"); cStr != "" {
		if id, err := strconv.ParseUint(cStr, 10, 64); err == nil {
			categID := uint(id)
			filters.CategoryID = &categID
		}
	}
	if priceStr := r.URL.Query().Get("price_lt"); priceStr != "" {
		if val, err := strconv.ParseFloat(priceStr, 64); err == nil {
			filters.PriceLessThan = &val
		}
	}

	res, total, err := h.repo.GetFilteredProducts(r.Context(), offset, limit, filters)
	if err != nil {
		api.ErrorResponse(w, http.StatusInternalServerError, "failed to get products")
		return
	}

	products := make([]Product, len(res))
	for i := range res {
		products[i] = toProduct(&res[i])
	}

	api.OKResponse(w, Response{
		Total:    int(total),
		Products: products,
	})
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")

	product, err := h.repo.GetBySKU(r.Context(), sku)
	if errors.Is(err, models.ErrNotFound) {
		api.ErrorResponse(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}

	lines := make([]Line, len(product.Lines))
	for i, l := range product.Lines {
		values := make([]Value, len(l.Values))
		for j, v := range l.Values {
			values[j] = Value{Name: v.Name, HTMLColor: v.HTMLColor}
		}
		lines[i] = Line{Values: values}
		if l.Attribute != nil {
			lines[i].Attribute = l.Attribute.Name
			lines[i].Type = string(l.Attribute.Type)
		}
	}

	api.OKResponse(w, ProductDetail{
		Product:     toProduct(product),
		Type:        string(product.Type),
		Description: product.Description,
		Image:       product.Image.URL,
		Lines:       lines,
	})
}

func toProduct(p *models.Template) Product {
	out := Product{
		SKU:   p.SKU,
		Name:  p.Name,
		Price: p.Price.InexactFloat64(),
	}
	if p.Categ != nil {
		out.Category = &Category{
			ID:          p.Categ.ID,
			Name:        p.Categ.Name,
			DisplayName: p.Categ.String(),
		}
	}
	return out
}
