package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
)

type CatalogReader interface {
	ListShops(ctx context.Context) ([]domain.Shop, error)
	ListProducts(ctx context.Context, productType string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type CatalogHandler struct {
	catalog CatalogReader
	lg      *zap.Logger
}

func NewCatalogHandler(catalog CatalogReader, lg *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, lg: lg}
}

// GET /shop
func (h *CatalogHandler) ListShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.catalog.ListShops(r.Context())
	if err != nil {
		handleError(w, h.lg, err, "")
		return
	}
	respondJSON(w, http.StatusOK, shops)
}

// GET /products?type=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		handleError(w, h.lg, err, "")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// GET /products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, h.lg, err, "Product not found")
		return
	}
	respondJSON(w, http.StatusOK, p)
}
