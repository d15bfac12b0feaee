package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/service"
)

type CartManager interface {
	AddOrMerge(ctx context.Context, req service.AddLineRequest) (domain.AddOutcome, error)
	ListForUser(ctx context.Context, userEmail string) ([]domain.CartLine, error)
	DeleteOne(ctx context.Context, lineID string) error
	DeleteMany(ctx context.Context, productIDs []string) (int64, error)
}

type CartHandler struct {
	cart CartManager
	lg   *zap.Logger
}

func NewCartHandler(cart CartManager, lg *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, lg: lg}
}

type AddCartProductDTO struct {
	UserEmail string        `json:"userEmail"`
	ProductID string        `json:"productId"`
	Name      domain.Text   `json:"name"`
	Img       domain.Text   `json:"img"`
	Weight    domain.Text   `json:"weight"`
	Price     domain.Amount `json:"price"`
	Quantity  int           `json:"quantity"`
}

type DeleteCartProductsDTO struct {
	ProductIDs []string `json:"productIds"`
}

// AddItem handles POST /cartProducts: 201 for a new line, 200 for a merge.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartProductDTO
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	outcome, err := h.cart.AddOrMerge(r.Context(), service.AddLineRequest(req))
	if err != nil {
		handleError(w, h.lg, err, "")
		return
	}

	if outcome == domain.LineMerged {
		respondJSON(w, http.StatusOK, MessageResponse{Message: "Product quantity updated in cart"})
		return
	}
	respondJSON(w, http.StatusCreated, MessageResponse{Message: "Product added to cart"})
}

// GetCart handles GET /cartProducts?email=.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	lines, err := h.cart.ListForUser(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		handleError(w, h.lg, err, "")
		return
	}
	respondJSON(w, http.StatusOK, lines)
}

// RemoveItem handles DELETE /cartProducts/{id}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.DeleteOne(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, h.lg, err, "Product not found")
		return
	}
	respondJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}

// RemoveItems handles DELETE /cartProducts with a productIds body.
func (h *CartHandler) RemoveItems(w http.ResponseWriter, r *http.Request) {
	var req DeleteCartProductsDTO
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	n, err := h.cart.DeleteMany(r.Context(), req.ProductIDs)
	if err != nil {
		handleError(w, h.lg, err, "No products found to delete")
		return
	}
	respondJSON(w, http.StatusOK, MessageResponse{Message: "Products removed successfully", DeletedCount: n})
}
