package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/service"
)

type OrderManager interface {
	Create(ctx context.Context, req service.CreateOrderRequest) (*domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListForOwner(ctx context.Context, userID string) ([]domain.Order, error)
	Get(ctx context.Context, orderID string) (*domain.Order, error)
}

type OrdersHandler struct {
	orders OrderManager
	lg     *zap.Logger
}

func NewOrdersHandler(orders OrderManager, lg *zap.Logger) *OrdersHandler {
	return &OrdersHandler{orders: orders, lg: lg}
}

type CreateOrderDTO struct {
	UserID  string             `json:"userId"`
	Items   []domain.OrderItem `json:"items"`
	Address any                `json:"address"`
	Total   float64            `json:"total"`
	Status  string             `json:"status"`
}

// POST /orders
func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderDTO
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	order, err := h.orders.Create(r.Context(), service.CreateOrderRequest(req))
	if err != nil {
		handleError(w, h.lg, err, "")
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

// GET /orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		handleError(w, h.lg, err, "")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// GET /orders/{userId}
func (h *OrdersHandler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListForOwner(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handleError(w, h.lg, err, "")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// GET /orders/id/{orderId}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		handleError(w, h.lg, err, "Order not found")
		return
	}
	respondJSON(w, http.StatusOK, order)
}
