package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/auth"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/events"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/repository"
)

type CreateOrderRequest struct {
	UserID  string
	Items   []domain.OrderItem
	Address any
	Total   float64
	Status  string
}

func (r CreateOrderRequest) validate() error {
	if r.UserID == "" || len(r.Items) == 0 || isBlank(r.Address) || r.Total == 0 || r.Status == "" {
		return badRequest("Missing required fields")
	}
	return nil
}

func isBlank(v any) bool {
	switch a := v.(type) {
	case nil:
		return true
	case string:
		return a == ""
	default:
		return false
	}
}

// OrderService stores client-submitted order snapshots. It never reads or clears the cart.
type OrderService struct {
	repo      repository.OrderRepository
	publisher events.Publisher
	lg        *zap.Logger
	now       func() time.Time
}

func NewOrderService(repo repository.OrderRepository, publisher events.Publisher, lg *zap.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		publisher: publisher,
		lg:        lg,
		now:       time.Now,
	}
}

// Create inserts the order on behalf of the caller and publishes order.created.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	email, err := auth.CallerEmail(ctx)
	if err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:    req.UserID,
		UserEmail: email,
		Items:     req.Items,
		Address:   req.Address,
		Total:     req.Total,
		Status:    req.Status,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishOrder(ctx, events.NewOrderCreated(order)); err != nil {
		s.lg.Error("Publish order event failed",
			zap.String("order_id", order.ID.Hex()),
			zap.Error(err),
		)
	}
	return order, nil
}

// ListAll returns every order. There is no admin role, so it is not restricted.
func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListAll(ctx)
}

// ListForOwner returns the caller's orders placed under userID.
func (s *OrderService) ListForOwner(ctx context.Context, userID string) ([]domain.Order, error) {
	email, err := auth.CallerEmail(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID, email)
}

// Get returns one order by its own id if the caller placed it.
func (s *OrderService) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(ctx, order.UserEmail); err != nil {
		return nil, err
	}
	return order, nil
}
