package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
)

const OrderCreated = "order.created"

// OrderEvent is the payload published after an order is stored.
type OrderEvent struct {
	EventID    string             `json:"event_id"`
	EventType  string             `json:"event_type"`
	OrderID    string             `json:"order_id"`
	UserID     string             `json:"user_id"`
	UserEmail  string             `json:"user_email"`
	Items      []domain.OrderItem `json:"items"`
	Total      float64            `json:"total"`
	Status     string             `json:"status"`
	OccurredAt time.Time          `json:"occurred_at"`
}

func NewOrderCreated(o *domain.Order) OrderEvent {
	return OrderEvent{
		EventID:    uuid.NewString(),
		EventType:  OrderCreated,
		OrderID:    o.ID.Hex(),
		UserID:     o.UserID,
		UserEmail:  o.UserEmail,
		Items:      o.Items,
		Total:      o.Total,
		Status:     o.Status,
		OccurredAt: o.CreatedAt,
	}
}

type Publisher interface {
	PublishOrder(ctx context.Context, event OrderEvent) error
	Close() error
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) PublishOrder(context.Context, OrderEvent) error { return nil }

func (Nop) Close() error { return nil }
