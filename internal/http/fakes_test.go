package http

import (
	"context"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/repository"
)

// memStore is an in-memory stand-in for the Mongo repositories.
type memStore struct {
	m        sync.Mutex
	lines    []domain.CartLine
	orders   []domain.Order
	users    []domain.User
	products []domain.Product
	shops    []domain.Shop
	err      error
}

func lookupID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrInvalidID
	}
	return oid, nil
}

type memCart struct{ *memStore }

func (s memCart) AddOrMerge(_ context.Context, line domain.CartLine) (domain.AddOutcome, error) {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	for i := range s.lines {
		if s.lines[i].UserEmail == line.UserEmail && s.lines[i].ProductID == line.ProductID {
			s.lines[i].Quantity += line.Quantity
			return domain.LineMerged, nil
		}
	}
	line.ID = primitive.NewObjectID()
	s.lines = append(s.lines, line)
	return domain.LineCreated, nil
}

func (s memCart) ListByUser(_ context.Context, userEmail string) ([]domain.CartLine, error) {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.CartLine, 0)
	for _, l := range s.lines {
		if l.UserEmail == userEmail {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s memCart) GetLine(_ context.Context, id string) (*domain.CartLine, error) {
	oid, err := lookupID(id)
	if err != nil {
		return nil, err
	}
	s.m.Lock()
	defer s.m.Unlock()
	for _, l := range s.lines {
		if l.ID == oid {
			return &l, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s memCart) DeleteLine(_ context.Context, id, userEmail string) error {
	s.m.Lock()
	defer s.m.Unlock()
	for i, l := range s.lines {
		if l.ID.Hex() == id && l.UserEmail == userEmail {
			s.lines = slices.Delete(s.lines, i, i+1)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s memCart) DeleteProducts(_ context.Context, userEmail string, productIDs []string) (int64, error) {
	s.m.Lock()
	defer s.m.Unlock()
	before := len(s.lines)
	s.lines = slices.DeleteFunc(s.lines, func(l domain.CartLine) bool {
		return l.UserEmail == userEmail && slices.Contains(productIDs, l.ProductID)
	})
	return int64(before - len(s.lines)), nil
}

type memOrders struct{ *memStore }

func (s memOrders) Create(_ context.Context, order *domain.Order) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	order.ID = primitive.NewObjectID()
	s.orders = append(s.orders, *order)
	return nil
}

func (s memOrders) ListAll(context.Context) ([]domain.Order, error) {
	s.m.Lock()
	defer s.m.Unlock()
	return append(make([]domain.Order, 0), s.orders...), s.err
}

func (s memOrders) ListByUser(_ context.Context, userID, userEmail string) ([]domain.Order, error) {
	s.m.Lock()
	defer s.m.Unlock()
	out := make([]domain.Order, 0)
	for _, o := range s.orders {
		if o.UserID == userID && o.UserEmail == userEmail {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s memOrders) GetByID(_ context.Context, id string) (*domain.Order, error) {
	oid, err := lookupID(id)
	if err != nil {
		return nil, err
	}
	s.m.Lock()
	defer s.m.Unlock()
	for _, o := range s.orders {
		if o.ID == oid {
			return &o, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memUsers struct{ *memStore }

func (s memUsers) Register(_ context.Context, user domain.User) (bool, primitive.ObjectID, error) {
	s.m.Lock()
	defer s.m.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return false, primitive.NilObjectID, nil
		}
	}
	user.ID = primitive.NewObjectID()
	s.users = append(s.users, user)
	return true, user.ID, nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.m.Lock()
	defer s.m.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s memUsers) ListAll(context.Context) ([]domain.User, error) {
	s.m.Lock()
	defer s.m.Unlock()
	return append(make([]domain.User, 0), s.users...), nil
}

type memCatalog struct{ *memStore }

func (s memCatalog) ListShops(context.Context) ([]domain.Shop, error) {
	return append(make([]domain.Shop, 0), s.shops...), nil
}

func (s memCatalog) ListProducts(_ context.Context, productType string) ([]domain.Product, error) {
	out := make([]domain.Product, 0)
	for _, p := range s.products {
		if productType == "" || string(p.Type) == productType {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s memCatalog) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	oid, err := lookupID(id)
	if err != nil {
		return nil, err
	}
	for _, p := range s.products {
		if p.ID == oid {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}
