package service

import (
	"context"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/auth"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/cache"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/events"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/repository"
)

func asUser(email string) context.Context {
	return auth.WithClaims(context.Background(), &auth.Claims{Email: email})
}

type mockCartRepository struct {
	m         sync.Mutex
	lines     []domain.CartLine
	err       error
	listCalls int
}

func (r *mockCartRepository) AddOrMerge(_ context.Context, line domain.CartLine) (domain.AddOutcome, error) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	for i := range r.lines {
		if r.lines[i].UserEmail == line.UserEmail && r.lines[i].ProductID == line.ProductID {
			r.lines[i].Quantity += line.Quantity
			return domain.LineMerged, nil
		}
	}
	line.ID = primitive.NewObjectID()
	r.lines = append(r.lines, line)
	return domain.LineCreated, nil
}

func (r *mockCartRepository) ListByUser(_ context.Context, userEmail string) ([]domain.CartLine, error) {
	r.m.Lock()
	defer r.m.Unlock()
	r.listCalls++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]domain.CartLine, 0)
	for _, l := range r.lines {
		if l.UserEmail == userEmail {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *mockCartRepository) GetLine(_ context.Context, id string) (*domain.CartLine, error) {
	r.m.Lock()
	defer r.m.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrInvalidID
	}
	for _, l := range r.lines {
		if l.ID == oid {
			return &l, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *mockCartRepository) DeleteLine(_ context.Context, id, userEmail string) error {
	r.m.Lock()
	defer r.m.Unlock()
	for i, l := range r.lines {
		if l.ID.Hex() == id && l.UserEmail == userEmail {
			r.lines = append(r.lines[:i], r.lines[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *mockCartRepository) DeleteProducts(_ context.Context, userEmail string, productIDs []string) (int64, error) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	kept := r.lines[:0]
	for _, l := range r.lines {
		if l.UserEmail == userEmail && slices.Contains(productIDs, l.ProductID) {
			n++
			continue
		}
		kept = append(kept, l)
	}
	r.lines = kept
	return n, nil
}

type mockCache struct {
	m       sync.Mutex
	entries map[string][]domain.CartLine
	gens    map[string]int64
	err     error
}

func newMockCache() *mockCache {
	return &mockCache{
		entries: map[string][]domain.CartLine{},
		gens:    map[string]int64{},
	}
}

func (c *mockCache) Get(_ context.Context, userEmail string) ([]domain.CartLine, error) {
	c.m.Lock()
	defer c.m.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	lines, ok := c.entries[userEmail]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return lines, nil
}

func (c *mockCache) Generation(_ context.Context, userEmail string) (int64, error) {
	c.m.Lock()
	defer c.m.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	return c.gens[userEmail], nil
}

func (c *mockCache) Set(_ context.Context, userEmail string, gen int64, lines []domain.CartLine) error {
	c.m.Lock()
	defer c.m.Unlock()
	if c.err != nil {
		return c.err
	}
	if c.gens[userEmail] != gen {
		return cache.ErrStaleGeneration
	}
	c.entries[userEmail] = lines
	return nil
}

func (c *mockCache) Delete(_ context.Context, userEmail string) error {
	c.m.Lock()
	defer c.m.Unlock()
	delete(c.entries, userEmail)
	c.gens[userEmail]++
	return c.err
}

func (c *mockCache) cached(userEmail string) ([]domain.CartLine, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	lines, ok := c.entries[userEmail]
	return lines, ok
}

// blockingCartRepository holds the first ListByUser after it has read the
// store until release is closed.
type blockingCartRepository struct {
	*mockCartRepository
	once    sync.Once
	read    chan struct{}
	release chan struct{}
	loadErr error
}

func newBlockingCartRepository() *blockingCartRepository {
	return &blockingCartRepository{
		mockCartRepository: &mockCartRepository{},
		read:               make(chan struct{}),
		release:            make(chan struct{}),
	}
}

func (r *blockingCartRepository) ListByUser(ctx context.Context, userEmail string) ([]domain.CartLine, error) {
	lines, err := r.mockCartRepository.ListByUser(ctx, userEmail)
	r.once.Do(func() {
		close(r.read)
		<-r.release
		r.loadErr = ctx.Err()
	})
	return lines, err
}

func (c *mockCache) has(userEmail string) bool {
	c.m.Lock()
	defer c.m.Unlock()
	_, ok := c.entries[userEmail]
	return ok
}

type mockOrderRepository struct {
	m      sync.Mutex
	orders []domain.Order
	err    error
}

func (r *mockOrderRepository) Create(_ context.Context, order *domain.Order) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	order.ID = primitive.NewObjectID()
	r.orders = append(r.orders, *order)
	return nil
}

func (r *mockOrderRepository) ListAll(context.Context) ([]domain.Order, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return slices.Clone(r.orders), r.err
}

func (r *mockOrderRepository) ListByUser(_ context.Context, userID, userEmail string) ([]domain.Order, error) {
	r.m.Lock()
	defer r.m.Unlock()
	out := make([]domain.Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID && o.UserEmail == userEmail {
			out = append(out, o)
		}
	}
	return out, r.err
}

func (r *mockOrderRepository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.m.Lock()
	defer r.m.Unlock()
	for _, o := range r.orders {
		if o.ID.Hex() == id {
			return &o, nil
		}
	}
	return nil, repository.ErrNotFound
}

type mockPublisher struct {
	m      sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *mockPublisher) PublishOrder(_ context.Context, e events.OrderEvent) error {
	p.m.Lock()
	defer p.m.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *mockPublisher) Close() error { return nil }

type mockUserRepository struct {
	m     sync.Mutex
	users []domain.User
	err   error
}

func (r *mockUserRepository) Register(_ context.Context, user domain.User) (bool, primitive.ObjectID, error) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return false, primitive.NilObjectID, r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return false, primitive.NilObjectID, nil
		}
	}
	user.ID = primitive.NewObjectID()
	r.users = append(r.users, user)
	return true, user.ID, nil
}

func (r *mockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *mockUserRepository) ListAll(context.Context) ([]domain.User, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return slices.Clone(r.users), r.err
}
