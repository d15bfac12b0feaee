package service

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/auth"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/cache"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/repository"
)

type AddLineRequest struct {
	UserEmail string
	ProductID string
	Name      domain.Text
	Img       domain.Text
	Weight    domain.Text
	Price     domain.Amount
	Quantity  int
}

func (r AddLineRequest) validate() error {
	if r.UserEmail == "" || r.ProductID == "" || r.Name == "" || r.Img == "" ||
		r.Weight == "" || r.Price == 0 || r.Quantity == 0 {
		return badRequest("Missing required fields")
	}
	if r.Price < 0 {
		return badRequest("price must be positive")
	}
	if r.Quantity < 0 {
		return badRequest("quantity must be positive")
	}
	return nil
}

const cartLoadTimeout = 10 * time.Second

type CartService struct {
	repo  repository.CartRepository
	cache cache.CartCache
	lg    *zap.Logger
	sfg   singleflight.Group
}

func NewCartService(repo repository.CartRepository, cache cache.CartCache, lg *zap.Logger) *CartService {
	return &CartService{
		repo:  repo,
		cache: cache,
		lg:    lg,
	}
}

// AddOrMerge adds req to the caller's cart, merging into an existing line for the same product.
func (s *CartService) AddOrMerge(ctx context.Context, req AddLineRequest) (domain.AddOutcome, error) {
	if err := req.validate(); err != nil {
		return 0, err
	}
	if err := auth.RequireOwner(ctx, req.UserEmail); err != nil {
		return 0, err
	}

	outcome, err := s.repo.AddOrMerge(ctx, domain.CartLine{
		UserEmail: req.UserEmail,
		ProductID: req.ProductID,
		Name:      req.Name,
		Img:       req.Img,
		Weight:    req.Weight,
		Price:     req.Price,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return 0, err
	}

	s.invalidate(req.UserEmail)
	return outcome, nil
}

// ListForUser returns the cart of userEmail, which must be the caller.
// An empty email yields an empty cart.
func (s *CartService) ListForUser(ctx context.Context, userEmail string) ([]domain.CartLine, error) {
	if userEmail == "" {
		return []domain.CartLine{}, nil
	}
	if err := auth.RequireOwner(ctx, userEmail); err != nil {
		return nil, err
	}

	// Concurrent reads for one user share a single load, detached from the
	// caller that started it. Each caller stops waiting when its own ctx ends.
	ch := s.sfg.DoChan(userEmail, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cartLoadTimeout)
		defer cancel()
		return s.loadCart(loadCtx, userEmail)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.CartLine), nil
	}
}

func (s *CartService) loadCart(ctx context.Context, userEmail string) ([]domain.CartLine, error) {
	lines, err := s.cache.Get(ctx, userEmail)
	if err == nil {
		return lines, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.lg.Warn("Cart cache get failed", zap.String("user", userEmail), zap.Error(err))
	}

	// Taken before the store read: an invalidation after this point makes the fill below a no-op.
	gen, genErr := s.cache.Generation(ctx, userEmail)
	if genErr != nil {
		s.lg.Warn("Cart cache generation failed", zap.String("user", userEmail), zap.Error(genErr))
	}

	lines, err = s.repo.ListByUser(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return lines, nil
	}

	switch err := s.cache.Set(ctx, userEmail, gen, lines); {
	case errors.Is(err, cache.ErrStaleGeneration):
		s.lg.Debug("Cart changed during read, cache not filled", zap.String("user", userEmail))
	case err != nil:
		s.lg.Warn("Cart cache set failed", zap.String("user", userEmail), zap.Error(err))
	}
	return lines, nil
}

// DeleteOne removes a single line owned by the caller.
func (s *CartService) DeleteOne(ctx context.Context, lineID string) error {
	line, err := s.repo.GetLine(ctx, lineID)
	if err != nil {
		return err
	}
	if err := auth.RequireOwner(ctx, line.UserEmail); err != nil {
		return err
	}
	if err := s.repo.DeleteLine(ctx, lineID, line.UserEmail); err != nil {
		return err
	}

	s.invalidate(line.UserEmail)
	return nil
}

// DeleteMany removes the caller's lines for productIDs and reports how many went away.
func (s *CartService) DeleteMany(ctx context.Context, productIDs []string) (int64, error) {
	email, err := auth.CallerEmail(ctx)
	if err != nil {
		return 0, err
	}
	if len(productIDs) == 0 {
		return 0, badRequest("productIds is required")
	}

	n, err := s.repo.DeleteProducts(ctx, email, productIDs)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, repository.ErrNotFound
	}

	s.invalidate(email)
	return n, nil
}

// invalidate drops the cached cart. Reads arriving after it start a new load
// instead of joining one already in flight.
func (s *CartService) invalidate(userEmail string) {
	s.sfg.Forget(userEmail)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userEmail); err != nil {
		s.lg.Warn("Cart cache invalidate failed", zap.String("user", userEmail), zap.Error(err))
	}
}
