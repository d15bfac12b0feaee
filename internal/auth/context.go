package auth

import "context"

type claimsContextKey struct{}

// WithClaims attaches verified claims to ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, c)
}

// ClaimsFromContext returns the claims attached by the access guard.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsContextKey{}).(*Claims)
	return c, ok && c != nil
}

// RequireOwner checks that the verified caller owns a resource belonging to ownerEmail.
// A request without claims is ErrUnauthorized; a different owner is ErrForbidden.
func RequireOwner(ctx context.Context, ownerEmail string) error {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if ownerEmail == "" || ownerEmail != c.Email {
		return ErrForbidden
	}
	return nil
}

// CallerEmail returns the verified caller's email or ErrUnauthorized.
func CallerEmail(ctx context.Context) (string, error) {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", ErrUnauthorized
	}
	return c.Email, nil
}
