package auth

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden access")
)

// Claims is the verified identity carried by a token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 identity tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for email that expires after the configured TTL.
// Callers must pass a server-derived identity, never a client-supplied claim set.
func (s *TokenService) Issue(email string) (string, error) {
	if email == "" {
		return "", errors.New("empty identity")
	}
	now := s.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return token, nil
}

// Verify returns the claims of a valid token. Every failure (malformed, expired,
// wrong secret or algorithm, no email) is reported as ErrUnauthorized.
func (s *TokenService) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(ErrUnauthorized, err.Error())
	}
	if claims.Email == "" {
		return nil, errors.Wrap(ErrUnauthorized, "token has no email claim")
	}
	return &claims, nil
}
