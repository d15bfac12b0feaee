package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/auth"
)

const (
	msgMissingHeader = "Unauthorized: Missing Authorization Header"
	msgMissingToken  = "Unauthorized: Missing Token"
	msgInvalidToken  = "Unauthorized: Invalid Token"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Guard authenticates requests by their Authorization bearer token.
type Guard struct {
	tokens TokenVerifier
	lg     *zap.Logger
}

func NewGuard(tokens TokenVerifier, lg *zap.Logger) *Guard {
	return &Guard{tokens: tokens, lg: lg}
}

// RequireAuth rejects requests without a valid token and otherwise attaches
// the verified claims to the request context.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respondError(w, http.StatusUnauthorized, msgMissingHeader)
			return
		}

		token := bearerToken(header)
		if token == "" {
			respondError(w, http.StatusUnauthorized, msgMissingToken)
			return
		}

		claims, err := g.tokens.Verify(token)
		if err != nil {
			g.lg.Debug("Token verification failed",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Error(err),
			)
			respondError(w, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	})
}

// bearerToken returns the segment after the scheme, "" when there is none.
func bearerToken(header string) string {
	_, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequestLogger logs one line per request with zap.
func RequestLogger(lg *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				lg.Info("Request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
