package http

import (
	"net/http"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/auth"
)

type tokenRequestDTO struct {
	User struct {
		Email string `json:"email"`
	} `json:"user"`
	Email string `json:"email"`
}

type AuthHandler struct {
	users UserRegistry
	lg    *zap.Logger
}

func NewAuthHandler(users UserRegistry, lg *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, lg: lg}
}

// IssueToken handles POST /jwt. The response body is the bare token.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	email := req.User.Email
	if email == "" {
		email = req.Email
	}

	token, err := h.users.IssueToken(r.Context(), email)
	if errors.Is(err, auth.ErrUnauthorized) {
		respondError(w, http.StatusUnauthorized, "Unauthorized: unknown user")
		return
	}
	if err != nil {
		handleError(w, h.lg, err, "")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(token))
}
