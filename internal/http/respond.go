package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/auth"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/repository"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/service"
)

const maxRequestBodySize = 1 << 20 // 1MB

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: true, Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	return json.NewDecoder(r.Body).Decode(dst)
}

// handleError maps a service failure to its status code. notFound is the
// message for a lookup miss on this route.
func handleError(w http.ResponseWriter, lg *zap.Logger, err error, notFound string) {
	var badReq *service.BadRequestError
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, auth.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden access")
	case errors.As(err, &badReq):
		respondError(w, http.StatusBadRequest, badReq.Message)
	case errors.Is(err, repository.ErrInvalidID):
		respondError(w, http.StatusBadRequest, "invalid id")
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, notFound)
	default:
		lg.Error("Request failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   true,
			Message: "Internal server error",
			Details: err.Error(),
		})
	}
}
