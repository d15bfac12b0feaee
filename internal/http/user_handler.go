package http

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/service"
)

type UserRegistry interface {
	Register(ctx context.Context, email string, profile bson.M) (service.RegisterResult, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	IssueToken(ctx context.Context, email string) (string, error)
}

type UserHandler struct {
	users UserRegistry
	lg    *zap.Logger
}

func NewUserHandler(users UserRegistry, lg *zap.Logger) *UserHandler {
	return &UserHandler{users: users, lg: lg}
}

type InsertResponse struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// Register handles POST /users. Any fields besides email are kept as profile.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	email, _ := body["email"].(string)
	delete(body, "email")
	delete(body, "_id")

	res, err := h.users.Register(r.Context(), email, bson.M(body))
	if err != nil {
		handleError(w, h.lg, err, "")
		return
	}
	if !res.Created {
		respondJSON(w, http.StatusOK, MessageResponse{Message: "User already exist"})
		return
	}
	respondJSON(w, http.StatusCreated, InsertResponse{Acknowledged: true, InsertedID: res.InsertedID.Hex()})
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListAll(r.Context())
	if err != nil {
		handleError(w, h.lg, err, "")
		return
	}
	respondJSON(w, http.StatusOK, users)
}
