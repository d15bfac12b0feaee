package service

import (
	"context"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/auth"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/repository"
)

type RegisterResult struct {
	Created    bool
	InsertedID primitive.ObjectID
}

// UserService is the user registry plus token issuance for registered users.
type UserService struct {
	repo   repository.UserRepository
	tokens *auth.TokenService
}

func NewUserService(repo repository.UserRepository, tokens *auth.TokenService) *UserService {
	return &UserService{repo: repo, tokens: tokens}
}

// Register creates the user unless the email is already known. It never fails on duplicates.
func (s *UserService) Register(ctx context.Context, email string, profile bson.M) (RegisterResult, error) {
	if email == "" {
		return RegisterResult{}, badRequest("email is required")
	}
	created, id, err := s.repo.Register(ctx, domain.User{Email: email, Profile: profile})
	if err != nil {
		return RegisterResult{}, err
	}
	return RegisterResult{Created: created, InsertedID: id}, nil
}

func (s *UserService) ListAll(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListAll(ctx)
}

// IssueToken signs a token for a registered user. The signed identity comes
// from the stored record, not from the request.
func (s *UserService) IssueToken(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", badRequest("user email is required")
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", errors.Wrap(auth.ErrUnauthorized, "unknown user")
	}
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(user.Email)
}
