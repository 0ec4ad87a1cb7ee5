package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/strokecare/platform/pkg/common/logger"
	"github.com/strokecare/platform/pkg/common/models"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a password user holding exactly one role.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	if strings.TrimSpace(req.Email) == "" {
		return models.User{}, models.NewValidationError("email", "is required")
	}
	if !req.Role.Valid() {
		return models.User{}, models.NewValidationError("role", "must be patient, caregiver or doctor")
	}
	if len(req.Password) < 8 {
		return models.User{}, models.NewValidationError("password", "must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.repo.CreateUser(ctx, CreateUserInput{
		Email:        req.Email,
		Name:         req.Name,
		Role:         req.Role,
		PasswordHash: string(hash),
	})
	if err != nil {
		return models.User{}, err
	}
	logger.WithFields(map[string]interface{}{"email": user.Email, "role": user.Role}).Info("User registered")
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	if password == "" {
		return models.User{}, ErrInvalidCredentials
	}
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	hash, err := s.repo.GetPasswordHash(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// CurrentUser resolves a session subject back to a directory user.
func (s *Service) CurrentUser(ctx context.Context, email string) (models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return models.User{}, models.NewNotFoundError("user", email)
	}
	return user, err
}

// FindOrCreateExternal maps an identity provider login onto a directory user.
// New users get role and no password.
func (s *Service) FindOrCreateExternal(ctx context.Context, email, name, subject string, role models.Role) (models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return models.User{}, err
	}
	if !role.Valid() {
		return models.User{}, fmt.Errorf("no role for new external user %s", email)
	}
	return s.repo.CreateUser(ctx, CreateUserInput{
		Email:    email,
		Name:     name,
		Role:     role,
		Metadata: map[string]interface{}{"oidc_subject": subject},
	})
}

// Seed registers the given users unless the directory already has users.
func (s *Service) Seed(ctx context.Context, users []models.RegisterRequest) (int, error) {
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	for i, u := range users {
		if _, err := s.Register(ctx, u); err != nil {
			return i, fmt.Errorf("seed %s: %w", u.Email, err)
		}
	}
	return len(users), nil
}
