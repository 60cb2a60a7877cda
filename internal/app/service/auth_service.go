package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"cocoa_backend/internal/common"
	"cocoa_backend/internal/common/security"
	"cocoa_backend/internal/domain/model"
	"cocoa_backend/internal/domain/repository"

	"github.com/google/uuid"
)

const minPasswordLength = 8

var errInvalidCredentials = common.NewError(common.ErrUnauthorized, "Invalid credentials")

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *security.TokenService
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokens *security.TokenService) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, now: time.Now}
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", common.NewError(common.ErrValidation, "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", common.NewError(common.ErrValidation, "email is not a valid address")
	}
	return email, nil
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, common.NewError(common.ErrValidation, "name is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, common.NewError(common.ErrValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if len(req.Password) > security.MaxPasswordBytes {
		return nil, common.NewError(common.ErrValidation, fmt.Sprintf("password must be at most %d bytes", security.MaxPasswordBytes))
	}

	// Pre-check gives a clean error; the unique index catches the race.
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, common.ErrEmailTaken
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Email:          email,
		Name:           name,
		Role:           model.RoleCustomer,
		HashedPassword: hashedPassword,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.respond(user)
}

// Login answers "no such user" and "wrong password" identically.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, common.NewError(common.ErrValidation, "email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, errInvalidCredentials
	}

	return s.respond(user)
}

func (s *AuthService) respond(user *model.User) (*AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = "" // Clear password before returning
	return &AuthResponse{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to the stored user.
// Token problems and unknown subjects all surface as ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, common.NewError(common.ErrUnauthorized, "Authorization token required")
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, common.NewError(common.ErrUnauthorized, "Invalid or expired token")
	}
	user, err := s.userRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrUnauthorized, "User not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}
