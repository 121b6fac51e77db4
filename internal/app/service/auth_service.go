package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sqltester/internal/common"
	"sqltester/internal/common/security"
	"sqltester/internal/domain/model"
	"sqltester/internal/domain/repository"
)

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"` // defaults to "user" when empty
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Authenticate checks a claimed credential against the stored one for a
// named principal and role. The role is compared lower-cased; the
// password is verified against the stored bcrypt hash. A false return
// with nil error means the credentials simply do not match.
func (s *AuthService) Authenticate(ctx context.Context, username, password, role string) (bool, error) {
	user, err := s.authenticate(ctx, username, password, role)
	return user != nil, err
}

// authenticate does the single repository lookup behind both
// Authenticate and Login. A nil user with nil error means the
// credentials do not match.
func (s *AuthService) authenticate(ctx context.Context, username, password, role string) (*model.User, error) {
	user, err := s.userRepo.FindByUsernameAndRole(ctx, username, strings.ToLower(role))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !security.CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil
	}
	return user, nil
}

// ResolveUserID retrieves the numeric id for a username. Absence is
// signalled with common.ErrNotFound, never a sentinel value.
func (s *AuthService) ResolveUserID(ctx context.Context, username string) (int64, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("failed to resolve user id: %w", err)
	}
	return user.ID, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	user, err := s.authenticate(ctx, req.Username, req.Password, role)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUnauthorized // Generic message for security
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.PasswordHash = "" // Clear before returning
	return &AuthResponse{User: user, Token: token}, nil
}
