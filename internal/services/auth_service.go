package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/campustrack/academic-record-service/internal/models"
	"github.com/campustrack/academic-record-service/internal/repositories"
	"github.com/campustrack/academic-record-service/internal/sessions"
	"github.com/campustrack/academic-record-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	store     *sessions.Store
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAuthService(repo repositories.Repository, store *sessions.Store, logger *slog.Logger, v *validator.Validator) AuthService {
	return &authService{
		repo:      repo,
		store:     store,
		logger:    logger,
		validator: v,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) error {
	if err := validationErrorFrom(s.validator.Struct(req)); err != nil {
		return err
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return NewConflictError("user", "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Uname:    req.Uname,
		Email:    req.Email,
		Password: string(hash),
		Role:     req.Role,
		USN:      req.USN,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("Registered user", "email", req.Email, "role", req.Role)
	return nil
}

// Login verifies credentials and issues a server-held session. Invalid email
// and invalid password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := validationErrorFrom(s.validator.Struct(req)); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewAuthorizationError(req.Email, "login", "invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, NewAuthorizationError(req.Email, "login", "invalid credentials")
	}

	session, err := s.store.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("User logged in", "email", user.Email, "role", user.Role)

	return &LoginResponse{
		User:      user,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.store.Revoke(ctx, token)
}

func (s *authService) GetSession(ctx context.Context, token string) (*sessions.Session, error) {
	return s.store.Get(ctx, token)
}
