package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/doctrack-api/internal/core"
	"github.com/target/doctrack-api/internal/domain/model"
	apperrors "github.com/target/doctrack-api/internal/errors"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users  core.UserRepository // Required
	Jobs   core.JobRepository  // Required: loads the jobs linked to the user
	Logger *slog.Logger        // Optional
}

// AuthService verifies email/password credentials.
//
// Passwords are stored and compared as plaintext. This preserves the existing
// contract of the user table; hashing would require a data migration.
type AuthService struct {
	users  core.UserRepository
	jobs   core.JobRepository
	logger *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Users == nil {
		return nil, errors.New("UserRepository is required")
	}
	if opts.Jobs == nil {
		return nil, errors.New("JobRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{users: opts.Users, jobs: opts.Jobs, logger: logger.With("component", "auth_service")}, nil
}

// MustNewAuthService constructs an AuthService and panics on invalid options.
func MustNewAuthService(opts AuthServiceOptions) *AuthService {
	svc, err := NewAuthService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create AuthService: %v", err))
	}
	return svc
}

// Login returns the user's profile and linked jobs when the credentials match.
// Errors: validation (missing field), not_found (unknown email), unauthorized (wrong password).
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResult, error) {
	if req == nil {
		return nil, apperrors.Validation("email and password are required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(req.Password)) != 1 {
		s.logger.InfoContext(ctx, "login rejected", "user_id", user.ID)
		return nil, apperrors.Unauthorized("invalid password")
	}

	jobs, err := s.jobs.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load user jobs: %w", err)
	}

	s.logger.DebugContext(ctx, "login accepted", "user_id", user.ID, "jobs", len(jobs))
	return model.NewLoginResult(user, jobs), nil
}
