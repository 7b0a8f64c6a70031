package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/registration-service/internal/auth"
	"github.com/SAP-F-2025/registration-service/internal/models"
	"github.com/SAP-F-2025/registration-service/internal/repositories"
	"github.com/SAP-F-2025/registration-service/internal/validator"
)

// SignInResponse is the payload returned after a successful sign-in.
type SignInResponse struct {
	Token     string                      `json:"token"`
	TokenType string                      `json:"tokenType"`
	User      *models.UserStudentResponse `json:"user"`
}

// AuthService registers accounts and issues access tokens.
type AuthService interface {
	SignUp(ctx context.Context, req *validator.SignUpRequest) (*models.UserStudentResponse, error)
	SignIn(ctx context.Context, req *validator.SignInRequest) (*SignInResponse, error)
}

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	hasher    *auth.PasswordHasher
	tokens    *auth.TokenManager
}

func NewAuthService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, hasher *auth.PasswordHasher, tokens *auth.TokenManager) AuthService {
	return &authService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		hasher:    hasher,
		tokens:    tokens,
	}
}

func (s *authService) SignUp(ctx context.Context, req *validator.SignUpRequest) (*models.UserStudentResponse, error) {
	s.logger.Info("Signing up user", "username", req.Username)

	req.Username = validator.NormalizeName(req.Username)
	req.Email = validator.NormalizeEmail(req.Email)

	if fieldErrors := s.validator.Validate(req); fieldErrors.HasErrors() {
		return nil, &ValidationFailedError{Fields: fieldErrors}
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		taken, err := txRepo.User().ExistsByUsername(ctx, nil, req.Username)
		if err != nil {
			return fmt.Errorf("failed to check username uniqueness: %w", err)
		}
		if taken {
			return &DuplicateError{Message: "username is already taken"}
		}

		taken, err = txRepo.User().ExistsByEmail(ctx, nil, req.Email)
		if err != nil {
			return fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if taken {
			return &DuplicateError{Message: "email is already in use"}
		}

		userRole, err := txRepo.Role().GetByName(ctx, nil, models.RoleUser)
		if err != nil {
			return fmt.Errorf("failed to load default role: %w", err)
		}

		user = &models.User{
			Username: req.Username,
			Email:    req.Email,
			Password: hashed,
			IsActive: true,
			Roles:    []models.Role{*userRole},
		}

		return txRepo.User().Create(ctx, nil, user)
	})
	if err != nil {
		return nil, err
	}

	return models.NewUserStudentResponse(user), nil
}

func (s *authService) SignIn(ctx context.Context, req *validator.SignInRequest) (*SignInResponse, error) {
	s.logger.Info("Signing in user", "username", req.Username)

	if fieldErrors := s.validator.Validate(req); fieldErrors.HasErrors() {
		return nil, &ValidationFailedError{Fields: fieldErrors}
	}

	user, err := s.repo.User().GetByUsername(ctx, s.db, req.Username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", ErrUnauthorized)
	}
	if !s.hasher.Compare(user.Password, req.Password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.repo.User().Update(ctx, s.db, user); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	roleNames := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roleNames = append(roleNames, string(r.Name))
	}

	token, err := s.tokens.Generate(user.ID, user.Username, roleNames)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return &SignInResponse{
		Token:     token,
		TokenType: "Bearer",
		User:      models.NewUserStudentResponse(user),
	}, nil
}
