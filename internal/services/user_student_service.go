package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/registration-service/internal/auth"
	"github.com/SAP-F-2025/registration-service/internal/models"
	"github.com/SAP-F-2025/registration-service/internal/repositories"
	"github.com/SAP-F-2025/registration-service/internal/validator"
)

// ===== SERVICE INTERFACE =====

// UserStudentService exposes user accounts through their student profile.
// An account without a completed profile is invisible to student-scoped
// reads but can still be patched and deleted by id.
type UserStudentService interface {
	ListStudents(ctx context.Context) ([]*models.UserStudentResponse, error)
	GetStudent(ctx context.Context, id uint) (*models.UserStudentResponse, error)
	GetByUsername(ctx context.Context, username string) (*models.UserStudentResponse, error)
	SearchStudents(ctx context.Context, keyword string) ([]*models.UserStudentResponse, error)

	CompleteProfile(ctx context.Context, userID uint, req *validator.CompleteProfileRequest) (*models.UserStudentResponse, error)
	UpdateSelf(ctx context.Context, userID uint, req *validator.UpdateProfileRequest) (*models.UserStudentResponse, error)
	AdminUpdate(ctx context.Context, id uint, req *validator.AdminUpdateStudentRequest) (*models.UserStudentResponse, error)
	DeleteStudent(ctx context.Context, id uint) error
}

// ===== SERVICE IMPLEMENTATION =====

type userStudentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	hasher    *auth.PasswordHasher
	roles     RoleResolver
}

func NewUserStudentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, hasher *auth.PasswordHasher, roles RoleResolver) UserStudentService {
	return &userStudentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		hasher:    hasher,
		roles:     roles,
	}
}

// ===== READ OPERATIONS =====

func (s *userStudentService) ListStudents(ctx context.Context) ([]*models.UserStudentResponse, error) {
	users, err := s.repo.User().ListStudents(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return models.NewUserStudentResponses(users), nil
}

func (s *userStudentService) GetStudent(ctx context.Context, id uint) (*models.UserStudentResponse, error) {
	user, err := s.repo.User().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, &NotFoundError{Resource: "Student", ID: id}
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	// Accounts without a profile are not part of the student surface.
	if !user.IsStudent() {
		return nil, &NotFoundError{Resource: "Student", ID: id}
	}

	return models.NewUserStudentResponse(user), nil
}

func (s *userStudentService) GetByUsername(ctx context.Context, username string) (*models.UserStudentResponse, error) {
	user, err := s.repo.User().GetByUsername(ctx, s.db, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, &NotFoundError{Resource: "User", ID: username}
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Same filter as GetStudent: no completed profile, no student record.
	if !user.IsStudent() {
		return nil, &NotFoundError{Resource: "Student", ID: username}
	}

	return models.NewUserStudentResponse(user), nil
}

func (s *userStudentService) SearchStudents(ctx context.Context, keyword string) ([]*models.UserStudentResponse, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.ListStudents(ctx)
	}

	users, err := s.repo.User().SearchStudents(ctx, s.db, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search students: %w", err)
	}
	return models.NewUserStudentResponses(users), nil
}

// ===== PROFILE OPERATIONS =====

func (s *userStudentService) CompleteProfile(ctx context.Context, userID uint, req *validator.CompleteProfileRequest) (*models.UserStudentResponse, error) {
	s.logger.Info("Completing student profile", "user_id", userID)

	req.FullName = validator.NormalizeName(req.FullName)
	if fieldErrors := s.validator.Validate(req); fieldErrors.HasErrors() {
		return nil, &ValidationFailedError{Fields: fieldErrors}
	}

	date, fieldErrors := validator.ParseEnrollmentDate(req.EnrollmentDate)
	if fieldErrors.HasErrors() {
		return nil, &ValidationFailedError{Fields: fieldErrors}
	}

	var result *models.User
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		user, err := txRepo.User().GetByID(ctx, nil, userID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return &NotFoundError{Resource: "User", ID: userID}
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		profile := &models.StudentProfile{
			UserID:         user.ID,
			FullName:       req.FullName,
			EnrollmentDate: date,
		}
		if err := txRepo.User().SaveProfile(ctx, nil, profile); err != nil {
			return err
		}

		user.Profile = profile
		result = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return models.NewUserStudentResponse(result), nil
}

func (s *userStudentService) UpdateSelf(ctx context.Context, userID uint, req *validator.UpdateProfileRequest) (*models.UserStudentResponse, error) {
	s.logger.Info("Updating own student profile", "user_id", userID)

	var result *models.User
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		user, err := txRepo.User().GetByID(ctx, nil, userID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return &NotFoundError{Resource: "User", ID: userID}
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		if err := s.applyAccountPatch(ctx, txRepo, user, req.Username, req.Email, req.Password); err != nil {
			return err
		}
		if err := txRepo.User().Update(ctx, nil, user); err != nil {
			return err
		}

		if err := s.applyProfilePatch(ctx, txRepo, user, req.FullName, req.EnrollmentDate); err != nil {
			return err
		}

		result = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return models.NewUserStudentResponse(result), nil
}

func (s *userStudentService) AdminUpdate(ctx context.Context, id uint, req *validator.AdminUpdateStudentRequest) (*models.UserStudentResponse, error) {
	s.logger.Info("Admin updating student", "student_id", id)

	var result *models.User
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		user, err := txRepo.User().GetByID(ctx, nil, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return &NotFoundError{Resource: "Student", ID: id}
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		if err := s.applyAccountPatch(ctx, txRepo, user, req.Username, req.Email, req.Password); err != nil {
			return err
		}
		if req.IsActive != nil {
			user.IsActive = *req.IsActive
		}
		if err := txRepo.User().Update(ctx, nil, user); err != nil {
			return err
		}

		if err := s.applyProfilePatch(ctx, txRepo, user, req.FullName, req.EnrollmentDate); err != nil {
			return err
		}

		// nil leaves roles unchanged, an empty slice clears them
		if req.Roles != nil {
			roles, err := s.roles.Resolve(ctx, *req.Roles)
			if err != nil {
				return err
			}
			if err := txRepo.User().ReplaceRoles(ctx, nil, user, roles); err != nil {
				return err
			}
		}

		result = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return models.NewUserStudentResponse(result), nil
}

func (s *userStudentService) DeleteStudent(ctx context.Context, id uint) error {
	s.logger.Info("Deleting student account", "student_id", id)

	return s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if _, err := txRepo.User().GetByID(ctx, nil, id); err != nil {
			if repositories.IsNotFoundError(err) {
				return &NotFoundError{Resource: "Student", ID: id}
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		return txRepo.User().Delete(ctx, nil, id)
	})
}

// ===== PATCH HELPERS =====

// applyAccountPatch applies the account-level fields of a partial update.
// A nil field is left unchanged; a present field must carry a usable value.
func (s *userStudentService) applyAccountPatch(ctx context.Context, txRepo repositories.Repository, user *models.User, username, email, password *string) error {
	if username != nil {
		value := strings.TrimSpace(*username)
		if len(value) < 3 || len(value) > 20 {
			return &ValidationFailedError{Fields: validator.ValidationErrors{{
				Field:   "username",
				Message: "must be between 3 and 20 characters",
				Value:   *username,
				Rule:    "min",
			}}}
		}
		if value != user.Username {
			taken, err := txRepo.User().ExistsByUsernameExcludingID(ctx, nil, value, user.ID)
			if err != nil {
				return fmt.Errorf("failed to check username uniqueness: %w", err)
			}
			if taken {
				return &DuplicateError{Message: "username is already taken"}
			}
			user.Username = value
		}
	}

	if email != nil {
		value := validator.NormalizeEmail(*email)
		check := struct {
			Email string `validate:"required,email,max=50"`
		}{Email: value}
		if fieldErrors := s.validator.Validate(&check); fieldErrors.HasErrors() {
			return &ValidationFailedError{Fields: validator.ValidationErrors{{
				Field:   "email",
				Message: "must be a valid email address",
				Value:   *email,
				Rule:    "email",
			}}}
		}
		if value != user.Email {
			taken, err := txRepo.User().ExistsByEmailExcludingID(ctx, nil, value, user.ID)
			if err != nil {
				return fmt.Errorf("failed to check email uniqueness: %w", err)
			}
			if taken {
				return &DuplicateError{Message: "email is already in use"}
			}
			user.Email = value
		}
	}

	if password != nil {
		value := strings.TrimSpace(*password)
		if len(value) < 6 {
			return &ValidationFailedError{Fields: validator.ValidationErrors{{
				Field:   "password",
				Message: "must be at least 6 characters",
				Rule:    "min",
			}}}
		}
		hashed, err := s.hasher.Hash(value)
		if err != nil {
			return err
		}
		user.Password = hashed
	}

	return nil
}

// applyProfilePatch applies the student-profile fields of a partial update.
// Patching profile fields requires a completed profile; without one the
// caller is directed to the complete-profile operation instead.
func (s *userStudentService) applyProfilePatch(ctx context.Context, txRepo repositories.Repository, user *models.User, fullName, enrollmentDate *string) error {
	if fullName == nil && enrollmentDate == nil {
		return nil
	}

	if user.Profile == nil {
		return &InvalidArgumentError{Message: "student profile is not completed; complete the student profile first"}
	}

	if fullName != nil {
		value := validator.NormalizeName(*fullName)
		if len(value) < 2 || len(value) > 100 {
			return &ValidationFailedError{Fields: validator.ValidationErrors{{
				Field:   "fullName",
				Message: "must be between 2 and 100 characters",
				Value:   *fullName,
				Rule:    "min",
			}}}
		}
		user.Profile.FullName = value
	}

	if enrollmentDate != nil {
		date, fieldErrors := validator.ParseEnrollmentDate(strings.TrimSpace(*enrollmentDate))
		if fieldErrors.HasErrors() {
			return &ValidationFailedError{Fields: fieldErrors}
		}
		user.Profile.EnrollmentDate = date
	}

	return txRepo.User().SaveProfile(ctx, nil, user.Profile)
}
