package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/registration-service/internal/models"
	"github.com/SAP-F-2025/registration-service/internal/repositories"
	"github.com/SAP-F-2025/registration-service/internal/validator"
)

// ===== SERVICE INTERFACE =====

// StudentService manages the moderator-facing student registry.
type StudentService interface {
	// Write operations
	Create(ctx context.Context, req *validator.CreateStudentRequest) (*models.Student, error)
	CreateBatch(ctx context.Context, reqs []validator.CreateStudentRequest) ([]*models.Student, error)
	Update(ctx context.Context, id uint, req *validator.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id uint) error
	DeleteBatch(ctx context.Context, ids []uint) (int64, error)

	// Read operations
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	ListPaged(ctx context.Context, page, size int, sortBy, sortDir string) (*models.StudentPage, error)

	// Search operations
	Search(ctx context.Context, keyword string) ([]*models.Student, error)
	SearchByName(ctx context.Context, name string) ([]*models.Student, error)
	SearchByEmail(ctx context.Context, email string) ([]*models.Student, error)

	// Enrollment-date operations
	ListByDate(ctx context.Context, date models.Date) ([]*models.Student, error)
	ListByDateRange(ctx context.Context, start, end models.Date) ([]*models.Student, error)
	CountByDate(ctx context.Context, date models.Date) (int64, error)
	CountByDateRange(ctx context.Context, start, end models.Date) (int64, error)

	// Counts and checks
	Count(ctx context.Context) (int64, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ===== SERVICE IMPLEMENTATION =====

type studentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewStudentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) StudentService {
	return &studentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ===== WRITE OPERATIONS =====

func (s *studentService) Create(ctx context.Context, req *validator.CreateStudentRequest) (*models.Student, error) {
	s.logger.Info("Creating student", "email", req.Email)

	student, err := s.buildStudent(req.Name, req.Email, req.EnrollmentDate)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		exists, err := txRepo.Student().ExistsByEmail(ctx, nil, student.Email)
		if err != nil {
			return fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if exists {
			return NewDuplicateStudentEmailError()
		}

		return txRepo.Student().Create(ctx, nil, student)
	})
	if err != nil {
		return nil, mapStudentWriteError(err)
	}

	return student, nil
}

func (s *studentService) CreateBatch(ctx context.Context, reqs []validator.CreateStudentRequest) ([]*models.Student, error) {
	s.logger.Info("Creating students batch", "count", len(reqs))

	if len(reqs) == 0 {
		return nil, &InvalidArgumentError{Message: "student list must not be empty"}
	}

	// Validate every item before touching storage; report all failures at once.
	students := make([]*models.Student, 0, len(reqs))
	seenEmails := make(map[string]int, len(reqs))
	var itemErrors []string

	for i, req := range reqs {
		student, err := s.buildStudent(req.Name, req.Email, req.EnrollmentDate)
		if err != nil {
			itemErrors = append(itemErrors, fmt.Sprintf("students[%d]: %s", i, err.Error()))
			continue
		}

		if prev, dup := seenEmails[student.Email]; dup {
			itemErrors = append(itemErrors, fmt.Sprintf("students[%d]: email duplicates students[%d]", i, prev))
			continue
		}
		seenEmails[student.Email] = i

		students = append(students, student)
	}

	if len(itemErrors) > 0 {
		return nil, &BulkOperationError{Errors: itemErrors}
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		for _, student := range students {
			exists, err := txRepo.Student().ExistsByEmail(ctx, nil, student.Email)
			if err != nil {
				return fmt.Errorf("failed to check email uniqueness: %w", err)
			}
			if exists {
				return NewDuplicateStudentEmailError()
			}
		}

		return txRepo.Student().CreateBatch(ctx, nil, students)
	})
	if err != nil {
		return nil, mapStudentWriteError(err)
	}

	return students, nil
}

func (s *studentService) Update(ctx context.Context, id uint, req *validator.UpdateStudentRequest) (*models.Student, error) {
	s.logger.Info("Updating student", "student_id", id)

	updated, err := s.buildStudent(req.Name, req.Email, req.EnrollmentDate)
	if err != nil {
		return nil, err
	}

	var result *models.Student
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		existing, err := txRepo.Student().GetByID(ctx, nil, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return &NotFoundError{Resource: "Student", ID: id}
			}
			return fmt.Errorf("failed to get student: %w", err)
		}

		// The record's own email never counts as a collision.
		if updated.Email != existing.Email {
			taken, err := txRepo.Student().ExistsByEmailExcludingID(ctx, nil, updated.Email, id)
			if err != nil {
				return fmt.Errorf("failed to check email uniqueness: %w", err)
			}
			if taken {
				return NewDuplicateStudentEmailError()
			}
		}

		existing.Name = updated.Name
		existing.Email = updated.Email
		existing.EnrollmentDate = updated.EnrollmentDate

		if err := txRepo.Student().Update(ctx, nil, existing); err != nil {
			return err
		}

		result = existing
		return nil
	})
	if err != nil {
		return nil, mapStudentWriteError(err)
	}

	return result, nil
}

func (s *studentService) Delete(ctx context.Context, id uint) error {
	s.logger.Info("Deleting student", "student_id", id)

	return s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		exists, err := txRepo.Student().ExistsByID(ctx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to check student: %w", err)
		}
		if !exists {
			return &NotFoundError{Resource: "Student", ID: id}
		}

		return txRepo.Student().Delete(ctx, nil, id)
	})
}

func (s *studentService) DeleteBatch(ctx context.Context, ids []uint) (int64, error) {
	s.logger.Info("Deleting students batch", "count", len(ids))

	if len(ids) == 0 {
		return 0, &InvalidArgumentError{Message: "id list must not be empty"}
	}

	var deleted int64
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		var missing []uint
		for _, id := range ids {
			exists, err := txRepo.Student().ExistsByID(ctx, nil, id)
			if err != nil {
				return fmt.Errorf("failed to check student: %w", err)
			}
			if !exists {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return &NotFoundError{Resource: "Students", ID: missing}
		}

		count, err := txRepo.Student().DeleteBatch(ctx, nil, ids)
		if err != nil {
			return err
		}
		deleted = count
		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

// ===== READ OPERATIONS =====

func (s *studentService) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	student, err := s.repo.Student().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, &NotFoundError{Resource: "Student", ID: id}
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

func (s *studentService) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	email = validator.NormalizeEmail(email)
	if email == "" {
		return nil, &InvalidArgumentError{Message: "email must not be blank"}
	}

	student, err := s.repo.Student().GetByEmail(ctx, s.db, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, &NotFoundError{Resource: "Student", ID: email}
		}
		return nil, fmt.Errorf("failed to get student by email: %w", err)
	}
	return student, nil
}

func (s *studentService) List(ctx context.Context) ([]*models.Student, error) {
	students, _, err := s.repo.Student().List(ctx, s.db, repositories.StudentFilters{
		SortBy:    "id",
		SortOrder: "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *studentService) ListPaged(ctx context.Context, page, size int, sortBy, sortDir string) (*models.StudentPage, error) {
	if page < 0 {
		page = 0
	}
	if size < 1 || size > 100 {
		size = 10
	}

	students, total, err := s.repo.Student().List(ctx, s.db, repositories.StudentFilters{
		SortBy:    sortBy,
		SortOrder: sortDir,
		Limit:     size,
		Offset:    page * size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	totalPages := int((total + int64(size) - 1) / int64(size))

	return &models.StudentPage{
		Content:       students,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// ===== SEARCH OPERATIONS =====

func (s *studentService) Search(ctx context.Context, keyword string) ([]*models.Student, error) {
	keyword = validator.NormalizeName(keyword)
	if keyword == "" {
		return s.List(ctx)
	}

	students, err := s.repo.Student().Search(ctx, s.db, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search students: %w", err)
	}
	return students, nil
}

func (s *studentService) SearchByName(ctx context.Context, name string) ([]*models.Student, error) {
	name = validator.NormalizeName(name)
	if name == "" {
		return s.List(ctx)
	}

	students, err := s.repo.Student().SearchByName(ctx, s.db, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search students by name: %w", err)
	}
	return students, nil
}

func (s *studentService) SearchByEmail(ctx context.Context, email string) ([]*models.Student, error) {
	email = validator.NormalizeEmail(email)
	if email == "" {
		return s.List(ctx)
	}

	students, err := s.repo.Student().SearchByEmail(ctx, s.db, email)
	if err != nil {
		return nil, fmt.Errorf("failed to search students by email: %w", err)
	}
	return students, nil
}

// ===== ENROLLMENT DATE OPERATIONS =====

func (s *studentService) ListByDate(ctx context.Context, date models.Date) ([]*models.Student, error) {
	students, err := s.repo.Student().ListByEnrollmentDate(ctx, s.db, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list students by date: %w", err)
	}
	return students, nil
}

func (s *studentService) ListByDateRange(ctx context.Context, start, end models.Date) ([]*models.Student, error) {
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}

	students, err := s.repo.Student().ListByEnrollmentDateRange(ctx, s.db, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list students by date range: %w", err)
	}
	return students, nil
}

func (s *studentService) CountByDate(ctx context.Context, date models.Date) (int64, error) {
	count, err := s.repo.Student().CountByEnrollmentDate(ctx, s.db, date)
	if err != nil {
		return 0, fmt.Errorf("failed to count students by date: %w", err)
	}
	return count, nil
}

func (s *studentService) CountByDateRange(ctx context.Context, start, end models.Date) (int64, error) {
	if err := validateDateRange(start, end); err != nil {
		return 0, err
	}

	count, err := s.repo.Student().CountByEnrollmentDateRange(ctx, s.db, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to count students by date range: %w", err)
	}
	return count, nil
}

// ===== COUNTS AND CHECKS =====

func (s *studentService) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Student().Count(ctx, s.db)
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

func (s *studentService) ExistsByID(ctx context.Context, id uint) (bool, error) {
	exists, err := s.repo.Student().ExistsByID(ctx, s.db, id)
	if err != nil {
		return false, fmt.Errorf("failed to check student: %w", err)
	}
	return exists, nil
}

func (s *studentService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	email = validator.NormalizeEmail(email)
	if email == "" {
		return false, &InvalidArgumentError{Message: "email must not be blank"}
	}

	exists, err := s.repo.Student().ExistsByEmail(ctx, s.db, email)
	if err != nil {
		return false, fmt.Errorf("failed to check student email: %w", err)
	}
	return exists, nil
}

// ===== HELPERS =====

// buildStudent normalizes and validates raw payload fields into an entity.
func (s *studentService) buildStudent(name, email, enrollmentDate string) (*models.Student, error) {
	req := validator.CreateStudentRequest{
		Name:           validator.NormalizeName(name),
		Email:          validator.NormalizeEmail(email),
		EnrollmentDate: enrollmentDate,
	}

	if fieldErrors := s.validator.Validate(&req); fieldErrors.HasErrors() {
		return nil, &ValidationFailedError{Fields: fieldErrors}
	}

	date, fieldErrors := validator.ParseEnrollmentDate(req.EnrollmentDate)
	if fieldErrors.HasErrors() {
		return nil, &ValidationFailedError{Fields: fieldErrors}
	}

	return &models.Student{
		Name:           req.Name,
		Email:          req.Email,
		EnrollmentDate: date,
	}, nil
}

// mapStudentWriteError converts a unique-constraint violation that slipped
// past the in-transaction precheck into the duplicate-email conflict.
func mapStudentWriteError(err error) error {
	if repositories.IsDuplicateKeyError(err) {
		return NewDuplicateStudentEmailError()
	}
	return err
}

func validateDateRange(start, end models.Date) error {
	if start.After(end) {
		return &InvalidArgumentError{Message: "startDate must not be after endDate"}
	}
	return nil
}
