package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/registration-service/internal/models"
)

// StudentFilters defines paging and sorting for registry queries.
type StudentFilters struct {
	SortBy    string // API sort key, whitelisted by the implementation
	SortOrder string // "asc"/"desc", case-insensitive; default desc
	Limit     int    // Page size; 0 means unbounded
	Offset    int    // Offset for pagination
}

// StudentRepository persists registry students.
type StudentRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	CreateBatch(ctx context.Context, tx *gorm.DB, students []*models.Student) error
	Update(ctx context.Context, tx *gorm.DB, student *models.Student) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	DeleteBatch(ctx context.Context, tx *gorm.DB, ids []uint) (int64, error)

	// Read operations
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Student, error)
	List(ctx context.Context, tx *gorm.DB, filters StudentFilters) ([]*models.Student, int64, error)

	// Search operations (case-insensitive substring)
	Search(ctx context.Context, tx *gorm.DB, keyword string) ([]*models.Student, error)
	SearchByName(ctx context.Context, tx *gorm.DB, name string) ([]*models.Student, error)
	SearchByEmail(ctx context.Context, tx *gorm.DB, email string) ([]*models.Student, error)

	// Enrollment-date operations
	ListByEnrollmentDate(ctx context.Context, tx *gorm.DB, date models.Date) ([]*models.Student, error)
	ListByEnrollmentDateRange(ctx context.Context, tx *gorm.DB, start, end models.Date) ([]*models.Student, error)
	CountByEnrollmentDate(ctx context.Context, tx *gorm.DB, date models.Date) (int64, error)
	CountByEnrollmentDateRange(ctx context.Context, tx *gorm.DB, start, end models.Date) (int64, error)

	// Validation and checks
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	ExistsByEmailExcludingID(ctx context.Context, tx *gorm.DB, email string, id uint) (bool, error)
}
