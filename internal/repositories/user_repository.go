package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/registration-service/internal/models"
)

// UserRepository persists user accounts and their student profiles.
// Student-scoped reads consider only accounts with a complete profile.
type UserRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Read operations (roles and profile preloaded)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)

	// Student-scoped operations
	ListStudents(ctx context.Context, tx *gorm.DB) ([]*models.User, error)
	SearchStudents(ctx context.Context, tx *gorm.DB, keyword string) ([]*models.User, error)

	// Profile and roles
	SaveProfile(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error
	ReplaceRoles(ctx context.Context, tx *gorm.DB, user *models.User, roles []models.Role) error

	// Validation and checks
	ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error)
	ExistsByUsernameExcludingID(ctx context.Context, tx *gorm.DB, username string, id uint) (bool, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	ExistsByEmailExcludingID(ctx context.Context, tx *gorm.DB, email string, id uint) (bool, error)
}
