package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/registration-service/internal/models"
)

// RoleRepository persists the role catalog.
type RoleRepository interface {
	GetByName(ctx context.Context, tx *gorm.DB, name models.RoleName) (*models.Role, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.Role, error)

	// Seed creates any missing catalog roles. Called once at startup.
	Seed(ctx context.Context, tx *gorm.DB) error
}
