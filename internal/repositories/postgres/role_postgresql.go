package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/registration-service/internal/models"
	"github.com/SAP-F-2025/registration-service/internal/repositories"
)

type roleRepository struct {
	db *gorm.DB
}

func NewRolePostgreSQL(db *gorm.DB) repositories.RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *roleRepository) GetByName(ctx context.Context, tx *gorm.DB, name models.RoleName) (*models.Role, error) {
	db := r.getDB(tx)
	var role models.Role

	if err := db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, handleDBError(err, "get role by name")
	}

	return &role, nil
}

func (r *roleRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.Role, error) {
	db := r.getDB(tx)
	var roles []*models.Role

	if err := db.WithContext(ctx).Order("id").Find(&roles).Error; err != nil {
		return nil, handleDBError(err, "list roles")
	}

	return roles, nil
}

func (r *roleRepository) Seed(ctx context.Context, tx *gorm.DB) error {
	db := r.getDB(tx)

	for _, name := range models.AllRoleNames() {
		var count int64
		if err := db.WithContext(ctx).
			Model(&models.Role{}).
			Where("name = ?", name).
			Count(&count).Error; err != nil {
			return handleDBError(err, "check role")
		}
		if count > 0 {
			continue
		}
		if err := db.WithContext(ctx).Create(&models.Role{Name: name}).Error; err != nil {
			return handleDBError(err, "seed role")
		}
	}

	return nil
}
