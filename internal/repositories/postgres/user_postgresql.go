package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/registration-service/internal/models"
	"github.com/SAP-F-2025/registration-service/internal/repositories"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// ===== BASIC CRUD OPERATIONS =====

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return handleDBError(err, "create user")
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := r.getDB(tx)
	// Roles are managed explicitly through ReplaceRoles; the profile is
	// upserted through SaveProfile.
	if err := db.WithContext(ctx).
		Omit("Roles", "Profile").
		Save(user).Error; err != nil {
		return handleDBError(err, "update user")
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)

	// Remove dependent rows first: join table entries and the profile.
	if err := db.WithContext(ctx).
		Exec("DELETE FROM user_roles WHERE user_id = ?", id).Error; err != nil {
		return handleDBError(err, "delete user roles")
	}
	if err := db.WithContext(ctx).
		Delete(&models.StudentProfile{}, "user_id = ?", id).Error; err != nil {
		return handleDBError(err, "delete student profile")
	}
	if err := db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return handleDBError(err, "delete user")
	}
	return nil
}

// ===== READ OPERATIONS =====

func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	db := r.getDB(tx)
	var user models.User

	if err := db.WithContext(ctx).
		Preload("Roles").
		Preload("Profile").
		First(&user, id).Error; err != nil {
		return nil, handleDBError(err, "get user by id")
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	db := r.getDB(tx)
	var user models.User

	if err := db.WithContext(ctx).
		Preload("Roles").
		Preload("Profile").
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, handleDBError(err, "get user by username")
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	db := r.getDB(tx)
	var user models.User

	if err := db.WithContext(ctx).
		Preload("Roles").
		Preload("Profile").
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, handleDBError(err, "get user by email")
	}

	return &user, nil
}

// ===== STUDENT-SCOPED OPERATIONS =====

func (r *userRepository) ListStudents(ctx context.Context, tx *gorm.DB) ([]*models.User, error) {
	db := r.getDB(tx)
	var users []*models.User

	if err := db.WithContext(ctx).
		Joins("JOIN student_profiles ON student_profiles.user_id = users.id").
		Preload("Roles").
		Preload("Profile").
		Order("users.id DESC").
		Find(&users).Error; err != nil {
		return nil, handleDBError(err, "list student users")
	}

	return users, nil
}

func (r *userRepository) SearchStudents(ctx context.Context, tx *gorm.DB, keyword string) ([]*models.User, error) {
	db := r.getDB(tx)
	var users []*models.User

	pattern := "%" + keyword + "%"
	if err := db.WithContext(ctx).
		Joins("JOIN student_profiles ON student_profiles.user_id = users.id").
		Where("student_profiles.full_name ILIKE ? OR users.email ILIKE ? OR users.username ILIKE ?",
			pattern, pattern, pattern).
		Preload("Roles").
		Preload("Profile").
		Order("users.id DESC").
		Find(&users).Error; err != nil {
		return nil, handleDBError(err, "search student users")
	}

	return users, nil
}

// ===== PROFILE AND ROLES =====

func (r *userRepository) SaveProfile(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error {
	db := r.getDB(tx)

	var count int64
	if err := db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("user_id = ?", profile.UserID).
		Count(&count).Error; err != nil {
		return handleDBError(err, "check student profile")
	}

	if count > 0 {
		if err := db.WithContext(ctx).
			Model(&models.StudentProfile{}).
			Where("user_id = ?", profile.UserID).
			Updates(map[string]interface{}{
				"full_name":       profile.FullName,
				"enrollment_date": profile.EnrollmentDate,
			}).Error; err != nil {
			return handleDBError(err, "update student profile")
		}
		return nil
	}

	if err := db.WithContext(ctx).Create(profile).Error; err != nil {
		return handleDBError(err, "create student profile")
	}
	return nil
}

func (r *userRepository) ReplaceRoles(ctx context.Context, tx *gorm.DB, user *models.User, roles []models.Role) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Model(user).Association("Roles").Replace(roles); err != nil {
		return handleDBError(err, "replace user roles")
	}
	user.Roles = roles
	return nil
}

// ===== VALIDATION AND CHECKS =====

func (r *userRepository) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	return r.exists(ctx, tx, "username = ?", username)
}

func (r *userRepository) ExistsByUsernameExcludingID(ctx context.Context, tx *gorm.DB, username string, id uint) (bool, error) {
	return r.exists(ctx, tx, "username = ? AND id <> ?", username, id)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	return r.exists(ctx, tx, "email = ?", email)
}

func (r *userRepository) ExistsByEmailExcludingID(ctx context.Context, tx *gorm.DB, email string, id uint) (bool, error) {
	return r.exists(ctx, tx, "email = ? AND id <> ?", email, id)
}

func (r *userRepository) exists(ctx context.Context, tx *gorm.DB, condition string, args ...interface{}) (bool, error) {
	db := r.getDB(tx)
	var count int64

	err := db.WithContext(ctx).
		Model(&models.User{}).
		Where(condition, args...).
		Count(&count).Error
	if err != nil {
		return false, handleDBError(err, "check user exists")
	}

	return count > 0, nil
}
