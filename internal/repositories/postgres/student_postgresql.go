package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/registration-service/internal/cache"
	"github.com/SAP-F-2025/registration-service/internal/models"
	"github.com/SAP-F-2025/registration-service/internal/repositories"
)

type studentRepository struct {
	db          *gorm.DB
	inTx        bool
	statsCache  *cache.CacheHelper
	existsCache *cache.CacheHelper
}

func NewStudentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.StudentRepository {
	return &studentRepository{
		db:          db,
		statsCache:  cache.NewCacheHelper(redisClient, cache.StatsCacheConfig.Prefix),
		existsCache: cache.NewCacheHelper(redisClient, cache.ExistsCacheConfig.Prefix),
	}
}

// newStudentTxScoped binds the repository to an open transaction. Reads must
// see the transaction's own view, so cached reads are disabled; writes still
// invalidate the shared caches.
func newStudentTxScoped(tx *gorm.DB, redisClient *redis.Client) repositories.StudentRepository {
	repo := NewStudentPostgreSQL(tx, redisClient).(*studentRepository)
	repo.inTx = true
	return repo
}

func (r *studentRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// ===== BASIC CRUD OPERATIONS =====

func (r *studentRepository) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(student).Error; err != nil {
		return handleDBError(err, "create student")
	}
	r.invalidateCaches(ctx)
	return nil
}

func (r *studentRepository) CreateBatch(ctx context.Context, tx *gorm.DB, students []*models.Student) error {
	if len(students) == 0 {
		return nil
	}
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(&students).Error; err != nil {
		return handleDBError(err, "create students batch")
	}
	r.invalidateCaches(ctx)
	return nil
}

func (r *studentRepository) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(student).Error; err != nil {
		return handleDBError(err, "update student")
	}
	r.invalidateCaches(ctx)
	return nil
}

func (r *studentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Student{}, id).Error; err != nil {
		return handleDBError(err, "delete student")
	}
	r.invalidateCaches(ctx)
	return nil
}

func (r *studentRepository) DeleteBatch(ctx context.Context, tx *gorm.DB, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db := r.getDB(tx)
	result := db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Student{})
	if result.Error != nil {
		return 0, handleDBError(result.Error, "delete students batch")
	}
	r.invalidateCaches(ctx)
	return result.RowsAffected, nil
}

// ===== READ OPERATIONS =====

func (r *studentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	db := r.getDB(tx)
	var student models.Student
	if err := db.WithContext(ctx).First(&student, id).Error; err != nil {
		return nil, handleDBError(err, "get student by id")
	}
	return &student, nil
}

func (r *studentRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Student, error) {
	db := r.getDB(tx)
	var student models.Student
	if err := db.WithContext(ctx).Where("email = ?", email).First(&student).Error; err != nil {
		return nil, handleDBError(err, "get student by email")
	}
	return &student, nil
}

func (r *studentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	db := r.getDB(tx)
	var students []*models.Student
	var total int64

	query := db.WithContext(ctx).Model(&models.Student{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count students")
	}

	query = applyStudentSortAndPagination(query, filters)

	if err := query.Find(&students).Error; err != nil {
		return nil, 0, handleDBError(err, "list students")
	}

	return students, total, nil
}

// ===== SEARCH OPERATIONS =====

func (r *studentRepository) Search(ctx context.Context, tx *gorm.DB, keyword string) ([]*models.Student, error) {
	db := r.getDB(tx)
	var students []*models.Student

	pattern := "%" + keyword + "%"
	if err := db.WithContext(ctx).
		Where("name ILIKE ? OR email ILIKE ?", pattern, pattern).
		Order("id DESC").
		Find(&students).Error; err != nil {
		return nil, handleDBError(err, "search students")
	}

	return students, nil
}

func (r *studentRepository) SearchByName(ctx context.Context, tx *gorm.DB, name string) ([]*models.Student, error) {
	db := r.getDB(tx)
	var students []*models.Student

	if err := db.WithContext(ctx).
		Where("name ILIKE ?", "%"+name+"%").
		Order("id DESC").
		Find(&students).Error; err != nil {
		return nil, handleDBError(err, "search students by name")
	}

	return students, nil
}

func (r *studentRepository) SearchByEmail(ctx context.Context, tx *gorm.DB, email string) ([]*models.Student, error) {
	db := r.getDB(tx)
	var students []*models.Student

	if err := db.WithContext(ctx).
		Where("email ILIKE ?", "%"+email+"%").
		Order("id DESC").
		Find(&students).Error; err != nil {
		return nil, handleDBError(err, "search students by email")
	}

	return students, nil
}

// ===== ENROLLMENT DATE OPERATIONS =====

func (r *studentRepository) ListByEnrollmentDate(ctx context.Context, tx *gorm.DB, date models.Date) ([]*models.Student, error) {
	db := r.getDB(tx)
	var students []*models.Student

	if err := db.WithContext(ctx).
		Where("enrollment_date = ?", date).
		Order("id DESC").
		Find(&students).Error; err != nil {
		return nil, handleDBError(err, "list students by enrollment date")
	}

	return students, nil
}

func (r *studentRepository) ListByEnrollmentDateRange(ctx context.Context, tx *gorm.DB, start, end models.Date) ([]*models.Student, error) {
	db := r.getDB(tx)
	var students []*models.Student

	if err := db.WithContext(ctx).
		Where("enrollment_date BETWEEN ? AND ?", start, end).
		Order("id DESC").
		Find(&students).Error; err != nil {
		return nil, handleDBError(err, "list students by enrollment date range")
	}

	return students, nil
}

func (r *studentRepository) CountByEnrollmentDate(ctx context.Context, tx *gorm.DB, date models.Date) (int64, error) {
	db := r.getDB(tx)
	var count int64

	err := db.WithContext(ctx).
		Model(&models.Student{}).
		Where("enrollment_date = ?", date).
		Count(&count).Error
	if err != nil {
		return 0, handleDBError(err, "count students by enrollment date")
	}

	return count, nil
}

func (r *studentRepository) CountByEnrollmentDateRange(ctx context.Context, tx *gorm.DB, start, end models.Date) (int64, error) {
	db := r.getDB(tx)
	var count int64

	err := db.WithContext(ctx).
		Model(&models.Student{}).
		Where("enrollment_date BETWEEN ? AND ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, handleDBError(err, "count students by enrollment date range")
	}

	return count, nil
}

// ===== VALIDATION AND CHECKS =====

// cacheable reports whether a read may be served from redis. Any read issued
// inside a transaction goes to the database directly.
func (r *studentRepository) cacheable(tx *gorm.DB) bool {
	if r.inTx {
		return false
	}
	return tx == nil || tx == r.db
}

func (r *studentRepository) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	if !r.cacheable(tx) {
		return r.countFromDB(ctx, tx)
	}

	var count int64
	err := r.statsCache.CacheOrExecute(ctx, "students:count", &count, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return r.countFromDB(ctx, nil)
	})
	if err != nil {
		return r.countFromDB(ctx, nil)
	}
	return count, nil
}

func (r *studentRepository) countFromDB(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.Student{}).Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count students")
	}
	return count, nil
}

func (r *studentRepository) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := r.getDB(tx)
	var count int64

	err := db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, handleDBError(err, "check student exists by id")
	}

	return count > 0, nil
}

func (r *studentRepository) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	if !r.cacheable(tx) {
		return r.existsByEmailFromDB(ctx, tx, email)
	}

	var exists bool
	key := fmt.Sprintf("students:email:%s", email)
	err := r.existsCache.CacheOrExecute(ctx, key, &exists, cache.ExistsCacheConfig.TTL, func() (interface{}, error) {
		return r.existsByEmailFromDB(ctx, nil, email)
	})
	if err != nil {
		return r.existsByEmailFromDB(ctx, nil, email)
	}
	return exists, nil
}

func (r *studentRepository) existsByEmailFromDB(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	db := r.getDB(tx)
	var count int64

	err := db.WithContext(ctx).
		Model(&models.Student{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, handleDBError(err, "check student exists by email")
	}

	return count > 0, nil
}

func (r *studentRepository) ExistsByEmailExcludingID(ctx context.Context, tx *gorm.DB, email string, id uint) (bool, error) {
	db := r.getDB(tx)
	var count int64

	err := db.WithContext(ctx).
		Model(&models.Student{}).
		Where("email = ? AND id <> ?", email, id).
		Count(&count).Error
	if err != nil {
		return false, handleDBError(err, "check student exists by email excluding id")
	}

	return count > 0, nil
}

// invalidateCaches drops derived registry caches after any write.
func (r *studentRepository) invalidateCaches(ctx context.Context) {
	_ = r.statsCache.InvalidatePattern(ctx, "students:*")
	_ = r.existsCache.InvalidatePattern(ctx, "students:*")
}
