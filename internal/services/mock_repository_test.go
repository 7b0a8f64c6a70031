package services

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/registration-service/internal/models"
	"github.com/SAP-F-2025/registration-service/internal/repositories"
)

// mockRepository is an in-memory Repository for service tests.
type mockRepository struct {
	student *mockStudentRepo
	user    *mockUserRepo
	role    *mockRoleRepo
}

func newMockRepository() *mockRepository {
	repo := &mockRepository{
		student: &mockStudentRepo{students: make(map[uint]*models.Student)},
		user:    &mockUserRepo{users: make(map[uint]*models.User)},
		role:    &mockRoleRepo{roles: make(map[models.RoleName]*models.Role)},
	}
	_ = repo.role.Seed(context.Background(), nil)
	return repo
}

func (m *mockRepository) Student() repositories.StudentRepository { return m.student }
func (m *mockRepository) User() repositories.UserRepository       { return m.user }
func (m *mockRepository) Role() repositories.RoleRepository       { return m.role }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== STUDENT =====

type mockStudentRepo struct {
	students map[uint]*models.Student
	nextID   uint

	// Forced write failures, for constraint-race scenarios.
	createErr error
	updateErr error
}

func (m *mockStudentRepo) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	student.ID = m.nextID
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) CreateBatch(ctx context.Context, tx *gorm.DB, students []*models.Student) error {
	for _, s := range students {
		if err := m.Create(ctx, tx, s); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.students[student.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(m.students, id)
	return nil
}

func (m *mockStudentRepo) DeleteBatch(ctx context.Context, tx *gorm.DB, ids []uint) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := m.students[id]; ok {
			delete(m.students, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockStudentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	student, ok := m.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (m *mockStudentRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Student, error) {
	for _, s := range m.students {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) all() []*models.Student {
	out := make([]*models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *mockStudentRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	out := m.all()
	if strings.EqualFold(filters.SortOrder, "asc") {
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}
	total := int64(len(out))

	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			out = nil
		} else {
			out = out[filters.Offset:]
		}
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, total, nil
}

func (m *mockStudentRepo) Search(ctx context.Context, tx *gorm.DB, keyword string) ([]*models.Student, error) {
	keyword = strings.ToLower(keyword)
	var out []*models.Student
	for _, s := range m.all() {
		if strings.Contains(strings.ToLower(s.Name), keyword) || strings.Contains(strings.ToLower(s.Email), keyword) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) SearchByName(ctx context.Context, tx *gorm.DB, name string) ([]*models.Student, error) {
	name = strings.ToLower(name)
	var out []*models.Student
	for _, s := range m.all() {
		if strings.Contains(strings.ToLower(s.Name), name) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) SearchByEmail(ctx context.Context, tx *gorm.DB, email string) ([]*models.Student, error) {
	email = strings.ToLower(email)
	var out []*models.Student
	for _, s := range m.all() {
		if strings.Contains(strings.ToLower(s.Email), email) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) ListByEnrollmentDate(ctx context.Context, tx *gorm.DB, date models.Date) ([]*models.Student, error) {
	var out []*models.Student
	for _, s := range m.all() {
		if s.EnrollmentDate.Equal(date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) ListByEnrollmentDateRange(ctx context.Context, tx *gorm.DB, start, end models.Date) ([]*models.Student, error) {
	var out []*models.Student
	for _, s := range m.all() {
		if !s.EnrollmentDate.Before(start) && !s.EnrollmentDate.After(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) CountByEnrollmentDate(ctx context.Context, tx *gorm.DB, date models.Date) (int64, error) {
	matches, _ := m.ListByEnrollmentDate(ctx, tx, date)
	return int64(len(matches)), nil
}

func (m *mockStudentRepo) CountByEnrollmentDateRange(ctx context.Context, tx *gorm.DB, start, end models.Date) (int64, error) {
	matches, _ := m.ListByEnrollmentDateRange(ctx, tx, start, end)
	return int64(len(matches)), nil
}

func (m *mockStudentRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	return int64(len(m.students)), nil
}

func (m *mockStudentRepo) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	_, ok := m.students[id]
	return ok, nil
}

func (m *mockStudentRepo) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	for _, s := range m.students {
		if s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) ExistsByEmailExcludingID(ctx context.Context, tx *gorm.DB, email string, id uint) (bool, error) {
	for _, s := range m.students {
		if s.Email == email && s.ID != id {
			return true, nil
		}
	}
	return false, nil
}

// ===== USER =====

type mockUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func (m *mockUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) all() []*models.User {
	out := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *mockUserRepo) ListStudents(ctx context.Context, tx *gorm.DB) ([]*models.User, error) {
	var out []*models.User
	for _, u := range m.all() {
		if u.Profile != nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) SearchStudents(ctx context.Context, tx *gorm.DB, keyword string) ([]*models.User, error) {
	keyword = strings.ToLower(keyword)
	var out []*models.User
	for _, u := range m.all() {
		if u.Profile == nil {
			continue
		}
		if strings.Contains(strings.ToLower(u.Profile.FullName), keyword) ||
			strings.Contains(strings.ToLower(u.Email), keyword) ||
			strings.Contains(strings.ToLower(u.Username), keyword) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) SaveProfile(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error {
	user, ok := m.users[profile.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Profile = profile
	return nil
}

func (m *mockUserRepo) ReplaceRoles(ctx context.Context, tx *gorm.DB, user *models.User, roles []models.Role) error {
	user.Roles = roles
	if stored, ok := m.users[user.ID]; ok {
		stored.Roles = roles
	}
	return nil
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) ExistsByUsernameExcludingID(ctx context.Context, tx *gorm.DB, username string, id uint) (bool, error) {
	for _, u := range m.users {
		if u.Username == username && u.ID != id {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) ExistsByEmailExcludingID(ctx context.Context, tx *gorm.DB, email string, id uint) (bool, error) {
	for _, u := range m.users {
		if u.Email == email && u.ID != id {
			return true, nil
		}
	}
	return false, nil
}

// ===== ROLE =====

type mockRoleRepo struct {
	roles map[models.RoleName]*models.Role
}

func (m *mockRoleRepo) GetByName(ctx context.Context, tx *gorm.DB, name models.RoleName) (*models.Role, error) {
	role, ok := m.roles[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (m *mockRoleRepo) List(ctx context.Context, tx *gorm.DB) ([]*models.Role, error) {
	out := make([]*models.Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRoleRepo) Seed(ctx context.Context, tx *gorm.DB) error {
	for i, name := range models.AllRoleNames() {
		if _, ok := m.roles[name]; !ok {
			m.roles[name] = &models.Role{ID: uint(i + 1), Name: name}
		}
	}
	return nil
}
