package validator

// ===== STUDENT REGISTRY REQUESTS =====

type CreateStudentRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Email          string `json:"email" validate:"required,email,max=150"`
	EnrollmentDate string `json:"enrollmentDate" validate:"required,enrollment_date"`
}

type UpdateStudentRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Email          string `json:"email" validate:"required,email,max=150"`
	EnrollmentDate string `json:"enrollmentDate" validate:"required,enrollment_date"`
}

type BulkCreateStudentsRequest struct {
	Students []CreateStudentRequest `json:"students" validate:"required,min=1,dive"`
}

type BulkDeleteStudentsRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1,dive,gt=0"`
}

// ===== ACCOUNT-BACKED STUDENT REQUESTS =====

type CompleteProfileRequest struct {
	FullName       string `json:"fullName" validate:"required,min=2,max=100"`
	EnrollmentDate string `json:"enrollmentDate" validate:"required,enrollment_date"`
}

// UpdateProfileRequest is the self-service patch. Absent fields are left
// unchanged; a field that is present but blank after trimming is rejected.
type UpdateProfileRequest struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	FullName       *string `json:"fullName"`
	EnrollmentDate *string `json:"enrollmentDate"`
}

// AdminUpdateStudentRequest is the elevated full update. Roles semantics:
// nil leaves roles unchanged, an empty slice clears them, anything else is
// resolved against the role catalog.
type AdminUpdateStudentRequest struct {
	Username       *string   `json:"username"`
	Email          *string   `json:"email"`
	Password       *string   `json:"password"`
	FullName       *string   `json:"fullName"`
	EnrollmentDate *string   `json:"enrollmentDate"`
	Roles          *[]string `json:"roles"`
	IsActive       *bool     `json:"isActive"`
}

// ===== AUTH REQUESTS =====

type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email" validate:"required,email,max=50"`
	Password string `json:"password" validate:"required,min=6,max=40"`
}

type SignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
