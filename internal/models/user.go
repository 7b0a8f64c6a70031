package models

import (
	"time"
)

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex;not null;size:20"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:50"`
	Password string `json:"-" gorm:"not null;size:120"`

	// Status
	IsActive  bool       `json:"isActive" gorm:"default:true"`
	LastLogin *time.Time `json:"lastLogin"`

	Roles   []Role          `json:"roles" gorm:"many2many:user_roles"`
	Profile *StudentProfile `json:"profile,omitempty" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// IsStudent reports whether the account carries a complete student profile.
func (u *User) IsStudent() bool {
	return u.Profile != nil
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(name RoleName) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// RoleNames returns the user's role names.
func (u *User) RoleNames() []RoleName {
	names := make([]RoleName, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// StudentProfile is the optional student sub-record of a user account.
// An account with a profile row is a student; both fields are mandatory.
type StudentProfile struct {
	UserID         uint   `json:"-" gorm:"primaryKey"`
	FullName       string `json:"fullName" gorm:"not null;size:100"`
	EnrollmentDate Date   `json:"enrollmentDate" gorm:"not null"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}
