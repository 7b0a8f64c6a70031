package models

import "time"

// StudentPage is a page of registry students plus paging metadata.
type StudentPage struct {
	Content       []*Student `json:"content"`
	Page          int        `json:"page"`
	Size          int        `json:"size"`
	TotalElements int64      `json:"totalElements"`
	TotalPages    int        `json:"totalPages"`
}

// UserStudentResponse is the API shape of an account-backed student.
// The password hash never leaves the service; roles are flattened to names.
type UserStudentResponse struct {
	ID             uint       `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	FullName       string     `json:"fullName,omitempty"`
	EnrollmentDate *Date      `json:"enrollmentDate,omitempty"`
	IsStudent      bool       `json:"isStudent"`
	IsActive       bool       `json:"isActive"`
	Roles          []string   `json:"roles"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// NewUserStudentResponse maps a user entity to its API shape.
func NewUserStudentResponse(u *User) *UserStudentResponse {
	resp := &UserStudentResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsStudent: u.IsStudent(),
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}

	resp.Roles = make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		resp.Roles = append(resp.Roles, string(r.Name))
	}

	if u.Profile != nil {
		resp.FullName = u.Profile.FullName
		date := u.Profile.EnrollmentDate
		resp.EnrollmentDate = &date
	}

	return resp
}

// NewUserStudentResponses maps a slice of users.
func NewUserStudentResponses(users []*User) []*UserStudentResponse {
	out := make([]*UserStudentResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserStudentResponse(u))
	}
	return out
}
