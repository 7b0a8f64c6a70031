package models

// Student is a registry record managed directly by moderators and admins.
// It is independent from user accounts; see User/StudentProfile for the
// account-backed student surface.
type Student struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Name           string `json:"name" gorm:"not null;size:100"`
	Email          string `json:"email" gorm:"uniqueIndex;not null;size:150"`
	EnrollmentDate Date   `json:"enrollmentDate" gorm:"not null"`
}

func (Student) TableName() string {
	return "students"
}
