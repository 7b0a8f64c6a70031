package models

import "strings"

type RoleName string

const (
	RoleUser      RoleName = "ROLE_USER"
	RoleModerator RoleName = "ROLE_MODERATOR"
	RoleAdmin     RoleName = "ROLE_ADMIN"
)

// RolePrefix is prepended to bare role names ("ADMIN" -> "ROLE_ADMIN").
const RolePrefix = "ROLE_"

// AllRoleNames lists every role the service seeds at startup.
func AllRoleNames() []RoleName {
	return []RoleName{RoleUser, RoleModerator, RoleAdmin}
}

// NormalizeRoleName canonicalizes a raw role string to an upper-cased
// name carrying the ROLE_ prefix.
func NormalizeRoleName(raw string) RoleName {
	name := strings.ToUpper(strings.TrimSpace(raw))
	if !strings.HasPrefix(name, RolePrefix) {
		name = RolePrefix + name
	}
	return RoleName(name)
}

// Valid reports whether the name is one of the known roles.
func (r RoleName) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type Role struct {
	ID   uint     `json:"id" gorm:"primaryKey"`
	Name RoleName `json:"name" gorm:"uniqueIndex;not null;size:20"`
}

func (Role) TableName() string {
	return "roles"
}
