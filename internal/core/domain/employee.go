package domain

import "time"

const (
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// ValidRole reports whether role is a known employee role.
func ValidRole(role string) bool {
	return role == RoleManager || role == RoleStaff
}

// ValidPasscode reports whether p is 4 to 8 ASCII digits.
func ValidPasscode(p string) bool {
	if len(p) < 4 || len(p) > 8 {
		return false
	}
	for i := 0; i < len(p); i++ {
		if p[i] < '0' || p[i] > '9' {
			return false
		}
	}
	return true
}

// Employee is a person allowed to operate the register.
type Employee struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasscodeHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
