package users

import (
	"strings"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	EmployeeID   string    `json:"employeeId"`
	Department   string    `json:"department,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser carries the fields accepted at registration. EmployeeID is issued by
// the store.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Department   string
}

// Profile holds the only user fields that may change after registration.
type Profile struct {
	Name       string
	Email      string
	Department string
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
