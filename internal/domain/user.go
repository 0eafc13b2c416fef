package domain

import "time"

// AccountRole is the account-level role, independent of per-project roles.
type AccountRole string

const (
	AccountRoleAdmin AccountRole = "admin"
	AccountRoleUser  AccountRole = "user"
)

// ParseAccountRole rejects unknown account roles at the boundary.
func ParseAccountRole(s string) (AccountRole, error) {
	switch AccountRole(s) {
	case AccountRoleAdmin, AccountRoleUser:
		return AccountRole(s), nil
	}
	return "", &ValidationError{Field: "role", Message: "unknown role " + s}
}

// User represents a registered account.
type User struct {
	ID           string      `json:"id" db:"id"`
	Username     string      `json:"username" db:"username"`
	Email        string      `json:"email" db:"email"`
	Role         AccountRole `json:"role" db:"role"`
	PasswordHash string      `json:"-" db:"password_hash"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// UserRef is the trimmed user shape embedded in populated responses.
type UserRef struct {
	ID       string      `json:"id" db:"id"`
	Username string      `json:"username" db:"username"`
	Role     AccountRole `json:"role" db:"role"`
}
