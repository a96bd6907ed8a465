package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the coarse-grained role attached to an API user.
// The backend records roles but performs no per-role authorization: every
// authenticated user may call every endpoint.
type Role string

const (
	RoleFleetManager     Role = "FLEET_MANAGER"
	RoleDispatcher       Role = "DISPATCHER"
	RoleSafetyOfficer    Role = "SAFETY_OFFICER"
	RoleFinancialAnalyst Role = "FINANCIAL_ANALYST"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleFleetManager, RoleDispatcher, RoleSafetyOfficer, RoleFinancialAnalyst:
		return true
	}
	return false
}

// User is an API account. PasswordHash is the bcrypt hash of the password
// and is never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
