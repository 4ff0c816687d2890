package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles accepted by the auth middleware.
const (
	RoleAdministrator = "administrator"
	RoleManager       = "manager"
	RoleCashier       = "cashier"
)

// User is an operator account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
