package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a registered shopper, optionally holding a loyalty card.
// CardCode is unique when set; Points never goes below zero.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null;index"`
	CardCode  *string   `gorm:"uniqueIndex"`
	Points    int       `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
