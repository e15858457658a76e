package models

import (
	"time"

	"github.com/google/uuid"
)

// A Principal purchases credits and books sessions on behalf of their students.
type Principal struct {
	UserID     uuid.UUID `gorm:"primary_key" json:"user_id"`
	SchoolName *string   `gorm:"size:255" json:"school_name"`
	Credits    float64   `gorm:"type:numeric(12,4);default:0" json:"credits"`

	User      User      `gorm:"foreignkey:UserID" json:"user"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
