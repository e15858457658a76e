package models

import (
	"time"

	"github.com/google/uuid"
)

type Student struct {
	UserID     uuid.UUID `gorm:"primary_key" json:"user_id"`
	GradeLevel *string   `gorm:"size:50" json:"grade_level"`
	Credits    float64   `gorm:"type:numeric(12,4);default:0" json:"credits"`

	User      User      `gorm:"foreignkey:UserID" json:"user"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
