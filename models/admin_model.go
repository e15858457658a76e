package models

import (
	"time"

	"github.com/google/uuid"
)

type Admin struct {
	UserID    uuid.UUID `gorm:"primary_key" json:"user_id"`
	User      User      `gorm:"foreignkey:UserID" json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

type Superadmin struct {
	UserID    uuid.UUID `gorm:"primary_key" json:"user_id"`
	User      User      `gorm:"foreignkey:UserID" json:"user"`
	CreatedAt time.Time `json:"created_at"`
}
