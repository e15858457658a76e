package models

import (
	"time"

	"github.com/google/uuid"
)

// Tutors in the Philippines are paid in PHP, everyone else in USD.
const (
	PricingRegionPH            = "PH"
	PricingRegionInternational = "INTL"
)

type Tutor struct {
	UserID        uuid.UUID `gorm:"primary_key" json:"user_id"`
	Headline      *string   `gorm:"size:255" json:"headline"`
	Bio           *string   `gorm:"type:text" json:"bio"`
	Status        string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	PricingRegion string    `gorm:"size:10;not null;default:'INTL'" json:"pricing_region"`

	// Credits is the transactional ledger balance. It is only ever mutated
	// through atomic conditional updates inside a transaction.
	Credits float64 `gorm:"type:numeric(12,4);default:0" json:"credits"`

	StripeAccountID  *string `gorm:"size:255" json:"-"`
	PayMongoWalletID *string `gorm:"size:255" json:"-"`

	User      User      `gorm:"foreignkey:UserID" json:"user"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
