package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TransactionStatusPending   = "pending"
	TransactionStatusSucceeded = "succeeded"
	TransactionStatusFailed    = "failed"

	PayerTypeStudent   = "student"
	PayerTypePrincipal = "principal"
)

// Transaction records a credit purchase by a student or principal.
type Transaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PayerUserID uuid.UUID `gorm:"not null"`
	PayerType   string    `gorm:"size:20;not null"`

	Credits  float64 `gorm:"type:numeric(12,4);not null"`
	Amount   float64 `gorm:"type:numeric(12,2);not null"`
	Currency string  `gorm:"size:3;not null"`

	Provider      string  `gorm:"size:20;not null"`
	ProviderRefID *string `gorm:"size:255;unique"`
	ProviderTxnID *string `gorm:"size:255;unique"`
	Status        string  `gorm:"size:20;not null;default:'pending'"`

	Payer User `gorm:"foreignkey:PayerUserID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
