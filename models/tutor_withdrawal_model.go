package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	WithdrawalStatusPending    = "pending"
	WithdrawalStatusApproved   = "approved"
	WithdrawalStatusRejected   = "rejected"
	WithdrawalStatusProcessing = "processing"
	WithdrawalStatusCompleted  = "completed"
	WithdrawalStatusFailed     = "failed"
)

const (
	PaymentMethodStripe   = "stripe"
	PaymentMethodPayMongo = "paymongo"
)

// TutorWithdrawal stores the amount in the tutor's home currency together
// with the pricing region and conversion rate in effect at request time, so
// later profile edits cannot change historical payout math.
type TutorWithdrawal struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TutorID   uuid.UUID `gorm:"not null" json:"tutor_id"`
	Reference string    `gorm:"size:12;unique" json:"reference"`

	Amount         float64 `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency       string  `gorm:"size:3;not null" json:"currency"`
	PricingRegion  string  `gorm:"size:10;not null" json:"pricing_region"`
	ConversionRate float64 `gorm:"type:numeric(10,4);not null" json:"conversion_rate"`

	Status        string `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaymentMethod string `gorm:"size:20;not null" json:"payment_method"`

	RequestedAt     time.Time  `gorm:"not null" json:"requested_at"`
	ApprovedBy      *uuid.UUID `json:"approved_by"`
	ApprovedAt      *time.Time `json:"approved_at"`
	RejectedBy      *uuid.UUID `json:"rejected_by"`
	RejectedAt      *time.Time `json:"rejected_at"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason"`
	ProcessedAt     *time.Time `json:"processed_at"`
	FailureReason   *string    `gorm:"type:text" json:"failure_reason"`

	ProviderTransferID *string `gorm:"size:255" json:"provider_transfer_id"`

	Tutor Tutor `gorm:"foreignkey:TutorID;references:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
