package models

import (
	"time"

	"github.com/google/uuid"
)

// PayoutReport is an immutable snapshot of a batch of withdrawals. Tutor
// details are denormalized into report_data on purpose: the report records
// what was true at generation time even if profiles change later.
type PayoutReport struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`
	GeneratedBy uuid.UUID `gorm:"not null" json:"generated_by"`

	ReportData []byte  `gorm:"type:jsonb;not null" json:"report_data"`
	ArchiveURL *string `gorm:"size:512" json:"archive_url"`

	CreatedAt time.Time `json:"created_at"`
}
