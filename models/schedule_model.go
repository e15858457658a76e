package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ScheduleStatusPending   = "pending"
	ScheduleStatusConfirmed = "confirmed"
	ScheduleStatusCancelled = "cancelled"

	SessionStatusSuccessful    = "successful"
	SessionStatusStudentNoShow = "student-no-show"
	SessionStatusTutorNoShow   = "tutor-no-show"

	SessionActionReviewSubmitted = "review-submitted"
	SessionActionNeedsReview     = "needs-review"

	NoShowTypeStudent = "student"
	NoShowTypeTutor   = "tutor"
)

// Schedule rows are never deleted; outcomes are recorded by mutating
// session_status / session_action.
type Schedule struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TutorID uuid.UUID `gorm:"not null" json:"tutor_id"`

	// Exactly one of the two payers is set.
	StudentID       *uuid.UUID `json:"student_id"`
	PrincipalUserID *uuid.UUID `json:"principal_user_id"`

	Subject   string    `gorm:"size:100" json:"subject"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status        string  `gorm:"size:20;not null;default:'pending'" json:"status"`
	SessionStatus *string `gorm:"size:30" json:"session_status"`
	SessionAction *string `gorm:"size:30" json:"session_action"`
	NoShowType    *string `gorm:"size:10" json:"no_show_type"`

	CreditsRequired float64 `gorm:"type:numeric(12,4);not null" json:"credits_required"`
	CreditsRefunded float64 `gorm:"type:numeric(12,4);default:0" json:"credits_refunded"`

	Tutor     Tutor      `gorm:"foreignkey:TutorID;references:UserID" json:"-"`
	Student   *Student   `gorm:"foreignkey:StudentID;references:UserID" json:"-"`
	Principal *Principal `gorm:"foreignkey:PrincipalUserID;references:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
