package services

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jptandoc/turo_backend/models"
)

// TutorBalance is a derived reconciliation view over session and withdrawal
// history. The stored Tutor.Credits column remains the transactional source
// of truth; this calculation exists to audit it and may legitimately show a
// negative available figure if historical data is inconsistent.
type TutorBalance struct {
	EarnedCredits    float64 `json:"earned_credits"`
	WithdrawnCredits float64 `json:"withdrawn_credits"`
	AvailableCredits float64 `json:"available_credits"`
}

// Withdrawals in these states hold (or have consumed) credits. Rejected and
// failed withdrawals returned their credits and do not count.
var withdrawalHoldStatuses = []string{
	models.WithdrawalStatusPending,
	models.WithdrawalStatusApproved,
	models.WithdrawalStatusProcessing,
	models.WithdrawalStatusCompleted,
}

// ComputeTutorBalance sums earned session credits and subtracts credits
// consumed by non-rejected, non-failed withdrawals. A tutor with no sessions
// or no withdrawals simply contributes zero to either side.
func ComputeTutorBalance(db *gorm.DB, tutorID uuid.UUID) (TutorBalance, error) {
	var earned float64
	err := db.Model(&models.Schedule{}).
		Where("tutor_id = ? AND status = ? AND (session_status = ? OR session_action = ?)",
			tutorID, models.ScheduleStatusConfirmed, models.SessionStatusSuccessful, models.SessionActionReviewSubmitted).
		Select("COALESCE(SUM(credits_required), 0)").
		Row().Scan(&earned)
	if err != nil {
		return TutorBalance{}, err
	}

	var withdrawals []models.TutorWithdrawal
	if err := db.Where("tutor_id = ? AND status IN ?", tutorID, withdrawalHoldStatuses).
		Find(&withdrawals).Error; err != nil {
		return TutorBalance{}, err
	}

	withdrawn := decimal.Zero
	for _, w := range withdrawals {
		withdrawn = withdrawn.Add(amountToCreditsAtRate(w.Amount, w.ConversionRate))
	}

	available := decimal.NewFromFloat(earned).Sub(withdrawn).Round(creditsScale)

	return TutorBalance{
		EarnedCredits:    earned,
		WithdrawnCredits: withdrawn.InexactFloat64(),
		AvailableCredits: available.InexactFloat64(),
	}, nil
}
