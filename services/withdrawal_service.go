package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jptandoc/turo_backend/models"
	"github.com/jptandoc/turo_backend/utils"
)

// Tutors cannot withdraw until they have at least one full credit banked.
const minimumPayoutCredits = 1.0

// PayoutGateway sends an approved withdrawal over the tutor's payment rail
// and returns the provider's transfer identifier. Implemented by the
// payments package; an interface here keeps the state machine testable.
type PayoutGateway interface {
	SendPayout(tutor *models.Tutor, withdrawal *models.TutorWithdrawal) (string, error)
}

func lockWithdrawal(tx *gorm.DB, withdrawalID uuid.UUID, withdrawal *models.TutorWithdrawal) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(withdrawal, "id = ?", withdrawalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: withdrawal %s", ErrNotFound, withdrawalID)
	}
	return err
}

// restoreWithdrawalCredits returns the credits a withdrawal consumed to the
// tutor's stored balance, using the rate snapshotted at request time.
func restoreWithdrawalCredits(tx *gorm.DB, withdrawal *models.TutorWithdrawal) error {
	credits := amountToCreditsAtRate(withdrawal.Amount, withdrawal.ConversionRate)
	return creditTutor(tx, withdrawal.TutorID, credits.InexactFloat64())
}

// RequestWithdrawal converts part of the tutor's credit balance into a
// pending withdrawal in their home currency. The debit and the insert happen
// in one transaction with the tutor row locked; the conditional
// `credits >= ?` update is the backstop against a racing request.
func RequestWithdrawal(db *gorm.DB, tutorUserID uuid.UUID, amount float64) (*models.TutorWithdrawal, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	var withdrawal models.TutorWithdrawal
	err := db.Transaction(func(tx *gorm.DB) error {
		var tutor models.Tutor
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&tutor, "user_id = ?", tutorUserID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: tutor profile", ErrNotFound)
		}
		if err != nil {
			return err
		}

		method := models.PaymentMethodStripe
		if tutor.PricingRegion == models.PricingRegionPH {
			method = models.PaymentMethodPayMongo
			if tutor.PayMongoWalletID == nil || *tutor.PayMongoWalletID == "" {
				return fmt.Errorf("%w: a PayMongo wallet must be linked before requesting a withdrawal", ErrValidation)
			}
		} else if tutor.StripeAccountID == nil || *tutor.StripeAccountID == "" {
			return fmt.Errorf("%w: a Stripe account must be connected before requesting a withdrawal", ErrValidation)
		}

		if tutor.Credits < minimumPayoutCredits {
			return fmt.Errorf("%w: balance is below the minimum payout of %g credit", ErrValidation, minimumPayoutCredits)
		}

		credits := AmountToCredits(amount, tutor.PricingRegion)
		if credits > tutor.Credits {
			return fmt.Errorf("%w: insufficient credits for this withdrawal", ErrValidation)
		}

		res := tx.Model(&models.Tutor{}).
			Where("user_id = ? AND credits >= ?", tutorUserID, credits).
			Update("credits", gorm.Expr("credits - ?", credits))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: insufficient credits for this withdrawal", ErrValidation)
		}

		reference, err := utils.GenerateWithdrawalReference(tx)
		if err != nil {
			return err
		}

		withdrawal = models.TutorWithdrawal{
			TutorID:        tutorUserID,
			Reference:      reference,
			Amount:         amount,
			Currency:       CurrencyForRegion(tutor.PricingRegion),
			PricingRegion:  tutor.PricingRegion,
			ConversionRate: RateForRegion(tutor.PricingRegion).InexactFloat64(),
			Status:         models.WithdrawalStatusPending,
			PaymentMethod:  method,
			RequestedAt:    time.Now(),
		}
		return tx.Create(&withdrawal).Error
	})
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// ApproveWithdrawal moves a pending withdrawal to approved. Only admins and
// superadmins may act, and only on pending rows.
func ApproveWithdrawal(db *gorm.DB, withdrawalID, adminUserID uuid.UUID) (*models.TutorWithdrawal, error) {
	ok, err := IsAdmin(db, adminUserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: admin access required", ErrForbidden)
	}

	var withdrawal models.TutorWithdrawal
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := lockWithdrawal(tx, withdrawalID, &withdrawal); err != nil {
			return err
		}
		if withdrawal.Status != models.WithdrawalStatusPending {
			return fmt.Errorf("%w: withdrawal is already %s", ErrConflict, withdrawal.Status)
		}

		now := time.Now()
		withdrawal.Status = models.WithdrawalStatusApproved
		withdrawal.ApprovedBy = &adminUserID
		withdrawal.ApprovedAt = &now
		return tx.Save(&withdrawal).Error
	})
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// RejectWithdrawal is terminal and restores the debited credits to the
// tutor, mirroring the no-show refund pattern. A reason is mandatory.
func RejectWithdrawal(db *gorm.DB, withdrawalID, adminUserID uuid.UUID, reason string) (*models.TutorWithdrawal, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a rejection reason is required", ErrValidation)
	}

	ok, err := IsAdmin(db, adminUserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: admin access required", ErrForbidden)
	}

	var withdrawal models.TutorWithdrawal
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := lockWithdrawal(tx, withdrawalID, &withdrawal); err != nil {
			return err
		}
		if withdrawal.Status != models.WithdrawalStatusPending {
			return fmt.Errorf("%w: withdrawal is already %s", ErrConflict, withdrawal.Status)
		}

		now := time.Now()
		withdrawal.Status = models.WithdrawalStatusRejected
		withdrawal.RejectedBy = &adminUserID
		withdrawal.RejectedAt = &now
		withdrawal.RejectionReason = &reason
		if err := tx.Save(&withdrawal).Error; err != nil {
			return err
		}

		return restoreWithdrawalCredits(tx, &withdrawal)
	})
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// ProcessWithdrawal pays out an approved withdrawal through the gateway.
// The row is parked in processing before the network call; success completes
// it, a gateway error fails it and restores the credits. Failed rows are not
// retried automatically; an operator re-initiates after the tutor's next
// request.
func ProcessWithdrawal(db *gorm.DB, withdrawalID, adminUserID uuid.UUID, gateway PayoutGateway) (*models.TutorWithdrawal, error) {
	ok, err := IsAdmin(db, adminUserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: admin access required", ErrForbidden)
	}

	var withdrawal models.TutorWithdrawal
	var tutor models.Tutor
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := lockWithdrawal(tx, withdrawalID, &withdrawal); err != nil {
			return err
		}
		if withdrawal.Status != models.WithdrawalStatusApproved {
			return fmt.Errorf("%w: withdrawal is already %s", ErrConflict, withdrawal.Status)
		}
		if err := tx.First(&tutor, "user_id = ?", withdrawal.TutorID).Error; err != nil {
			return err
		}

		withdrawal.Status = models.WithdrawalStatusProcessing
		return tx.Save(&withdrawal).Error
	})
	if err != nil {
		return nil, err
	}

	transferID, gatewayErr := gateway.SendPayout(&tutor, &withdrawal)

	now := time.Now()
	if gatewayErr != nil {
		failure := gatewayErr.Error()
		err = db.Transaction(func(tx *gorm.DB) error {
			withdrawal.Status = models.WithdrawalStatusFailed
			withdrawal.FailureReason = &failure
			withdrawal.ProcessedAt = &now
			if err := tx.Save(&withdrawal).Error; err != nil {
				return err
			}
			return restoreWithdrawalCredits(tx, &withdrawal)
		})
		if err != nil {
			return nil, err
		}
		return &withdrawal, fmt.Errorf("%w: %s", ErrUpstreamPayment, failure)
	}

	withdrawal.Status = models.WithdrawalStatusCompleted
	withdrawal.ProviderTransferID = &transferID
	withdrawal.ProcessedAt = &now
	if err := db.Save(&withdrawal).Error; err != nil {
		return nil, err
	}
	return &withdrawal, nil
}
