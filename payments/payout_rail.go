package payments

import (
	"errors"
	"fmt"

	"github.com/jptandoc/turo_backend/models"
)

// PayoutRail routes an approved withdrawal to the correct gateway. It
// satisfies services.PayoutGateway.
type PayoutRail struct{}

func (PayoutRail) SendPayout(tutor *models.Tutor, withdrawal *models.TutorWithdrawal) (string, error) {
	switch withdrawal.PaymentMethod {
	case models.PaymentMethodStripe:
		if tutor.StripeAccountID == nil || *tutor.StripeAccountID == "" {
			return "", errors.New("tutor has no connected Stripe account")
		}
		transfer, err := CreateTransfer(*tutor.StripeAccountID, withdrawal.Amount, withdrawal.Currency, withdrawal.Reference)
		if err != nil {
			return "", err
		}
		return transfer.ID, nil

	case models.PaymentMethodPayMongo:
		if tutor.PayMongoWalletID == nil || *tutor.PayMongoWalletID == "" {
			return "", errors.New("tutor has no linked PayMongo wallet")
		}
		disbursement, err := CreateDisbursement(*tutor.PayMongoWalletID, withdrawal.Amount, withdrawal.Reference)
		if err != nil {
			return "", err
		}
		return disbursement.ID, nil
	}

	return "", fmt.Errorf("unsupported payment method %q", withdrawal.PaymentMethod)
}
