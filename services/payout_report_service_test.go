package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jptandoc/turo_backend/models"
)

func reportWithdrawal(amount float64, currency, region string, rate float64, status string) models.TutorWithdrawal {
	return models.TutorWithdrawal{
		ID:             uuid.New(),
		TutorID:        uuid.New(),
		Reference:      "ABCDEFGHJK",
		Amount:         amount,
		Currency:       currency,
		PricingRegion:  region,
		ConversionRate: rate,
		Status:         status,
		PaymentMethod:  models.PaymentMethodPayMongo,
		RequestedAt:    time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC),
		Tutor: models.Tutor{
			User: models.User{FullName: "Maria Santos", Email: "maria@example.com"},
		},
	}
}

func TestBuildPayoutReportData_KeepsCurrenciesSeparate(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	withdrawals := []models.TutorWithdrawal{
		reportWithdrawal(900, CurrencyPHP, models.PricingRegionPH, 90, models.WithdrawalStatusCompleted),
		reportWithdrawal(450, CurrencyPHP, models.PricingRegionPH, 90, models.WithdrawalStatusPending),
		reportWithdrawal(15, CurrencyUSD, models.PricingRegionInternational, 1.5, models.WithdrawalStatusCompleted),
	}

	data := BuildPayoutReportData(start, end, withdrawals)

	assert.Equal(t, "2026-08-01", data.StartDate)
	assert.Equal(t, "2026-08-31", data.EndDate)
	assert.Len(t, data.Rows, 3)

	// PHP and USD totals live in separate buckets, never a combined figure
	assert.Equal(t, 1350.0, data.Summary.TotalAmountPHP)
	assert.Equal(t, 15.0, data.Summary.TotalAmountUSD)
	assert.Equal(t, 25.0, data.Summary.TotalCredits)
	assert.Equal(t, 3, data.Summary.TotalWithdrawals)
	assert.Equal(t, 2, data.Summary.CountsByStatus[models.WithdrawalStatusCompleted])
	assert.Equal(t, 1, data.Summary.CountsByStatus[models.WithdrawalStatusPending])
	assert.Equal(t, 90.0, data.Summary.RatePHPPerCredit)
	assert.Equal(t, 1.5, data.Summary.RateUSDPerCredit)
}

func TestBuildPayoutReportData_RowCreditsFromSnapshotRate(t *testing.T) {
	// a withdrawal taken under an older rate converts with that rate,
	// not the current fixed one
	withdrawals := []models.TutorWithdrawal{
		reportWithdrawal(100, CurrencyPHP, models.PricingRegionPH, 50, models.WithdrawalStatusCompleted),
	}

	data := BuildPayoutReportData(time.Now(), time.Now(), withdrawals)

	assert.Equal(t, 2.0, data.Rows[0].Credits)
	assert.Equal(t, 50.0, data.Rows[0].ConversionRate)
	assert.Equal(t, "Maria Santos", data.Rows[0].TutorName)
}

func TestBuildPayoutReportData_Empty(t *testing.T) {
	data := BuildPayoutReportData(time.Now(), time.Now(), nil)

	assert.Empty(t, data.Rows)
	assert.Equal(t, 0, data.Summary.TotalWithdrawals)
	assert.Equal(t, 0.0, data.Summary.TotalAmountPHP)
	assert.Equal(t, 0.0, data.Summary.TotalAmountUSD)
	assert.Equal(t, 0.0, data.Summary.TotalCredits)
}

func TestReportWindowBoundaries(t *testing.T) {
	day := time.Date(2026, 8, 15, 14, 30, 0, 0, time.UTC)

	start := startOfDay(day)
	end := endOfDay(day)

	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 0, start.Minute())
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.True(t, end.After(start))
	assert.Equal(t, start.Day(), end.Day())
}
