package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jptandoc/turo_backend/models"
)

type PayoutReportRow struct {
	WithdrawalID   string  `json:"withdrawal_id"`
	Reference      string  `json:"reference"`
	TutorID        string  `json:"tutor_id"`
	TutorName      string  `json:"tutor_name"`
	TutorEmail     string  `json:"tutor_email"`
	PricingRegion  string  `json:"pricing_region"`
	Currency       string  `json:"currency"`
	PaymentMethod  string  `json:"payment_method"`
	Status         string  `json:"status"`
	Amount         float64 `json:"amount"`
	ConversionRate float64 `json:"conversion_rate"`
	Credits        float64 `json:"credits"`
	RequestedAt    string  `json:"requested_at"`
}

// PHP and USD totals are never summed together; they are different
// currencies and the report keeps them in separate buckets.
type PayoutReportSummary struct {
	TotalWithdrawals int            `json:"total_withdrawals"`
	CountsByStatus   map[string]int `json:"counts_by_status"`
	TotalAmountPHP   float64        `json:"total_amount_php"`
	TotalAmountUSD   float64        `json:"total_amount_usd"`
	TotalCredits     float64        `json:"total_credits"`
	RatePHPPerCredit float64        `json:"rate_php_per_credit"`
	RateUSDPerCredit float64        `json:"rate_usd_per_credit"`
}

type PayoutReportData struct {
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	GeneratedAt time.Time           `json:"generated_at"`
	Rows        []PayoutReportRow   `json:"rows"`
	Summary     PayoutReportSummary `json:"summary"`
}

// BuildPayoutReportData denormalizes the withdrawals (with Tutor.User
// preloaded) into the snapshot that gets persisted. Per-row credits come
// from each withdrawal's snapshotted conversion rate.
func BuildPayoutReportData(start, end time.Time, withdrawals []models.TutorWithdrawal) PayoutReportData {
	rows := make([]PayoutReportRow, 0, len(withdrawals))
	counts := make(map[string]int)
	totalPHP := decimal.Zero
	totalUSD := decimal.Zero
	totalCredits := decimal.Zero

	for _, w := range withdrawals {
		credits := amountToCreditsAtRate(w.Amount, w.ConversionRate)
		rows = append(rows, PayoutReportRow{
			WithdrawalID:   w.ID.String(),
			Reference:      w.Reference,
			TutorID:        w.TutorID.String(),
			TutorName:      w.Tutor.User.FullName,
			TutorEmail:     w.Tutor.User.Email,
			PricingRegion:  w.PricingRegion,
			Currency:       w.Currency,
			PaymentMethod:  w.PaymentMethod,
			Status:         w.Status,
			Amount:         w.Amount,
			ConversionRate: w.ConversionRate,
			Credits:        credits.InexactFloat64(),
			RequestedAt:    w.RequestedAt.Format(time.RFC3339),
		})

		counts[w.Status]++
		totalCredits = totalCredits.Add(credits)
		if w.Currency == CurrencyPHP {
			totalPHP = totalPHP.Add(decimal.NewFromFloat(w.Amount))
		} else {
			totalUSD = totalUSD.Add(decimal.NewFromFloat(w.Amount))
		}
	}

	return PayoutReportData{
		StartDate:   start.Format("2006-01-02"),
		EndDate:     end.Format("2006-01-02"),
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
		Summary: PayoutReportSummary{
			TotalWithdrawals: len(withdrawals),
			CountsByStatus:   counts,
			TotalAmountPHP:   totalPHP.Round(amountScale).InexactFloat64(),
			TotalAmountUSD:   totalUSD.Round(amountScale).InexactFloat64(),
			TotalCredits:     totalCredits.Round(creditsScale).InexactFloat64(),
			RatePHPPerCredit: ratePHPPerCredit.InexactFloat64(),
			RateUSDPerCredit: rateUSDPerCredit.InexactFloat64(),
		},
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// GeneratePayoutReport snapshots every withdrawal requested inside the date
// window and persists the result verbatim as an immutable jsonb blob.
func GeneratePayoutReport(db *gorm.DB, start, end time.Time, generatedBy uuid.UUID) (*models.PayoutReport, error) {
	windowStart := startOfDay(start)
	windowEnd := endOfDay(end)

	var withdrawals []models.TutorWithdrawal
	if err := db.Preload("Tutor.User").
		Where("requested_at BETWEEN ? AND ?", windowStart, windowEnd).
		Order("requested_at asc").
		Find(&withdrawals).Error; err != nil {
		return nil, err
	}

	data := BuildPayoutReportData(windowStart, windowEnd, withdrawals)
	blob, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	report := models.PayoutReport{
		StartDate:   windowStart,
		EndDate:     windowEnd,
		GeneratedBy: generatedBy,
		ReportData:  blob,
	}
	if err := db.Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}
