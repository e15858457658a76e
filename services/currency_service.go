package services

import (
	"github.com/shopspring/decimal"

	"github.com/jptandoc/turo_backend/models"
)

// Fixed conversion rates: one credit buys one session-hour and converts to
// 90 PHP for Philippine tutors or 1.50 USD for everyone else. Rates only
// apply at payout/purchase time; balances are always held in credits.
var (
	ratePHPPerCredit = decimal.NewFromInt(90)
	rateUSDPerCredit = decimal.RequireFromString("1.5")
)

const (
	CurrencyPHP = "PHP"
	CurrencyUSD = "USD"
)

// Amounts round half away from zero to 2 decimal places, credits to 4.
// The original float math accumulated drift; decimals make the rounding
// points explicit.
const (
	amountScale  = 2
	creditsScale = 4
)

func RateForRegion(region string) decimal.Decimal {
	if region == models.PricingRegionPH {
		return ratePHPPerCredit
	}
	return rateUSDPerCredit
}

func CurrencyForRegion(region string) string {
	if region == models.PricingRegionPH {
		return CurrencyPHP
	}
	return CurrencyUSD
}

// CreditsToAmount converts a credit quantity into the region's currency.
func CreditsToAmount(credits float64, region string) float64 {
	amount := decimal.NewFromFloat(credits).Mul(RateForRegion(region)).Round(amountScale)
	return amount.InexactFloat64()
}

// AmountToCredits is the inverse conversion, used when turning a stored
// withdrawal amount back into ledger credits.
func AmountToCredits(amount float64, region string) float64 {
	credits := decimal.NewFromFloat(amount).DivRound(RateForRegion(region), creditsScale)
	return credits.InexactFloat64()
}

// amountToCreditsAtRate converts with a previously snapshotted rate rather
// than the region's current one.
func amountToCreditsAtRate(amount, rate float64) decimal.Decimal {
	r := decimal.NewFromFloat(rate)
	if r.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromFloat(amount).DivRound(r, creditsScale)
}
