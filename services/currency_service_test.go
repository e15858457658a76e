package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jptandoc/turo_backend/models"
)

func TestRateForRegion(t *testing.T) {
	assert.Equal(t, "90", RateForRegion(models.PricingRegionPH).String())
	assert.Equal(t, "1.5", RateForRegion(models.PricingRegionInternational).String())
	// unknown regions fall back to the international rate
	assert.Equal(t, "1.5", RateForRegion("XX").String())
}

func TestCurrencyForRegion(t *testing.T) {
	assert.Equal(t, CurrencyPHP, CurrencyForRegion(models.PricingRegionPH))
	assert.Equal(t, CurrencyUSD, CurrencyForRegion(models.PricingRegionInternational))
}

func TestCreditsToAmount(t *testing.T) {
	assert.Equal(t, 900.0, CreditsToAmount(10, models.PricingRegionPH))
	assert.Equal(t, 15.0, CreditsToAmount(10, models.PricingRegionInternational))
	assert.Equal(t, 225.0, CreditsToAmount(2.5, models.PricingRegionPH))
	assert.Equal(t, 3.75, CreditsToAmount(2.5, models.PricingRegionInternational))
}

func TestCreditsToAmountRoundsHalfAwayFromZero(t *testing.T) {
	// 0.0051 * 90 = 0.459 -> 0.46
	assert.Equal(t, 0.46, CreditsToAmount(0.0051, models.PricingRegionPH))
	// 0.03 * 1.5 = 0.045 -> 0.05, not banker's 0.04
	assert.Equal(t, 0.05, CreditsToAmount(0.03, models.PricingRegionInternational))
}

func TestAmountToCredits(t *testing.T) {
	assert.Equal(t, 10.0, AmountToCredits(900, models.PricingRegionPH))
	assert.Equal(t, 10.0, AmountToCredits(15, models.PricingRegionInternational))
	assert.Equal(t, 0.5, AmountToCredits(45, models.PricingRegionPH))
}

func TestConversionRoundTrip(t *testing.T) {
	// Credit quantities that map to exact cent amounts survive a round trip.
	for _, credits := range []float64{1, 2.5, 10, 0.25, 7.12} {
		amount := CreditsToAmount(credits, models.PricingRegionPH)
		assert.Equal(t, credits, AmountToCredits(amount, models.PricingRegionPH), "PH round trip for %v", credits)
	}
	for _, credits := range []float64{1, 2, 0.5, 10, 3.18} {
		amount := CreditsToAmount(credits, models.PricingRegionInternational)
		assert.Equal(t, credits, AmountToCredits(amount, models.PricingRegionInternational), "INTL round trip for %v", credits)
	}
}

func TestAmountToCreditsAtRate(t *testing.T) {
	assert.Equal(t, 10.0, amountToCreditsAtRate(900, 90).InexactFloat64())
	assert.Equal(t, 10.0, amountToCreditsAtRate(15, 1.5).InexactFloat64())
	// a zero snapshot rate must not divide
	assert.True(t, amountToCreditsAtRate(900, 0).IsZero())
}
