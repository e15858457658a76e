package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signFor(secret, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + "." + string(payload)))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyStripeSignature(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
	payload := []byte(`{"type":"payment_intent.succeeded"}`)
	sig := signFor("whsec_test", "1700000000", payload)

	err := VerifyStripeSignature(payload, "t=1700000000,v1="+sig)
	assert.NoError(t, err)
}

func TestVerifyStripeSignature_TamperedPayload(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
	sig := signFor("whsec_test", "1700000000", []byte(`{"amount":100}`))

	err := VerifyStripeSignature([]byte(`{"amount":9999}`), "t=1700000000,v1="+sig)
	assert.ErrorIs(t, err, ErrInvalidWebhookSignature)
}

func TestVerifyStripeSignature_MissingHeader(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	err := VerifyStripeSignature([]byte(`{}`), "")
	assert.ErrorIs(t, err, ErrInvalidWebhookSignature)
}

func TestVerifyStripeSignature_SecretNotConfigured(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")

	err := VerifyStripeSignature([]byte(`{}`), "t=1,v1=abc")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidWebhookSignature)
}

func TestVerifyPayMongoSignature(t *testing.T) {
	t.Setenv("PAYMONGO_WEBHOOK_SECRET", "pm_secret")
	payload := []byte(`{"data":{"attributes":{"type":"source.chargeable"}}}`)
	sig := signFor("pm_secret", "1700000000", payload)

	assert.NoError(t, VerifyPayMongoSignature(payload, "t=1700000000,te="+sig))
	assert.NoError(t, VerifyPayMongoSignature(payload, "t=1700000000,li="+sig))
}

func TestVerifyPayMongoSignature_WrongSecret(t *testing.T) {
	t.Setenv("PAYMONGO_WEBHOOK_SECRET", "pm_secret")
	payload := []byte(`{"data":{}}`)
	sig := signFor("another_secret", "1700000000", payload)

	err := VerifyPayMongoSignature(payload, "t=1700000000,te="+sig)
	assert.ErrorIs(t, err, ErrInvalidWebhookSignature)
}
