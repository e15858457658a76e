package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	config "github.com/jptandoc/turo_backend/configs"
)

var ErrInvalidWebhookSignature = errors.New("invalid webhook signature")

func signPayload(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func parseSignatureHeader(header string) map[string][]string {
	parts := make(map[string][]string)
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		parts[kv[0]] = append(parts[kv[0]], kv[1])
	}
	return parts
}

// VerifyStripeSignature checks the Stripe-Signature header (t=...,v1=...)
// against the raw request body. The signed payload is "<t>.<body>".
func VerifyStripeSignature(payload []byte, header string) error {
	secret := config.Config("STRIPE_WEBHOOK_SECRET")
	if secret == "" {
		return errors.New("STRIPE_WEBHOOK_SECRET is not configured")
	}

	parts := parseSignatureHeader(header)
	if len(parts["t"]) == 0 || len(parts["v1"]) == 0 {
		return ErrInvalidWebhookSignature
	}

	expected := signPayload(secret, parts["t"][0]+"."+string(payload))
	for _, sig := range parts["v1"] {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return ErrInvalidWebhookSignature
}

// VerifyPayMongoSignature checks the Paymongo-Signature header
// (t=...,te=...,li=...). The test-mode (te) or live-mode (li) signature
// must match "<t>.<body>" under the webhook secret.
func VerifyPayMongoSignature(payload []byte, header string) error {
	secret := config.Config("PAYMONGO_WEBHOOK_SECRET")
	if secret == "" {
		return errors.New("PAYMONGO_WEBHOOK_SECRET is not configured")
	}

	parts := parseSignatureHeader(header)
	if len(parts["t"]) == 0 {
		return ErrInvalidWebhookSignature
	}

	expected := signPayload(secret, parts["t"][0]+"."+string(payload))
	for _, key := range []string{"te", "li"} {
		for _, sig := range parts[key] {
			if hmac.Equal([]byte(expected), []byte(sig)) {
				return nil
			}
		}
	}
	return ErrInvalidWebhookSignature
}
