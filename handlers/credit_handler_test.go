package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripeWebhook_RejectsUnsignedRequest(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	app, mock, closer := newTestApp(t, uuid.New())
	defer closer()
	app.Post("/api/webhooks/stripe", StripeWebhook)

	body := `{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_123"}}}`
	req := httptest.NewRequest("POST", "/api/webhooks/stripe", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayMongoWebhook_RejectsBadSignature(t *testing.T) {
	t.Setenv("PAYMONGO_WEBHOOK_SECRET", "pm_secret")

	app, mock, closer := newTestApp(t, uuid.New())
	defer closer()
	app.Post("/api/webhooks/paymongo", PayMongoWebhook)

	body := `{"data":{"attributes":{"type":"source.chargeable"}}}`
	req := httptest.NewRequest("POST", "/api/webhooks/paymongo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Paymongo-Signature", "t=1700000000,te=deadbeef")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
