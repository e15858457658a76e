package payments

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	config "github.com/jptandoc/turo_backend/configs"
)

// Stripe Connect rail for international tutors. The API is form-encoded;
// every call is a plain request/response with no retries — a failure is
// surfaced to the caller and the operator retries manually.

const stripeAPIBase = "https://api.stripe.com/v1"

type StripeAccount struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	PayoutsEnabled   bool   `json:"payouts_enabled"`
	DetailsSubmitted bool   `json:"details_submitted"`
}

type StripeAccountLink struct {
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expires_at"`
}

type StripeLoginLink struct {
	URL string `json:"url"`
}

type StripeTransfer struct {
	ID          string `json:"id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Destination string `json:"destination"`
}

type StripePaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

func stripeRequest(method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequest(method, stripeAPIBase+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(config.Config("STRIPE_SECRET_KEY"), "")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("stripe API returned %d: %s", resp.StatusCode, string(respBody))
	}

	return json.Unmarshal(respBody, out)
}

// stripeUnits converts a decimal amount into Stripe's smallest-unit integer.
func stripeUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func CreateExpressAccount(email string) (*StripeAccount, error) {
	form := url.Values{}
	form.Set("type", "express")
	form.Set("email", email)
	form.Set("capabilities[transfers][requested]", "true")

	var account StripeAccount
	if err := stripeRequest("POST", "/accounts", form, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func RetrieveAccount(accountID string) (*StripeAccount, error) {
	var account StripeAccount
	if err := stripeRequest("GET", "/accounts/"+accountID, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateAccountLink returns the hosted onboarding URL for an Express account.
func CreateAccountLink(accountID string) (*StripeAccountLink, error) {
	base := config.Config("FRONTEND_BASE_URL")

	form := url.Values{}
	form.Set("account", accountID)
	form.Set("type", "account_onboarding")
	form.Set("refresh_url", base+"/tutor/payouts/onboarding")
	form.Set("return_url", base+"/tutor/payouts")

	var link StripeAccountLink
	if err := stripeRequest("POST", "/account_links", form, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func CreateLoginLink(accountID string) (*StripeLoginLink, error) {
	var link StripeLoginLink
	if err := stripeRequest("POST", "/accounts/"+accountID+"/login_links", nil, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// CreateTransfer moves funds to a connected account. The withdrawal
// reference rides along as the transfer group for reconciliation.
func CreateTransfer(accountID string, amount float64, currency, reference string) (*StripeTransfer, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(stripeUnits(amount), 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("destination", accountID)
	form.Set("transfer_group", reference)

	var transfer StripeTransfer
	if err := stripeRequest("POST", "/transfers", form, &transfer); err != nil {
		return nil, err
	}
	return &transfer, nil
}

// CreatePaymentIntent starts a card payment for a credit purchase.
func CreatePaymentIntent(amount float64, currency, transactionID string) (*StripePaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(stripeUnits(amount), 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("metadata[transaction_id]", transactionID)
	form.Set("automatic_payment_methods[enabled]", "true")

	var intent StripePaymentIntent
	if err := stripeRequest("POST", "/payment_intents", form, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}
