package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	config "github.com/jptandoc/turo_backend/configs"
)

// PayMongo rail, PHP only: e-wallet sources for credit purchases by PH
// students/principals and disbursements for PH tutor payouts.

const payMongoAPIBase = "https://api.paymongo.com/v1"

type payMongoEnvelope struct {
	Data struct {
		ID         string                 `json:"id"`
		Attributes map[string]interface{} `json:"attributes"`
	} `json:"data"`
}

type PayMongoSource struct {
	ID          string
	Status      string
	CheckoutURL string
}

type PayMongoPayment struct {
	ID     string
	Status string
}

type PayMongoDisbursement struct {
	ID     string
	Status string
}

// PayMongo works in centavos.
func payMongoUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func payMongoRequest(method, path string, payload interface{}, out *payMongoEnvelope) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequest(method, payMongoAPIBase+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(config.Config("PAYMONGO_SECRET_KEY"), "")
	req.Header.Set("Content-Type", "application/json")

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
		return fmt.Errorf("paymongo API returned %d: %s", resp.StatusCode, string(respBody))
	}

	return json.Unmarshal(respBody, out)
}

func attrString(attrs map[string]interface{}, key string) string {
	if v, ok := attrs[key].(string); ok {
		return v
	}
	return ""
}

// CreateSource starts a GCash/GrabPay checkout for a credit purchase.
func CreateSource(amount float64, sourceType, transactionID string) (*PayMongoSource, error) {
	base := config.Config("FRONTEND_BASE_URL")

	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"attributes": map[string]interface{}{
				"amount":   payMongoUnits(amount),
				"currency": "PHP",
				"type":     sourceType,
				"redirect": map[string]string{
					"success": base + "/credits/success?txn=" + transactionID,
					"failed":  base + "/credits/failed?txn=" + transactionID,
				},
			},
		},
	}

	var envelope payMongoEnvelope
	if err := payMongoRequest("POST", "/sources", payload, &envelope); err != nil {
		return nil, err
	}

	source := &PayMongoSource{
		ID:     envelope.Data.ID,
		Status: attrString(envelope.Data.Attributes, "status"),
	}
	if redirect, ok := envelope.Data.Attributes["redirect"].(map[string]interface{}); ok {
		source.CheckoutURL = attrString(redirect, "checkout_url")
	}
	return source, nil
}

// CreatePayment captures a chargeable source.
func CreatePayment(sourceID string, amount float64, description string) (*PayMongoPayment, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"attributes": map[string]interface{}{
				"amount":      payMongoUnits(amount),
				"currency":    "PHP",
				"description": description,
				"source": map[string]string{
					"id":   sourceID,
					"type": "source",
				},
			},
		},
	}

	var envelope payMongoEnvelope
	if err := payMongoRequest("POST", "/payments", payload, &envelope); err != nil {
		return nil, err
	}

	return &PayMongoPayment{
		ID:     envelope.Data.ID,
		Status: attrString(envelope.Data.Attributes, "status"),
	}, nil
}

// CreateDisbursement sends a PHP payout to a tutor's linked wallet.
func CreateDisbursement(walletID string, amount float64, reference string) (*PayMongoDisbursement, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"attributes": map[string]interface{}{
				"amount":      payMongoUnits(amount),
				"currency":    "PHP",
				"destination": walletID,
				"reference":   reference,
			},
		},
	}

	var envelope payMongoEnvelope
	if err := payMongoRequest("POST", "/disbursements", payload, &envelope); err != nil {
		return nil, err
	}

	return &PayMongoDisbursement{
		ID:     envelope.Data.ID,
		Status: attrString(envelope.Data.Attributes, "status"),
	}, nil
}
