package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jptandoc/turo_backend/database"
	"github.com/jptandoc/turo_backend/middleware"
	"github.com/jptandoc/turo_backend/models"
	"github.com/jptandoc/turo_backend/payments"
	"github.com/jptandoc/turo_backend/services"
)

type BuyCreditsRequest struct {
	Credits float64 `json:"credits" validate:"required,gt=0"`
	// Region decides the purchase currency and provider: PH pays in PHP via
	// PayMongo, everyone else in USD via Stripe.
	Region     string `json:"region" validate:"required,oneof=PH INTL"`
	SourceType string `json:"source_type" validate:"omitempty,oneof=gcash grab_pay"`
}

// BuyCredits opens a pending transaction and returns the provider handle the
// client needs to complete payment (a Stripe client secret or a PayMongo
// checkout URL). Credits are only granted by the webhook.
func BuyCredits(c *fiber.Ctx) error {
	userID := middleware.CallerID(c)

	var req BuyCreditsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	payerType := models.PayerTypeStudent
	if user.Role == "principal" {
		payerType = models.PayerTypePrincipal
	}

	amount := services.CreditsToAmount(req.Credits, req.Region)
	currency := services.CurrencyForRegion(req.Region)

	provider := "stripe"
	if req.Region == models.PricingRegionPH {
		provider = "paymongo"
	}

	txn := models.Transaction{
		PayerUserID: userID,
		PayerType:   payerType,
		Credits:     req.Credits,
		Amount:      amount,
		Currency:    currency,
		Provider:    provider,
		Status:      models.TransactionStatusPending,
	}
	if err := database.DB.Create(&txn).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create transaction"})
	}

	if provider == "paymongo" {
		sourceType := req.SourceType
		if sourceType == "" {
			sourceType = "gcash"
		}
		source, err := payments.CreateSource(amount, sourceType, txn.ID.String())
		if err != nil {
			log.Printf("🔥 PayMongo source creation failed: %v", err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to initiate payment"})
		}
		txn.ProviderRefID = &source.ID
		database.DB.Save(&txn)

		return c.JSON(fiber.Map{
			"transaction_id": txn.ID,
			"checkout_url":   source.CheckoutURL,
			"amount":         amount,
			"currency":       currency,
		})
	}

	intent, err := payments.CreatePaymentIntent(amount, currency, txn.ID.String())
	if err != nil {
		log.Printf("🔥 Stripe payment intent failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to initiate payment"})
	}
	txn.ProviderRefID = &intent.ID
	database.DB.Save(&txn)

	return c.JSON(fiber.Map{
		"transaction_id": txn.ID,
		"client_secret":  intent.ClientSecret,
		"amount":         amount,
		"currency":       currency,
	})
}

// settleTransaction marks a pending transaction succeeded and grants the
// purchased credits to the payer's balance. Safe to call twice for the same
// provider event: the conditional update on status makes it a no-op.
func settleTransaction(providerRefID, providerTxnID string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var txn models.Transaction
		if err := tx.Where("provider_ref_id = ?", providerRefID).First(&txn).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", txn.ID, models.TransactionStatusPending).
			Updates(map[string]interface{}{
				"status":          models.TransactionStatusSucceeded,
				"provider_txn_id": providerTxnID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// already settled
			return nil
		}

		if txn.PayerType == models.PayerTypePrincipal {
			return tx.Model(&models.Principal{}).
				Where("user_id = ?", txn.PayerUserID).
				Update("credits", gorm.Expr("credits + ?", txn.Credits)).Error
		}
		return tx.Model(&models.Student{}).
			Where("user_id = ?", txn.PayerUserID).
			Update("credits", gorm.Expr("credits + ?", txn.Credits)).Error
	})
}

// StripeWebhook handles payment_intent.succeeded events.
func StripeWebhook(c *fiber.Ctx) error {
	if err := payments.VerifyStripeSignature(c.Body(), c.Get("Stripe-Signature")); err != nil {
		log.Printf("🔥 Stripe webhook signature rejected: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signature"})
	}

	var event struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID string `json:"id"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse payload"})
	}

	if event.Type != "payment_intent.succeeded" {
		return c.SendStatus(fiber.StatusOK)
	}

	if err := settleTransaction(event.Data.Object.ID, event.Data.Object.ID); err != nil {
		log.Printf("🔥 Stripe webhook settlement failed for %s: %v", event.Data.Object.ID, err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.SendStatus(fiber.StatusOK)
}

// PayMongoWebhook handles source.chargeable events by charging the source,
// then settles the transaction.
func PayMongoWebhook(c *fiber.Ctx) error {
	if err := payments.VerifyPayMongoSignature(c.Body(), c.Get("Paymongo-Signature")); err != nil {
		log.Printf("🔥 PayMongo webhook signature rejected: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signature"})
	}

	var event struct {
		Data struct {
			Attributes struct {
				Type string `json:"type"`
				Data struct {
					ID         string `json:"id"`
					Attributes struct {
						Amount int64 `json:"amount"`
					} `json:"attributes"`
				} `json:"data"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse payload"})
	}

	if event.Data.Attributes.Type != "source.chargeable" {
		return c.SendStatus(fiber.StatusOK)
	}

	sourceID := event.Data.Attributes.Data.ID
	amount := float64(event.Data.Attributes.Data.Attributes.Amount) / 100

	payment, err := payments.CreatePayment(sourceID, amount, "Turo credit purchase")
	if err != nil {
		log.Printf("🔥 PayMongo payment creation failed for source %s: %v", sourceID, err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	if err := settleTransaction(sourceID, payment.ID); err != nil {
		log.Printf("🔥 PayMongo webhook settlement failed for %s: %v", sourceID, err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.SendStatus(fiber.StatusOK)
}
