package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jptandoc/turo_backend/database"
	"github.com/jptandoc/turo_backend/middleware"
	"github.com/jptandoc/turo_backend/models"
	"github.com/jptandoc/turo_backend/notifications"
	"github.com/jptandoc/turo_backend/payments"
	"github.com/jptandoc/turo_backend/services"
)

type TutorApplicationRequest struct {
	Headline      string `json:"headline" validate:"required"`
	Bio           string `json:"bio" validate:"required"`
	PricingRegion string `json:"pricing_region" validate:"required,oneof=PH INTL"`
}

func ApplyToBeATutor(c *fiber.Ctx) error {
	userID := middleware.CallerID(c)

	var req TutorApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existingTutor models.Tutor
	err := database.DB.Where("user_id = ?", userID).First(&existingTutor).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already submitted an application."})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	newApplication := models.Tutor{
		UserID:        userID,
		Headline:      &req.Headline,
		Bio:           &req.Bio,
		PricingRegion: req.PricingRegion,
	}

	if err := database.DB.Create(&newApplication).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create application"})
	}

	return c.Status(fiber.StatusCreated).JSON(newApplication)
}

// GetMyBalance returns the stored ledger balance alongside the derived
// reconciliation view, so tutors (and support) can see when they diverge.
func GetMyBalance(c *fiber.Ctx) error {
	tutorID := middleware.CallerID(c)

	var tutor models.Tutor
	if err := database.DB.Where("user_id = ?", tutorID).First(&tutor).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor profile not found"})
	}

	derived, err := services.ComputeTutorBalance(database.DB, tutorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute balance"})
	}

	return c.JSON(fiber.Map{
		"credits":            tutor.Credits,
		"pricing_region":     tutor.PricingRegion,
		"currency":           services.CurrencyForRegion(tutor.PricingRegion),
		"payout_value":       services.CreditsToAmount(tutor.Credits, tutor.PricingRegion),
		"derived_earned":     derived.EarnedCredits,
		"derived_withdrawn":  derived.WithdrawnCredits,
		"derived_available":  derived.AvailableCredits,
	})
}

// CreateStripeOnboardingLink provisions an Express account on first use and
// returns the hosted onboarding URL.
func CreateStripeOnboardingLink(c *fiber.Ctx) error {
	tutorID := middleware.CallerID(c)

	var tutor models.Tutor
	if err := database.DB.Preload("User").Where("user_id = ?", tutorID).First(&tutor).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor profile not found"})
	}
	if tutor.PricingRegion == models.PricingRegionPH {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "PH tutors are paid out via PayMongo, not Stripe"})
	}

	if tutor.StripeAccountID == nil || *tutor.StripeAccountID == "" {
		account, err := payments.CreateExpressAccount(tutor.User.Email)
		if err != nil {
			log.Printf("🔥 Stripe account creation failed: %v", err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to create Stripe account"})
		}
		tutor.StripeAccountID = &account.ID
		if err := database.DB.Save(&tutor).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save Stripe account"})
		}
	}

	link, err := payments.CreateAccountLink(*tutor.StripeAccountID)
	if err != nil {
		log.Printf("🔥 Stripe account link failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to create onboarding link"})
	}

	return c.JSON(fiber.Map{"url": link.URL, "expires_at": link.ExpiresAt})
}

// GetStripeAccountStatus reports whether the tutor's Express account has
// finished onboarding and can receive transfers.
func GetStripeAccountStatus(c *fiber.Ctx) error {
	tutorID := middleware.CallerID(c)

	var tutor models.Tutor
	if err := database.DB.Where("user_id = ?", tutorID).First(&tutor).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor profile not found"})
	}
	if tutor.StripeAccountID == nil || *tutor.StripeAccountID == "" {
		return c.JSON(fiber.Map{"connected": false})
	}

	account, err := payments.RetrieveAccount(*tutor.StripeAccountID)
	if err != nil {
		log.Printf("🔥 Stripe account retrieval failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to retrieve Stripe account"})
	}

	return c.JSON(fiber.Map{
		"connected":         true,
		"payouts_enabled":   account.PayoutsEnabled,
		"details_submitted": account.DetailsSubmitted,
	})
}

func CreateStripeLoginLink(c *fiber.Ctx) error {
	tutorID := middleware.CallerID(c)

	var tutor models.Tutor
	if err := database.DB.Where("user_id = ?", tutorID).First(&tutor).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor profile not found"})
	}
	if tutor.StripeAccountID == nil || *tutor.StripeAccountID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No Stripe account connected yet"})
	}

	link, err := payments.CreateLoginLink(*tutor.StripeAccountID)
	if err != nil {
		log.Printf("🔥 Stripe login link failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to create login link"})
	}

	return c.JSON(fiber.Map{"url": link.URL})
}

type PayMongoWalletRequest struct {
	WalletID string `json:"wallet_id" validate:"required"`
}

// LinkPayMongoWallet records the PH tutor's payout destination.
func LinkPayMongoWallet(c *fiber.Ctx) error {
	tutorID := middleware.CallerID(c)

	var req PayMongoWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var tutor models.Tutor
	if err := database.DB.Where("user_id = ?", tutorID).First(&tutor).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor profile not found"})
	}
	if tutor.PricingRegion != models.PricingRegionPH {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "PayMongo payouts are only available for PH tutors"})
	}

	tutor.PayMongoWalletID = &req.WalletID
	if err := database.DB.Save(&tutor).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save wallet"})
	}

	return c.JSON(fiber.Map{"message": "PayMongo wallet linked successfully"})
}

func ListPendingApplications(c *fiber.Ctx) error {
	var pendingTutors []models.Tutor
	if err := database.DB.Preload("User").Where("status = ?", "pending").Find(&pendingTutors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(pendingTutors)
}

func ManageApplication(c *fiber.Ctx) error {
	type MgtRequest struct {
		Status string `json:"status" validate:"required,oneof=active rejected"`
	}

	var req MgtRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tutorUserID := c.Params("tutorId")

	var tutorApp models.Tutor
	if err := database.DB.Where("user_id = ?", tutorUserID).First(&tutorApp).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Application not found"})
	}

	var user models.User
	if err := database.DB.Where("id = ?", tutorUserID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Associated user not found"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		tutorApp.Status = req.Status
		if err := tx.Save(&tutorApp).Error; err != nil {
			return err
		}

		if req.Status == "active" {
			user.Role = "tutor"
			return tx.Save(&user).Error
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update application status"})
	}

	switch req.Status {
	case "active":
		go notifications.SendEmail(
			user.FullName,
			user.Email,
			"Your Tutor Application has been Approved!",
			"<h1>Congratulations!</h1><p>Your application to become a tutor has been approved. Set up your payout account to start earning.</p>",
		)
	case "rejected":
		go notifications.SendEmail(
			user.FullName,
			user.Email,
			"Update on Your Tutor Application",
			"<h1>Application Update</h1><p>We regret to inform you that after careful review, your tutor application was not approved at this time.</p>",
		)
	}

	return c.JSON(fiber.Map{"message": "Application status updated successfully"})
}
