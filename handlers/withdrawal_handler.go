package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jptandoc/turo_backend/database"
	"github.com/jptandoc/turo_backend/middleware"
	"github.com/jptandoc/turo_backend/models"
	"github.com/jptandoc/turo_backend/services"
)

type WithdrawalRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// RequestWithdrawal debits the tutor's credit balance and opens a pending
// withdrawal in the currency of the tutor's pricing region.
func RequestWithdrawal(c *fiber.Ctx) error {
	tutorID := middleware.CallerID(c)

	var req WithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	withdrawal, err := services.RequestWithdrawal(database.DB, tutorID, req.Amount)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(withdrawal)
}

func GetMyWithdrawals(c *fiber.Ctx) error {
	tutorID := middleware.CallerID(c)

	var withdrawals []models.TutorWithdrawal
	err := database.DB.Where("tutor_id = ?", tutorID).
		Order("requested_at desc").
		Find(&withdrawals).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(withdrawals)
}
