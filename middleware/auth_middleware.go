package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	config "github.com/jptandoc/turo_backend/configs"
	"github.com/jptandoc/turo_backend/database"
	"github.com/jptandoc/turo_backend/models"
	"github.com/jptandoc/turo_backend/services"
)

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

// CallerID extracts the authenticated user id from the JWT set by Protected.
func CallerID(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	id, _ := uuid.Parse(claims["user_id"].(string))
	return id
}

// AdminRequired checks role-table membership rather than trusting the JWT
// role claim, so revoking an admin takes effect immediately.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := services.IsAdmin(database.DB, CallerID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Admin access required",
			})
		}
		return c.Next()
	}
}

func TutorRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var count int64
		err := database.DB.Model(&models.Tutor{}).
			Where("user_id = ? AND status = ?", CallerID(c), "active").
			Count(&count).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
		}
		if count == 0 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Tutor access required",
			})
		}
		return c.Next()
	}
}
