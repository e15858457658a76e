package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jptandoc/turo_backend/database"
	"github.com/jptandoc/turo_backend/middleware"
	"github.com/jptandoc/turo_backend/models"
)

func GetMyProfile(c *fiber.Ctx) error {
	userID := middleware.CallerID(c)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	resp := fiber.Map{
		"id":        user.ID,
		"full_name": user.FullName,
		"email":     user.Email,
		"role":      user.Role,
		"time_zone": user.TimeZone,
	}

	switch user.Role {
	case "student":
		var student models.Student
		if err := database.DB.Where("user_id = ?", userID).First(&student).Error; err == nil {
			resp["credits"] = student.Credits
		}
	case "principal":
		var principal models.Principal
		if err := database.DB.Where("user_id = ?", userID).First(&principal).Error; err == nil {
			resp["credits"] = principal.Credits
			resp["school_name"] = principal.SchoolName
		}
	case "tutor":
		var tutor models.Tutor
		if err := database.DB.Where("user_id = ?", userID).First(&tutor).Error; err == nil {
			resp["credits"] = tutor.Credits
			resp["pricing_region"] = tutor.PricingRegion
			resp["tutor_status"] = tutor.Status
		}
	}

	return c.JSON(resp)
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	TimeZone string `json:"time_zone"`
}

func UpdateMyProfile(c *fiber.Ctx) error {
	userID := middleware.CallerID(c)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.TimeZone != "" {
		user.TimeZone = &req.TimeZone
	}

	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"message": "Profile updated successfully"})
}
