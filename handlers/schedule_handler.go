package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jptandoc/turo_backend/database"
	"github.com/jptandoc/turo_backend/middleware"
	"github.com/jptandoc/turo_backend/models"
	"github.com/jptandoc/turo_backend/notifications"
	"github.com/jptandoc/turo_backend/services"
)

type BookSessionRequest struct {
	TutorID   string    `json:"tutor_id" validate:"required,uuid"`
	Subject   string    `json:"subject" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Credits   float64   `json:"credits" validate:"required,gt=0"`
}

// BookSession reserves a slot with a tutor and debits the payer's credit
// balance in the same transaction. Principals book on behalf of their school
// and pay from the principal balance; students pay from their own.
func BookSession(c *fiber.Ctx) error {
	callerID := middleware.CallerID(c)

	var req BookSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tutorID, err := uuid.Parse(req.TutorID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tutor ID"})
	}
	if !req.StartTime.After(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Session must start in the future"})
	}

	var tutor models.Tutor
	if err := database.DB.Preload("User").Where("user_id = ? AND status = ?", tutorID, "active").First(&tutor).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor not found"})
	}

	var caller models.User
	if err := database.DB.Where("id = ?", callerID).First(&caller).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	newSchedule := models.Schedule{
		TutorID:         tutorID,
		Subject:         req.Subject,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Status:          models.ScheduleStatusPending,
		CreditsRequired: req.Credits,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		switch caller.Role {
		case "principal":
			var principal models.Principal
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ?", callerID).First(&principal).Error; err != nil {
				return errors.New("principal profile not found")
			}
			if principal.Credits < req.Credits {
				return errors.New("insufficient credits")
			}
			result := tx.Model(&models.Principal{}).
				Where("user_id = ? AND credits >= ?", callerID, req.Credits).
				Update("credits", gorm.Expr("credits - ?", req.Credits))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return errors.New("insufficient credits")
			}
			newSchedule.PrincipalUserID = &callerID
		default:
			var student models.Student
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ?", callerID).First(&student).Error; err != nil {
				return errors.New("student profile not found")
			}
			if student.Credits < req.Credits {
				return errors.New("insufficient credits")
			}
			result := tx.Model(&models.Student{}).
				Where("user_id = ? AND credits >= ?", callerID, req.Credits).
				Update("credits", gorm.Expr("credits - ?", req.Credits))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return errors.New("insufficient credits")
			}
			newSchedule.StudentID = &callerID
		}

		return tx.Create(&newSchedule).Error
	})
	if err != nil {
		if err.Error() == "insufficient credits" {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "Insufficient credits to book this session"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	go notifications.SendEmail(
		tutor.User.FullName,
		tutor.User.Email,
		"New Session Request",
		"<h1>New Booking</h1><p>"+caller.FullName+" has requested a <strong>"+req.Subject+"</strong> session with you. Please confirm or decline it from your dashboard.</p>",
	)

	return c.Status(fiber.StatusCreated).JSON(newSchedule)
}

// ConfirmSchedule lets the assigned tutor accept a pending booking.
func ConfirmSchedule(c *fiber.Ctx) error {
	callerID := middleware.CallerID(c)

	scheduleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid schedule ID"})
	}

	schedule, err := services.ConfirmSchedule(database.DB, scheduleID, callerID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(schedule)
}

// CancelSchedule cancels a booking before it starts and refunds the payer.
func CancelSchedule(c *fiber.Ctx) error {
	callerID := middleware.CallerID(c)

	scheduleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid schedule ID"})
	}

	schedule, err := services.CancelSchedule(database.DB, scheduleID, callerID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(schedule)
}

// CompleteSession lets the tutor mark a finished session successful, which
// credits the session's value to the tutor unless a review already did.
func CompleteSession(c *fiber.Ctx) error {
	callerID := middleware.CallerID(c)

	scheduleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid schedule ID"})
	}

	schedule, err := services.CompleteSession(database.DB, scheduleID, callerID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(schedule)
}

type SessionReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// SubmitSessionReview records the payer's review. Submitting a review also
// counts the session as earned for the tutor if completion never did.
func SubmitSessionReview(c *fiber.Ctx) error {
	callerID := middleware.CallerID(c)

	scheduleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid schedule ID"})
	}

	var req SessionReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	schedule, err := services.RecordSessionReview(database.DB, scheduleID, callerID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(schedule)
}

func GetMySchedules(c *fiber.Ctx) error {
	callerID := middleware.CallerID(c)

	var schedules []models.Schedule
	err := database.DB.Preload("Tutor.User").
		Where("student_id = ? OR principal_user_id = ?", callerID, callerID).
		Order("start_time desc").
		Find(&schedules).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(schedules)
}

func GetMyTutorSchedules(c *fiber.Ctx) error {
	callerID := middleware.CallerID(c)

	var schedules []models.Schedule
	err := database.DB.Preload("Student").Preload("Principal").
		Where("tutor_id = ?", callerID).
		Order("start_time desc").
		Find(&schedules).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(schedules)
}
