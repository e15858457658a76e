package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jptandoc/turo_backend/database"
	"github.com/jptandoc/turo_backend/middleware"
	"github.com/jptandoc/turo_backend/models"
	"github.com/jptandoc/turo_backend/notifications"
	"github.com/jptandoc/turo_backend/payments"
	"github.com/jptandoc/turo_backend/services"
)

func notifyWithdrawalUpdate(withdrawal *models.TutorWithdrawal, subject, body string) {
	var tutor models.Tutor
	if err := database.DB.Preload("User").Where("user_id = ?", withdrawal.TutorID).First(&tutor).Error; err != nil {
		return
	}
	go notifications.SendEmail(tutor.User.FullName, tutor.User.Email, subject, body)
}

func ListWithdrawals(c *fiber.Ctx) error {
	query := database.DB.Preload("Tutor.User").Order("requested_at desc")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var withdrawals []models.TutorWithdrawal
	if err := query.Find(&withdrawals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(withdrawals)
}

func ApproveWithdrawal(c *fiber.Ctx) error {
	adminID := middleware.CallerID(c)

	withdrawalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid withdrawal ID"})
	}

	withdrawal, err := services.ApproveWithdrawal(database.DB, withdrawalID, adminID)
	if err != nil {
		return serviceError(c, err)
	}

	notifyWithdrawalUpdate(withdrawal,
		"Your Withdrawal Request has been Approved",
		fmt.Sprintf("<h1>Withdrawal Approved</h1><p>Your withdrawal request <strong>%s</strong> for %.2f %s has been approved and queued for payout.</p>",
			withdrawal.Reference, withdrawal.Amount, withdrawal.Currency),
	)

	return c.JSON(withdrawal)
}

type RejectWithdrawalRequest struct {
	Reason string `json:"reason" validate:"required,min=5"`
}

func RejectWithdrawal(c *fiber.Ctx) error {
	adminID := middleware.CallerID(c)

	withdrawalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid withdrawal ID"})
	}

	var req RejectWithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	withdrawal, err := services.RejectWithdrawal(database.DB, withdrawalID, adminID, req.Reason)
	if err != nil {
		return serviceError(c, err)
	}

	notifyWithdrawalUpdate(withdrawal,
		"Update on Your Withdrawal Request",
		fmt.Sprintf("<h1>Withdrawal Rejected</h1><p>Your withdrawal request <strong>%s</strong> was rejected: %s. The credits have been returned to your balance.</p>",
			withdrawal.Reference, req.Reason),
	)

	return c.JSON(withdrawal)
}

// ProcessWithdrawal pushes an approved withdrawal to the payout rail for the
// tutor's region (Stripe transfer or PayMongo disbursement).
func ProcessWithdrawal(c *fiber.Ctx) error {
	adminID := middleware.CallerID(c)

	withdrawalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid withdrawal ID"})
	}

	withdrawal, err := services.ProcessWithdrawal(database.DB, withdrawalID, adminID, payments.PayoutRail{})
	if err != nil {
		if withdrawal != nil && withdrawal.Status == models.WithdrawalStatusFailed {
			notifyWithdrawalUpdate(withdrawal,
				"Your Withdrawal Could Not Be Processed",
				fmt.Sprintf("<h1>Payout Failed</h1><p>We could not process withdrawal <strong>%s</strong>. The credits have been returned to your balance and our team has been notified.</p>",
					withdrawal.Reference),
			)
		}
		return serviceError(c, err)
	}

	notifyWithdrawalUpdate(withdrawal,
		"Your Payout is on its Way",
		fmt.Sprintf("<h1>Payout Sent</h1><p>Your withdrawal <strong>%s</strong> for %.2f %s has been paid out.</p>",
			withdrawal.Reference, withdrawal.Amount, withdrawal.Currency),
	)

	return c.JSON(withdrawal)
}

func MarkStudentNoShow(c *fiber.Ctx) error {
	scheduleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid schedule ID"})
	}

	schedule, err := services.MarkStudentNoShow(database.DB, scheduleID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(schedule)
}

func MarkTutorNoShow(c *fiber.Ctx) error {
	scheduleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid schedule ID"})
	}

	schedule, err := services.MarkTutorNoShow(database.DB, scheduleID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(schedule)
}

// GrantAdminRole adds a user to the admins table. Only superadmins may
// manage role membership.
func GrantAdminRole(c *fiber.Ctx) error {
	callerID := middleware.CallerID(c)

	ok, err := services.IsSuperadmin(database.DB, callerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Superadmin access required"})
	}

	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var count int64
	database.DB.Model(&models.Admin{}).Where("user_id = ?", userID).Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "User is already an admin"})
	}

	if err := database.DB.Create(&models.Admin{UserID: userID}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to grant admin role"})
	}
	return c.JSON(fiber.Map{"message": "Admin role granted"})
}

func RevokeAdminRole(c *fiber.Ctx) error {
	callerID := middleware.CallerID(c)

	ok, err := services.IsSuperadmin(database.DB, callerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Superadmin access required"})
	}

	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	result := database.DB.Where("user_id = ?", userID).Delete(&models.Admin{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to revoke admin role"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User is not an admin"})
	}
	return c.JSON(fiber.Map{"message": "Admin role revoked"})
}

type PayoutReportRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// GeneratePayoutReport builds a payout reconciliation report for the given
// window and archives a PDF copy in the background.
func GeneratePayoutReport(c *fiber.Ctx) error {
	adminID := middleware.CallerID(c)

	var req PayoutReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	if end.Before(start) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_date must not be before start_date"})
	}

	report, err := services.GeneratePayoutReport(database.DB, start, end, adminID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate report"})
	}

	go services.ArchivePayoutReport(report)

	return c.Status(fiber.StatusCreated).JSON(report)
}

func ListPayoutReports(c *fiber.Ctx) error {
	var reports []models.PayoutReport
	err := database.DB.Select("id, start_date, end_date, generated_by, archive_url, created_at").
		Order("created_at desc").
		Find(&reports).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(reports)
}

func GetPayoutReport(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid report ID"})
	}

	var report models.PayoutReport
	if err := database.DB.Where("id = ?", reportID).First(&report).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
	}

	c.Set("Content-Type", "application/json")
	return c.JSON(fiber.Map{
		"id":          report.ID,
		"start_date":  report.StartDate,
		"end_date":    report.EndDate,
		"archive_url": report.ArchiveURL,
		"data":        string(report.ReportData),
	})
}

// GetAdminDashboard aggregates platform-wide payout stats. PHP and USD
// totals are reported separately; they are never summed together.
func GetAdminDashboard(c *fiber.Ctx) error {
	var stats struct {
		TotalTutors         int64   `json:"total_tutors"`
		PendingApplications int64   `json:"pending_applications"`
		PendingWithdrawals  int64   `json:"pending_withdrawals"`
		CompletedPayoutsPHP float64 `json:"completed_payouts_php"`
		CompletedPayoutsUSD float64 `json:"completed_payouts_usd"`
	}

	database.DB.Model(&models.Tutor{}).Where("status = ?", "active").Count(&stats.TotalTutors)
	database.DB.Model(&models.Tutor{}).Where("status = ?", "pending").Count(&stats.PendingApplications)
	database.DB.Model(&models.TutorWithdrawal{}).Where("status = ?", models.WithdrawalStatusPending).Count(&stats.PendingWithdrawals)

	row := database.DB.Model(&models.TutorWithdrawal{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ? AND currency = ?", models.WithdrawalStatusCompleted, services.CurrencyPHP).
		Row()
	if err := row.Scan(&stats.CompletedPayoutsPHP); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	row = database.DB.Model(&models.TutorWithdrawal{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ? AND currency = ?", models.WithdrawalStatusCompleted, services.CurrencyUSD).
		Row()
	if err := row.Scan(&stats.CompletedPayoutsUSD); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(stats)
}
