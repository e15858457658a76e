package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jptandoc/turo_backend/handlers"
	"github.com/jptandoc/turo_backend/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/applications/pending", handlers.ListPendingApplications)
	admin.Put("/applications/:tutorId", handlers.ManageApplication)
	admin.Get("/dashboard", handlers.GetAdminDashboard)

	withdrawals := admin.Group("/withdrawals")
	withdrawals.Get("", handlers.ListWithdrawals)
	withdrawals.Post("/:id/approve", handlers.ApproveWithdrawal)
	withdrawals.Post("/:id/reject", handlers.RejectWithdrawal)
	withdrawals.Post("/:id/process", handlers.ProcessWithdrawal)

	admin.Post("/roles/:userId/grant", handlers.GrantAdminRole)
	admin.Post("/roles/:userId/revoke", handlers.RevokeAdminRole)

	admin.Post("/schedules/:id/student-no-show", handlers.MarkStudentNoShow)
	admin.Post("/schedules/:id/tutor-no-show", handlers.MarkTutorNoShow)

	reports := admin.Group("/reports/payouts")
	reports.Post("", handlers.GeneratePayoutReport)
	reports.Get("", handlers.ListPayoutReports)
	reports.Get("/:id", handlers.GetPayoutReport)
}
