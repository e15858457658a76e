package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jptandoc/turo_backend/handlers"
	"github.com/jptandoc/turo_backend/middleware"
)

func ScheduleRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	schedules := api.Group("/schedules", middleware.Protected())
	schedules.Post("", handlers.BookSession)
	schedules.Get("/me", handlers.GetMySchedules)
	schedules.Put("/:id/confirm", handlers.ConfirmSchedule)
	schedules.Put("/:id/cancel", handlers.CancelSchedule)
	schedules.Put("/:id/complete", handlers.CompleteSession)
	schedules.Post("/:id/review", handlers.SubmitSessionReview)
}
