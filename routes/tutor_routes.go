package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jptandoc/turo_backend/handlers"
	"github.com/jptandoc/turo_backend/middleware"
)

func TutorRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	tutor := api.Group("/tutor", middleware.Protected())
	tutor.Post("/apply", handlers.ApplyToBeATutor)

	payout := tutor.Group("", middleware.TutorRequired())
	payout.Get("/balance", handlers.GetMyBalance)
	payout.Get("/schedules", handlers.GetMyTutorSchedules)
	payout.Post("/stripe/onboarding-link", handlers.CreateStripeOnboardingLink)
	payout.Get("/stripe/account-status", handlers.GetStripeAccountStatus)
	payout.Post("/stripe/login-link", handlers.CreateStripeLoginLink)
	payout.Post("/paymongo/wallet", handlers.LinkPayMongoWallet)
	payout.Post("/withdrawals", handlers.RequestWithdrawal)
	payout.Get("/withdrawals", handlers.GetMyWithdrawals)
}
