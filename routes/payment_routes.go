package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jptandoc/turo_backend/handlers"
	"github.com/jptandoc/turo_backend/middleware"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	credits := api.Group("/credits", middleware.Protected())
	credits.Post("/buy", handlers.BuyCredits)

	webhooks := api.Group("/webhooks")
	webhooks.Post("/stripe", handlers.StripeWebhook)
	webhooks.Post("/paymongo", handlers.PayMongoWebhook)
}
