package routes

import (
	"fiber-erp/config"
	"fiber-erp/controllers"
	"fiber-erp/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controllers.NewAuthController(db)

	guest := app.Group(config.GUEST_ROUTES + "/auth")
	guest.Post("/login", authController.Login)

	api := app.Group(config.MAIN_ROUTES+"/auth", middleware.AuthMiddleware)
	api.Post("/logout", authController.Logout)
	api.Get("/profile", authController.Profile)
}
