package routes

import (
	"fiber-erp/config"
	"fiber-erp/controllers"
	"fiber-erp/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupMovementRoutes(app *fiber.App, db *gorm.DB) {
	movementController := controllers.NewMovementController(db)
	auth := &middleware.AuthMiddlewareStruct{DB: db}

	api := app.Group(config.MAIN_ROUTES+"/movements", middleware.AuthMiddleware)

	api.Post("/", auth.CheckPermission("movement:manage"), movementController.CreateMovement)
	api.Get("/", movementController.GetAllMovements)
	api.Get("/:id", movementController.GetMovementByID)
}
