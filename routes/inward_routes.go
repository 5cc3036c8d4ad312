package routes

import (
	"fiber-erp/config"
	"fiber-erp/controllers"
	"fiber-erp/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupInwardRoutes(app *fiber.App, db *gorm.DB) {
	inwardController := controllers.NewInwardController(db)
	auth := &middleware.AuthMiddlewareStruct{DB: db}

	api := app.Group(config.MAIN_ROUTES+"/inwards", middleware.AuthMiddleware)

	api.Post("/", auth.CheckPermission("inward:manage"), inwardController.CreateInward)
	api.Get("/", inwardController.GetAllInwards)
	api.Get("/:id", inwardController.GetInwardByID)
	api.Put("/:id", auth.CheckPermission("inward:manage"), inwardController.UpdateInward)
}
