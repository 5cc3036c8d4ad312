package routes

import (
	"fiber-erp/config"
	"fiber-erp/controllers"
	"fiber-erp/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupOutwardRoutes(app *fiber.App, db *gorm.DB) {
	outwardController := controllers.NewOutwardController(db)
	auth := &middleware.AuthMiddlewareStruct{DB: db}

	api := app.Group(config.MAIN_ROUTES+"/outwards", middleware.AuthMiddleware)

	api.Post("/", auth.CheckPermission("outward:manage"), outwardController.CreateOutward)
	api.Get("/", outwardController.GetAllOutwards)
	api.Get("/:id", outwardController.GetOutwardByID)
	api.Put("/:id", auth.CheckPermission("outward:manage"), outwardController.UpdateOutward)
	api.Delete("/:id", auth.CheckPermission("outward:manage"), outwardController.CancelOutward)
}
