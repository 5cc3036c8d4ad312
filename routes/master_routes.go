package routes

import (
	"fiber-erp/config"
	"fiber-erp/controllers"
	"fiber-erp/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupMasterRoutes(app *fiber.App, db *gorm.DB) {
	masterController := controllers.NewMasterController(db)
	auth := &middleware.AuthMiddlewareStruct{DB: db}

	api := app.Group(config.MAIN_ROUTES, middleware.AuthMiddleware)

	api.Post("/vendors", auth.CheckPermission("master:manage"), masterController.CreateVendor)
	api.Get("/vendors", masterController.GetAllVendors)
	api.Put("/vendors/:id", auth.CheckPermission("master:manage"), masterController.UpdateVendor)

	api.Post("/locations", auth.CheckPermission("master:manage"), masterController.CreateLocation)
	api.Get("/locations", masterController.GetAllLocations)

	api.Post("/categories", auth.CheckPermission("master:manage"), masterController.CreateCategory)
	api.Get("/categories", masterController.GetAllCategories)

	api.Post("/uoms", auth.CheckPermission("master:manage"), masterController.CreateUom)
	api.Get("/uoms", masterController.GetAllUoms)

	api.Get("/history", masterController.GetTransactionHistory)
}
