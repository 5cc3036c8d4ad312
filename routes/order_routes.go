package routes

import (
	"fiber-erp/config"
	"fiber-erp/controllers"
	"fiber-erp/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupOrderRoutes(app *fiber.App, db *gorm.DB) {
	orderController := controllers.NewOrderController(db)
	auth := &middleware.AuthMiddlewareStruct{DB: db}

	api := app.Group(config.MAIN_ROUTES+"/orders", middleware.AuthMiddleware)

	api.Post("/", auth.CheckPermission("order:manage"), orderController.CreateOrder)
	api.Get("/", orderController.GetAllOrders)
	api.Get("/:id", orderController.GetOrderByID)
	api.Put("/:id", auth.CheckPermission("order:manage"), orderController.UpdateOrder)
	api.Post("/:id/approve", auth.CheckPermission("order:approve"), orderController.ApproveOrder)
	api.Post("/:id/revert", auth.CheckPermission("order:approve"), orderController.RevertOrder)
}
