package routes

import (
	"fiber-erp/config"
	"fiber-erp/controllers"
	"fiber-erp/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupItemRoutes(app *fiber.App, db *gorm.DB) {
	itemController := controllers.NewItemController(db)
	auth := &middleware.AuthMiddlewareStruct{DB: db}

	api := app.Group(config.MAIN_ROUTES+"/items", middleware.AuthMiddleware)

	api.Post("/upload-excel", auth.CheckPermission("item:manage"), itemController.UploadExcelItems)
	api.Get("/export", itemController.ExportExcelItems)
	api.Post("/", auth.CheckPermission("item:manage"), itemController.CreateItem)
	api.Get("/", itemController.GetAllItems)
	api.Get("/:id", itemController.GetItemByID)
	api.Get("/:id/state", itemController.GetItemState)
	api.Put("/:id/rename", auth.CheckPermission("item:manage"), itemController.RenameItem)
	api.Delete("/:id", auth.CheckPermission("item:manage"), itemController.DeactivateItem)
}
