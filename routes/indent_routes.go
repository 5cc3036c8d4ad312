package routes

import (
	"fiber-erp/config"
	"fiber-erp/controllers"
	"fiber-erp/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupIndentRoutes(app *fiber.App, db *gorm.DB) {
	indentController := controllers.NewIndentController(db)
	auth := &middleware.AuthMiddlewareStruct{DB: db}

	api := app.Group(config.MAIN_ROUTES+"/indents", middleware.AuthMiddleware)

	api.Post("/", auth.CheckPermission("indent:manage"), indentController.CreateIndent)
	api.Get("/", indentController.GetAllIndents)
	api.Get("/:id", indentController.GetIndentByID)
	api.Put("/:id", auth.CheckPermission("indent:manage"), indentController.UpdateIndent)
	api.Post("/:id/approve", auth.CheckPermission("indent:approve"), indentController.ApproveIndent)
	api.Post("/:id/reject", auth.CheckPermission("indent:approve"), indentController.RejectIndent)
	api.Post("/:id/revert", auth.CheckPermission("indent:approve"), indentController.RevertIndent)
}
