package routes

import (
	"fiber-erp/config"
	"fiber-erp/controllers"
	"fiber-erp/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupQcRoutes(app *fiber.App, db *gorm.DB) {
	qcController := controllers.NewQcController(db)
	auth := &middleware.AuthMiddlewareStruct{DB: db}

	api := app.Group(config.MAIN_ROUTES+"/qc-entries", middleware.AuthMiddleware)

	api.Post("/", auth.CheckPermission("qc:manage"), qcController.CreateQcEntry)
	api.Get("/", qcController.GetAllQcEntries)
	api.Get("/:id", qcController.GetQcEntryByID)
	api.Put("/:id/items/:itemId", auth.CheckPermission("qc:manage"), qcController.ResolveQcItem)
	api.Post("/:id/approve", auth.CheckPermission("qc:manage"), qcController.ApproveQcEntry)
	api.Post("/:id/reject", auth.CheckPermission("qc:manage"), qcController.RejectQcEntry)
}
