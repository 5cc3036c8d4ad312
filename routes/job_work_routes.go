package routes

import (
	"fiber-erp/config"
	"fiber-erp/controllers"
	"fiber-erp/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupJobWorkRoutes(app *fiber.App, db *gorm.DB) {
	jobWorkController := controllers.NewJobWorkController(db)
	auth := &middleware.AuthMiddlewareStruct{DB: db}

	api := app.Group(config.MAIN_ROUTES+"/job-works", middleware.AuthMiddleware)

	api.Post("/", auth.CheckPermission("jobwork:manage"), jobWorkController.CreateJobWork)
	api.Get("/", jobWorkController.GetAllJobWorks)
	api.Get("/:id", jobWorkController.GetJobWorkByID)
	api.Put("/:id", auth.CheckPermission("jobwork:manage"), jobWorkController.UpdateJobWork)
	api.Delete("/:id", auth.CheckPermission("jobwork:manage"), jobWorkController.CancelJobWork)
}
