package main

import (
	"log"

	"fiber-erp/config"
	"fiber-erp/controllers/idgen"
	"fiber-erp/database"
	"fiber-erp/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	config.LoadConfig()

	app := fiber.New()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	config.SetupCORS(app)

	routes.SetupAuthRoutes(app, db)
	routes.SetupItemRoutes(app, db)
	routes.SetupIndentRoutes(app, db)
	routes.SetupOrderRoutes(app, db)
	routes.SetupInwardRoutes(app, db)
	routes.SetupQcRoutes(app, db)
	routes.SetupJobWorkRoutes(app, db)
	routes.SetupOutwardRoutes(app, db)
	routes.SetupMovementRoutes(app, db)
	routes.SetupMasterRoutes(app, db)

	port := config.APP_PORT
	logrus.WithField("port", port).Info("server starting")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
