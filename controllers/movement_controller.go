package controllers

import (
	"fiber-erp/models"
	"fiber-erp/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MovementController struct {
	DB *gorm.DB
}

func NewMovementController(db *gorm.DB) *MovementController {
	return &MovementController{DB: db}
}

func (c *MovementController) CreateMovement(ctx *fiber.Ctx) error {
	var input models.FormMovement
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	mv, err := repositories.NewMovementRepository(c.DB).Create(&input, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Movement recorded successfully", "data": mv})
}

func (c *MovementController) GetMovementByID(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	mv, err := repositories.NewMovementRepository(c.DB).GetByID(id)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Movement found", "data": mv})
}

func (c *MovementController) GetAllMovements(ctx *fiber.Ctx) error {
	mvs, err := repositories.NewMovementRepository(c.DB).List()
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Movements found", "data": mvs})
}
