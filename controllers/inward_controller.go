package controllers

import (
	"fiber-erp/models"
	"fiber-erp/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type InwardController struct {
	DB *gorm.DB
}

func NewInwardController(db *gorm.DB) *InwardController {
	return &InwardController{DB: db}
}

func (c *InwardController) CreateInward(ctx *fiber.Ctx) error {
	var input models.FormInward
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	inward, err := repositories.NewInwardRepository(c.DB).Create(&input, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Inward created successfully", "data": inward})
}

func (c *InwardController) UpdateInward(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var input models.FormInward
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	inward, err := repositories.NewInwardRepository(c.DB).Update(id, &input, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Inward updated successfully", "data": inward})
}

func (c *InwardController) GetInwardByID(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	inward, err := repositories.NewInwardRepository(c.DB).GetByID(id)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Inward found", "data": inward})
}

func (c *InwardController) GetAllInwards(ctx *fiber.Ctx) error {
	inwards, err := repositories.NewInwardRepository(c.DB).List()
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Inwards found", "data": inwards})
}
