package controllers

import (
	"fiber-erp/models"
	"fiber-erp/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OutwardController struct {
	DB *gorm.DB
}

func NewOutwardController(db *gorm.DB) *OutwardController {
	return &OutwardController{DB: db}
}

func (c *OutwardController) CreateOutward(ctx *fiber.Ctx) error {
	var input models.FormOutward
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	outward, err := repositories.NewOutwardRepository(c.DB).Create(&input, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Outward created successfully", "data": outward})
}

func (c *OutwardController) UpdateOutward(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var input models.FormOutward
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	outward, err := repositories.NewOutwardRepository(c.DB).Update(id, &input, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Outward updated successfully", "data": outward})
}

func (c *OutwardController) CancelOutward(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	if err := repositories.NewOutwardRepository(c.DB).Cancel(id, getScope(ctx)); err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Outward cancelled"})
}

func (c *OutwardController) GetOutwardByID(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	outward, err := repositories.NewOutwardRepository(c.DB).GetByID(id)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Outward found", "data": outward})
}

func (c *OutwardController) GetAllOutwards(ctx *fiber.Ctx) error {
	outwards, err := repositories.NewOutwardRepository(c.DB).List()
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Outwards found", "data": outwards})
}
