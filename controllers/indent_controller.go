package controllers

import (
	"fiber-erp/models"
	"fiber-erp/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type IndentController struct {
	DB *gorm.DB
}

func NewIndentController(db *gorm.DB) *IndentController {
	return &IndentController{DB: db}
}

func (c *IndentController) CreateIndent(ctx *fiber.Ctx) error {
	var input models.FormIndent
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	indent, err := repositories.NewIndentRepository(c.DB).Create(&input, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Indent created successfully", "data": indent})
}

func (c *IndentController) UpdateIndent(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var input models.FormIndent
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	indent, err := repositories.NewIndentRepository(c.DB).Update(id, &input, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Indent updated successfully", "data": indent})
}

func (c *IndentController) ApproveIndent(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	indent, err := repositories.NewIndentRepository(c.DB).Approve(id, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Indent approved successfully", "data": indent})
}

func (c *IndentController) RejectIndent(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var input struct {
		Reason string `json:"reason" validate:"required"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	indent, err := repositories.NewIndentRepository(c.DB).Reject(id, input.Reason, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Indent rejected successfully", "data": indent})
}

func (c *IndentController) RevertIndent(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	indent, err := repositories.NewIndentRepository(c.DB).Revert(id, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Indent reverted to pending", "data": indent})
}

func (c *IndentController) GetIndentByID(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	indent, err := repositories.NewIndentRepository(c.DB).GetByID(id)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Indent found", "data": indent})
}

func (c *IndentController) GetAllIndents(ctx *fiber.Ctx) error {
	indents, err := repositories.NewIndentRepository(c.DB).List()
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Indents found", "data": indents})
}
