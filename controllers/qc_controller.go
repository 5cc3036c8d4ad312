package controllers

import (
	"fiber-erp/models"
	"fiber-erp/repositories"
	"fiber-erp/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QcController struct {
	DB *gorm.DB
}

func NewQcController(db *gorm.DB) *QcController {
	return &QcController{DB: db}
}

func (c *QcController) CreateQcEntry(ctx *fiber.Ctx) error {
	var input models.FormQcEntry
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	entry, err := repositories.NewQcRepository(c.DB).Create(&input, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "QC entry created successfully", "data": entry})
}

func (c *QcController) ResolveQcItem(ctx *fiber.Ctx) error {
	entryID, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}
	itemID, err := parseID(ctx, "itemId")
	if err != nil {
		return respondError(ctx, err)
	}

	var input models.FormQcResolution
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	qcItem, err := repositories.NewQcRepository(c.DB).ResolveItem(entryID, itemID, &input, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "QC item resolved", "data": qcItem})
}

func (c *QcController) ApproveQcEntry(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	entry, rejected, err := repositories.NewQcRepository(c.DB).ApproveEntry(id, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	if len(rejected) > 0 {
		go services.NotifyQcRejection(entry.QcNo, rejected, entry.Remarks)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "QC entry approved successfully", "data": entry})
}

func (c *QcController) RejectQcEntry(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var input struct {
		Remarks string `json:"remarks"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	entry, rejected, err := repositories.NewQcRepository(c.DB).RejectEntry(id, input.Remarks, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	if len(rejected) > 0 {
		go services.NotifyQcRejection(entry.QcNo, rejected, entry.Remarks)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "QC entry rejected", "data": entry})
}

func (c *QcController) GetQcEntryByID(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	entry, err := repositories.NewQcRepository(c.DB).GetByID(id)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "QC entry found", "data": entry})
}

func (c *QcController) GetAllQcEntries(ctx *fiber.Ctx) error {
	entries, err := repositories.NewQcRepository(c.DB).List()
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "QC entries found", "data": entries})
}
