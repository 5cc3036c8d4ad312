package controllers

import (
	"fiber-erp/models"
	"fiber-erp/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type JobWorkController struct {
	DB *gorm.DB
}

func NewJobWorkController(db *gorm.DB) *JobWorkController {
	return &JobWorkController{DB: db}
}

func (c *JobWorkController) CreateJobWork(ctx *fiber.Ctx) error {
	var input models.FormJobWork
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	jw, err := repositories.NewJobWorkRepository(c.DB).Create(&input, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Job work created successfully", "data": jw})
}

func (c *JobWorkController) UpdateJobWork(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var input models.FormJobWork
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	jw, err := repositories.NewJobWorkRepository(c.DB).Update(id, &input, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Job work updated successfully", "data": jw})
}

func (c *JobWorkController) CancelJobWork(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	if err := repositories.NewJobWorkRepository(c.DB).Cancel(id, getScope(ctx)); err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Job work cancelled"})
}

func (c *JobWorkController) GetJobWorkByID(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	jw, err := repositories.NewJobWorkRepository(c.DB).GetByID(id)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Job work found", "data": jw})
}

func (c *JobWorkController) GetAllJobWorks(ctx *fiber.Ctx) error {
	jws, err := repositories.NewJobWorkRepository(c.DB).List()
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Job works found", "data": jws})
}
