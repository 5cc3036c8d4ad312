package controllers

import (
	"fmt"
	"time"

	"fiber-erp/models"
	"fiber-erp/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ItemController struct {
	DB *gorm.DB
}

func NewItemController(db *gorm.DB) *ItemController {
	return &ItemController{DB: db}
}

func (c *ItemController) CreateItem(ctx *fiber.Ctx) error {
	var input models.FormItem
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	item, err := repositories.NewItemRepository(c.DB).Create(&input, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Item created successfully", "data": item})
}

// GetAllItems lists active items, optionally filtered on derived state via
// ?state=IN_STOCK for selection-list UIs.
func (c *ItemController) GetAllItems(ctx *fiber.Ctx) error {
	items, err := repositories.NewItemRepository(c.DB).ListByState(ctx.Query("state"))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Items found", "data": items})
}

func (c *ItemController) GetItemByID(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	item, err := repositories.NewItemRepository(c.DB).GetByID(id)
	if err != nil {
		return respondError(ctx, err)
	}

	state, err := repositories.NewItemStateRepository(c.DB).GetState(id, 0)
	if err != nil {
		return respondError(ctx, err)
	}
	item.ProcessState = state

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Item found", "data": item})
}

// GetItemState exposes the derived state and holder of one item.
func (c *ItemController) GetItemState(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	item, err := repositories.NewItemRepository(c.DB).GetByID(id)
	if err != nil {
		return respondError(ctx, err)
	}
	state, err := repositories.NewItemStateRepository(c.DB).GetState(id, 0)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Item state derived",
		"data": fiber.Map{
			"item_code":   item.ItemCode,
			"state":       state,
			"holder_type": item.HolderType,
			"location_id": item.LocationID,
			"vendor_id":   item.VendorID,
		},
	})
}

func (c *ItemController) RenameItem(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var input struct {
		Name string `json:"name" validate:"required"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	item, err := repositories.NewItemRepository(c.DB).Rename(id, input.Name, getScope(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Item renamed successfully", "data": item})
}

func (c *ItemController) DeactivateItem(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	if err := repositories.NewItemRepository(c.DB).Deactivate(id, getScope(ctx)); err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Item deactivated successfully"})
}

// UploadExcelItems bulk-creates items from an xlsx with columns
// item_code | name | category_id | uom_id. Row errors are collected and
// reported per row, valid rows still go in.
func (c *ItemController) UploadExcelItems(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(ctx, err)
	}
	defer file.Close()

	xlsx, err := excelize.OpenReader(file)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid excel file"})
	}
	defer xlsx.Close()

	rows, err := xlsx.GetRows(xlsx.GetSheetName(0))
	if err != nil {
		return respondError(ctx, err)
	}

	scope := getScope(ctx)
	repo := repositories.NewItemRepository(c.DB)

	var created int
	var rowErrors []string
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 2 || row[0] == "" {
			continue
		}

		form := models.FormItem{ItemCode: row[0], Name: row[1]}
		if len(row) > 2 {
			fmt.Sscanf(row[2], "%d", &form.CategoryID)
		}
		if len(row) > 3 {
			fmt.Sscanf(row[3], "%d", &form.UomID)
		}

		if _, err := repo.Create(&form, scope); err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		created++
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("%d items created", created),
		"data":    fiber.Map{"created": created, "errors": rowErrors},
	})
}

// ExportExcelItems downloads the item register with derived states.
func (c *ItemController) ExportExcelItems(ctx *fiber.Ctx) error {
	items, err := repositories.NewItemRepository(c.DB).ListByState("")
	if err != nil {
		return respondError(ctx, err)
	}
	stateRepo := repositories.NewItemStateRepository(c.DB)

	xlsx := excelize.NewFile()
	defer xlsx.Close()
	sheet := xlsx.GetSheetName(0)

	headers := []string{"Item Code", "Name", "Revision", "State", "Holder", "Location ID", "Vendor ID"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		xlsx.SetCellValue(sheet, cell, h)
	}

	for i, item := range items {
		state, err := stateRepo.GetState(item.ID, 0)
		if err != nil {
			return respondError(ctx, err)
		}
		row := i + 2
		xlsx.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.ItemCode)
		xlsx.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.Name)
		xlsx.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Revision)
		xlsx.SetCellValue(sheet, fmt.Sprintf("D%d", row), state)
		xlsx.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.HolderType)
		if item.LocationID != nil {
			xlsx.SetCellValue(sheet, fmt.Sprintf("F%d", row), *item.LocationID)
		}
		if item.VendorID != nil {
			xlsx.SetCellValue(sheet, fmt.Sprintf("G%d", row), *item.VendorID)
		}
	}

	filename := fmt.Sprintf("items_%s.xlsx", time.Now().Format("20060102_150405"))
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	return xlsx.Write(ctx.Response().BodyWriter())
}
