package controllers

import (
	"errors"

	"fiber-erp/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MasterController maintains the lookup tables the documents reference:
// vendors, locations, categories and units of measure.
type MasterController struct {
	DB *gorm.DB
}

func NewMasterController(db *gorm.DB) *MasterController {
	return &MasterController{DB: db}
}

var vendorInput struct {
	VendorCode string `json:"vendor_code"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

func (c *MasterController) CreateVendor(ctx *fiber.Ctx) error {
	if err := ctx.BodyParser(&vendorInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if vendorInput.VendorCode == "" || vendorInput.Name == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "vendor_code and name are required"})
	}

	vendor := models.Vendor{
		VendorCode: vendorInput.VendorCode,
		Name:       vendorInput.Name,
		Email:      vendorInput.Email,
		Phone:      vendorInput.Phone,
		Address:    vendorInput.Address,
		IsActive:   true,
		CreatedBy:  getScope(ctx).UserID,
	}
	if err := c.DB.Create(&vendor).Error; err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Vendor created successfully", "data": vendor})
}

func (c *MasterController) GetAllVendors(ctx *fiber.Ctx) error {
	var vendors []models.Vendor
	if err := c.DB.Where("is_active = ?", true).Order("vendor_code").Find(&vendors).Error; err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Vendors found", "data": vendors})
}

func (c *MasterController) UpdateVendor(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var vendor models.Vendor
	if err := c.DB.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vendor not found"})
		}
		return respondError(ctx, err)
	}

	if err := ctx.BodyParser(&vendorInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	vendor.Name = vendorInput.Name
	vendor.Email = vendorInput.Email
	vendor.Phone = vendorInput.Phone
	vendor.Address = vendorInput.Address
	vendor.UpdatedBy = getScope(ctx).UserID
	if err := c.DB.Save(&vendor).Error; err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Vendor updated successfully", "data": vendor})
}

var locationInput struct {
	LocationCode string `json:"location_code"`
	Name         string `json:"name"`
	Address      string `json:"address"`
}

func (c *MasterController) CreateLocation(ctx *fiber.Ctx) error {
	if err := ctx.BodyParser(&locationInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if locationInput.LocationCode == "" || locationInput.Name == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "location_code and name are required"})
	}

	location := models.Location{
		LocationCode: locationInput.LocationCode,
		Name:         locationInput.Name,
		Address:      locationInput.Address,
		IsActive:     true,
		CreatedBy:    getScope(ctx).UserID,
	}
	if err := c.DB.Create(&location).Error; err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Location created successfully", "data": location})
}

func (c *MasterController) GetAllLocations(ctx *fiber.Ctx) error {
	var locations []models.Location
	if err := c.DB.Where("is_active = ?", true).Order("location_code").Find(&locations).Error; err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Locations found", "data": locations})
}

var codeNameInput struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (c *MasterController) CreateCategory(ctx *fiber.Ctx) error {
	if err := ctx.BodyParser(&codeNameInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if codeNameInput.Code == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "code is required"})
	}

	category := models.Category{
		Code:      codeNameInput.Code,
		Name:      codeNameInput.Name,
		CreatedBy: getScope(ctx).UserID,
	}
	if err := c.DB.Create(&category).Error; err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Category created successfully", "data": category})
}

func (c *MasterController) GetAllCategories(ctx *fiber.Ctx) error {
	var categories []models.Category
	if err := c.DB.Order("code").Find(&categories).Error; err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Categories found", "data": categories})
}

func (c *MasterController) CreateUom(ctx *fiber.Ctx) error {
	if err := ctx.BodyParser(&codeNameInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if codeNameInput.Code == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "code is required"})
	}

	uom := models.Uom{
		Code:      codeNameInput.Code,
		Name:      codeNameInput.Name,
		CreatedBy: getScope(ctx).UserID,
	}
	if err := c.DB.Create(&uom).Error; err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Uom created successfully", "data": uom})
}

func (c *MasterController) GetAllUoms(ctx *fiber.Ctx) error {
	var uoms []models.Uom
	if err := c.DB.Order("code").Find(&uoms).Error; err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Uoms found", "data": uoms})
}

// GetTransactionHistory lists the audit trail, optionally filtered by ref_no.
func (c *MasterController) GetTransactionHistory(ctx *fiber.Ctx) error {
	q := c.DB.Model(&models.TransactionHistory{}).Order("created_at desc")
	if refNo := ctx.Query("ref_no"); refNo != "" {
		q = q.Where("ref_no = ?", refNo)
	}

	var history []models.TransactionHistory
	if err := q.Limit(500).Find(&history).Error; err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "History found", "data": history})
}
