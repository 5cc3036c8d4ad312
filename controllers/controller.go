package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"fiber-erp/models"
	"fiber-erp/repositories"
	"fiber-erp/types"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// getScope builds the acting scope from the auth claims the middleware put
// in ctx.Locals.
func getScope(ctx *fiber.Ctx) repositories.Scope {
	scope := repositories.Scope{}
	if v, ok := ctx.Locals("userID").(float64); ok {
		scope.UserID = int(v)
	}
	if v, ok := ctx.Locals("companyID").(float64); ok {
		scope.CompanyID = int(v)
	}
	if v, ok := ctx.Locals("locationID").(float64); ok {
		scope.LocationID = uint(v)
	}
	return scope
}

func parseID(ctx *fiber.Ctx, name string) (types.SnowflakeID, error) {
	raw := ctx.Params(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", models.ErrValidation, raw)
	}
	return types.SnowflakeID(id), nil
}

// respondError maps the repository error taxonomy onto HTTP statuses.
// Conflicts and validation failures surface their concrete message; anything
// unexpected is logged server-side and answered generically.
func respondError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrValidation):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case models.IsConflict(err):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "record not found"})
	default:
		logrus.WithError(err).WithField("path", ctx.Path()).Error("request failed")
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
