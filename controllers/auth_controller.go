package controllers

import (
	"time"

	"fiber-erp/config"
	"fiber-erp/models"
	"fiber-erp/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(DB *gorm.DB) *AuthController {
	return &AuthController{DB: DB}
}

var loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *AuthController) Login(ctx *fiber.Ctx) error {
	if err := ctx.BodyParser(&loginInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if loginInput.Username == "" || loginInput.Password == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username and password are required"})
	}

	userRepo := repositories.NewUserRepository(c.DB)
	user, err := userRepo.Authenticate(loginInput.Username, loginInput.Password)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid username or password"})
	}

	sessionID := uuid.New().String()
	claims := jwt.MapClaims{
		"user_id":     float64(user.ID),
		"company_id":  float64(user.CompanyID),
		"location_id": float64(user.LocationID),
		"session_id":  sessionID,
		"exp":         time.Now().Add(time.Duration(config.JWTExpiration) * time.Second).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.JWTSecret))
	if err != nil {
		return respondError(ctx, err)
	}

	loginLog := models.LoginLog{
		UserID:    user.ID,
		SessionID: sessionID,
		IPAddress: ctx.IP(),
		UserAgent: string(ctx.Request().Header.UserAgent()),
	}
	c.DB.Create(&loginLog)

	ctx.Cookie(config.GetTokenCookie(signed))

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data": fiber.Map{
			"token": signed,
			"user": fiber.Map{
				"id":          user.ID,
				"username":    user.Username,
				"name":        user.Name,
				"email":       user.Email,
				"location_id": user.LocationID,
			},
		},
	})
}

func (c *AuthController) Logout(ctx *fiber.Ctx) error {
	ctx.Cookie(config.GetTokenCookie(""))
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logout successful",
	})
}

func (c *AuthController) Profile(ctx *fiber.Ctx) error {
	scope := getScope(ctx)

	user, err := repositories.NewUserRepository(c.DB).GetByID(uint(scope.UserID))
	if err != nil {
		return respondError(ctx, err)
	}
	user.Password = ""

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Profile found", "data": user})
}
