package handler

import (
	"go-vendsync/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login checks the fixed credential pair and hands back a bearer token.
// GET /api/login?username=&password=
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	username := c.Query("username")
	password := c.Query("password")

	token, err := h.authService.Login(username, password)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid credentials",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Login successful",
		"token":   token,
	})
}
