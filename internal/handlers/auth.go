package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/abstore/internal/services"
)

// AuthHandler bundles registration and login.
type AuthHandler struct {
	users *services.UserService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.UserInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	id, err := h.users.CreateUser(c.UserContext(), req)
	if err != nil {
		return errorResponse(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "message": "User created successfully!"})
}

// Login checks credentials. No token is issued; the client keeps the user.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.users.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return errorResponse(err)
	}

	return c.JSON(fiber.Map{"user": user})
}
