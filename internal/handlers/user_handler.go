package handlers

import (
	"curio/internal/middleware"
	"curio/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles requests against the authenticated user's own profile.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the profile routes. All of them require a bearer
// token; the auth middleware is applied by the caller.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users/me")
	userRoutes.Get("/", h.HandleGetProfile)
	userRoutes.Patch("/", h.HandleUpdateUsername)
	userRoutes.Delete("/", h.HandleDeleteAccount)
}

// HandleGetProfile returns the current user's profile.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(user)
}

// UpdateUsernameRequest represents the request body for a username change.
// The current password is required to confirm the change.
type UpdateUsernameRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required"`
}

// HandleUpdateUsername changes the current user's username.
func (h *UserHandler) HandleUpdateUsername(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req UpdateUsernameRequest
	if err := c.BodyParser(&req); err != nil {
		return writeBodyError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationErrors(c, err)
	}

	updated, err := h.userService.UpdateUsername(user.ID, req.Username, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(updated)
}

// DeleteAccountRequest represents the request body for account deletion.
type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

// HandleDeleteAccount deletes the current user together with every
// collection, item, image, and share they own.
func (h *UserHandler) HandleDeleteAccount(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return writeBodyError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationErrors(c, err)
	}

	if err := h.userService.DeleteAccount(user.ID, req.Password); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
