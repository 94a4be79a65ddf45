package handlers

import (
	"curio/internal/middleware"
	"curio/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ShareHandler handles share-link management and public token resolution.
type ShareHandler struct {
	shareService *services.ShareService
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(shareService *services.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

// RegisterManagementRoutes registers the owner-facing share routes; the
// caller applies the auth middleware.
func (h *ShareHandler) RegisterManagementRoutes(router fiber.Router) {
	router.Post("/share/collections/:id", h.HandleCreateOrEnable)
	router.Delete("/share/collections/:id", h.HandleDisable)
}

// RegisterPublicRoutes registers the token-resolution routes. These carry no
// auth; an enabled token is the only credential.
func (h *ShareHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/share/:token", h.HandleResolve)
	router.Get("/share/:token/items/:id", h.HandleResolveItem)
}

// ShareRequest represents the request body for enabling a share link.
type ShareRequest struct {
	Rotate bool `json:"rotate"`
}

// HandleCreateOrEnable enables sharing for an owned collection. Without
// rotation, re-enabling keeps the existing token so previously handed-out
// links keep working; with rotation a fresh token invalidates them.
func (h *ShareHandler) HandleCreateOrEnable(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req ShareRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return writeBodyError(c, err)
		}
	}

	share, err := h.shareService.CreateOrEnable(user.ID, c.Params("id"), req.Rotate)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(share)
}

// HandleDisable disables a collection's share link. The token survives
// disabled so a later re-enable restores the same public URL.
func (h *ShareHandler) HandleDisable(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.shareService.Disable(user.ID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleResolve returns the shared collection for an enabled token.
func (h *ShareHandler) HandleResolve(c *fiber.Ctx) error {
	collection, err := h.shareService.Resolve(c.Params("token"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(collection)
}

// HandleResolveItem returns a single item of the shared collection.
func (h *ShareHandler) HandleResolveItem(c *fiber.Ctx) error {
	item, err := h.shareService.ResolveItem(c.Params("token"), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(item)
}
