package handlers

import (
	"curio/internal/middleware"
	"curio/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ItemHandler handles HTTP requests for items and their tag sub-resource.
type ItemHandler struct {
	itemService *services.ItemService
	validate    *validator.Validate
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(itemService *services.ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the item routes. Listing, creation, and reorder
// hang off the parent collection; everything else is addressed by item id.
func (h *ItemHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/collections/:id/items", h.HandleList)
	router.Post("/collections/:id/items", h.HandleCreate)
	router.Patch("/collections/:id/items/order", h.HandleReorder)

	itemRoutes := router.Group("/items")
	itemRoutes.Get("/:id", h.HandleGet)
	itemRoutes.Patch("/:id", h.HandleUpdate)
	itemRoutes.Delete("/:id", h.HandleDelete)
	itemRoutes.Get("/:id/tags", h.HandleListTags)
	itemRoutes.Post("/:id/tags", h.HandleAddTags)
	itemRoutes.Delete("/:id/tags", h.HandleClearTags)
}

// HandleList returns all items of an owned collection in display order.
func (h *ItemHandler) HandleList(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	items, err := h.itemService.List(user.ID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

// ItemRequest represents the request body for creating or updating an item.
type ItemRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=5000"`
}

// HandleCreate creates a new item at the end of the collection's sequence.
func (h *ItemHandler) HandleCreate(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return writeBodyError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationErrors(c, err)
	}

	item, err := h.itemService.Create(user.ID, c.Params("id"), req.Name, req.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleGet returns a single owned item with images and tags preloaded.
func (h *ItemHandler) HandleGet(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	item, err := h.itemService.Get(user.ID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(item)
}

// HandleUpdate updates an item's name and description.
func (h *ItemHandler) HandleUpdate(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return writeBodyError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationErrors(c, err)
	}

	item, err := h.itemService.Update(user.ID, c.Params("id"), req.Name, req.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(item)
}

// HandleDelete deletes an item together with its images and tag links.
func (h *ItemHandler) HandleDelete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.itemService.Delete(user.ID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleReorder reassigns display orders across a collection's items.
func (h *ItemHandler) HandleReorder(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req services.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return writeBodyError(c, err)
	}

	items, err := h.itemService.Reorder(user.ID, c.Params("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

// HandleListTags returns the tags attached to an owned item.
func (h *ItemHandler) HandleListTags(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	tags, err := h.itemService.Tags(user.ID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(tags)
}

// AddTagsRequest represents the request body for attaching tags.
type AddTagsRequest struct {
	Names []string `json:"names" validate:"required,min=1,dive,required,min=1,max=100"`
}

// HandleAddTags attaches tags by name, creating missing ones. Attaching an
// already-attached tag is a no-op.
func (h *ItemHandler) HandleAddTags(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req AddTagsRequest
	if err := c.BodyParser(&req); err != nil {
		return writeBodyError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationErrors(c, err)
	}

	tags, err := h.itemService.AddTags(user.ID, c.Params("id"), req.Names)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(tags)
}

// HandleClearTags detaches every tag from an owned item.
func (h *ItemHandler) HandleClearTags(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.itemService.ClearTags(user.ID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
