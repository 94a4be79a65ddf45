package handlers

import (
	"curio/internal/middleware"
	"curio/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CollectionHandler handles HTTP requests for collections.
type CollectionHandler struct {
	collectionService *services.CollectionService
	validate          *validator.Validate
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(collectionService *services.CollectionService) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		validate:          validator.New(),
	}
}

// RegisterRoutes registers the collection routes. Listing and creation hang
// off the profile resource; everything else is addressed by collection id.
func (h *CollectionHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/users/me/collections", h.HandleList)
	router.Post("/users/me/collections", h.HandleCreate)
	router.Patch("/users/me/collections/order", h.HandleReorder)

	collectionRoutes := router.Group("/collections")
	collectionRoutes.Get("/:id", h.HandleGet)
	collectionRoutes.Patch("/:id", h.HandleUpdate)
	collectionRoutes.Delete("/:id", h.HandleDelete)
}

// HandleList returns all of the current user's collections in display order.
func (h *CollectionHandler) HandleList(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	collections, err := h.collectionService.List(user.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(collections)
}

// CollectionRequest represents the request body for creating or updating a
// collection.
type CollectionRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// HandleCreate creates a new collection at the end of the user's sequence.
func (h *CollectionHandler) HandleCreate(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req CollectionRequest
	if err := c.BodyParser(&req); err != nil {
		return writeBodyError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationErrors(c, err)
	}

	collection, err := h.collectionService.Create(user.ID, req.Name, req.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(collection)
}

// HandleGet returns a single owned collection with its items preloaded.
func (h *CollectionHandler) HandleGet(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	collection, err := h.collectionService.Get(user.ID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(collection)
}

// HandleUpdate updates a collection's name and description.
func (h *CollectionHandler) HandleUpdate(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req CollectionRequest
	if err := c.BodyParser(&req); err != nil {
		return writeBodyError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationErrors(c, err)
	}

	collection, err := h.collectionService.Update(user.ID, c.Params("id"), req.Name, req.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(collection)
}

// HandleDelete deletes a collection and everything under it.
func (h *CollectionHandler) HandleDelete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.collectionService.Delete(user.ID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleReorder reassigns display orders across the user's collections.
// The body carries either the full id sequence or sparse id/order pairs.
func (h *CollectionHandler) HandleReorder(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req services.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return writeBodyError(c, err)
	}

	collections, err := h.collectionService.Reorder(user.ID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(collections)
}
