package handlers

import (
	"io"
	"mime/multipart"

	"curio/internal/middleware"
	"curio/internal/services"
	"curio/pkg/imaging"

	"github.com/gofiber/fiber/v2"
)

// ImageHandler handles HTTP requests for item images, including the
// composite delete/upload/reorder mutation.
type ImageHandler struct {
	imageService *services.ImageService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(imageService *services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// RegisterRoutes registers the image routes.
func (h *ImageHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/items/:id/images", h.HandleList)
	router.Post("/items/:id/images/upload", h.HandleUpload)
	router.Patch("/items/:id/images", h.HandleUpdateSet)
	router.Delete("/images/:id", h.HandleDelete)
}

// HandleList returns an item's images in display order.
func (h *ImageHandler) HandleList(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	images, err := h.imageService.List(user.ID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(images)
}

// HandleUpload appends uploaded files to the end of an item's image
// sequence. Expects multipart form files under the "files" field.
func (h *ImageHandler) HandleUpload(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	form, err := c.MultipartForm()
	if err != nil {
		return writeBodyError(c, err)
	}
	files, err := readFormFiles(form.File["files"])
	if err != nil {
		return writeBodyError(c, err)
	}

	images, err := h.imageService.Upload(user.ID, c.Params("id"), files)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(images)
}

// HandleUpdateSet applies one composite mutation to an item's image set:
// deletions, new uploads, and the final ordering, all or nothing. The
// multipart form carries repeated "deleted" ids, repeated "order" entries
// (existing ids or "new-N" placeholders for uploads), and files under
// "new_files".
func (h *ImageHandler) HandleUpdateSet(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	form, err := c.MultipartForm()
	if err != nil {
		return writeBodyError(c, err)
	}

	update := services.ImageSetUpdate{DeleteIDs: form.Value["deleted"]}
	update.NewFiles, err = readFormFiles(form.File["new_files"])
	if err != nil {
		return writeBodyError(c, err)
	}
	for _, entry := range form.Value["order"] {
		ref, err := services.ParseMemberRef(entry)
		if err != nil {
			return writeError(c, err)
		}
		update.Order = append(update.Order, ref)
	}

	images, err := h.imageService.UpdateSet(user.ID, c.Params("id"), update)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(images)
}

// HandleDelete deletes a single image and closes the order gap it leaves.
func (h *ImageHandler) HandleDelete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.imageService.Delete(user.ID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func readFormFiles(headers []*multipart.FileHeader) ([]imaging.File, error) {
	files := make([]imaging.File, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, imaging.File{Filename: header.Filename, Data: data})
	}
	return files, nil
}
