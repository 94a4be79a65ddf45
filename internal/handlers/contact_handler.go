package handlers

import (
	"log"

	"curio/pkg/rabbitmq"
	"curio/pkg/ratelimit"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ContactHandler handles the public contact form. Submissions are rate
// limited per client IP and queued for asynchronous email delivery.
type ContactHandler struct {
	queue    *rabbitmq.Client
	limiter  *ratelimit.Limiter
	validate *validator.Validate
}

// NewContactHandler creates a new ContactHandler. The queue client may be
// nil, in which case submissions are logged instead of queued.
func NewContactHandler(queue *rabbitmq.Client, limiter *ratelimit.Limiter) *ContactHandler {
	return &ContactHandler{
		queue:    queue,
		limiter:  limiter,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the contact routes. Both are public.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/contact", h.HandleSubmit)
	router.Get("/contact/rate-limit-info", h.HandleRateLimitInfo)
}

// ContactRequest represents a contact form submission.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=1,max=200"`
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

// HandleSubmit accepts a contact form submission and queues it for delivery.
func (h *ContactHandler) HandleSubmit(c *fiber.Ctx) error {
	if !h.limiter.Allow(c.IP()) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"kind":   "rate_limited",
			"detail": "too many contact submissions, try again later",
		})
	}

	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return writeBodyError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationErrors(c, err)
	}

	msg := rabbitmq.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if h.queue != nil {
		if err := h.queue.PublishContactMessage(msg); err != nil {
			log.Printf("Error queuing contact message from %s: %v", req.Email, err)
			return writeError(c, err)
		}
	} else {
		log.Printf("Contact message from %s <%s>: %s", req.Name, req.Email, req.Subject)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted"})
}

// HandleRateLimitInfo reports how many submissions the caller has left in
// the current window.
func (h *ContactHandler) HandleRateLimitInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"remaining": h.limiter.Remaining(c.IP())})
}
