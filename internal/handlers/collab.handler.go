package handlers

import (
	"errors"
	"trackforge/internal/app"
	collabController "trackforge/internal/controllers/collabs"
	"trackforge/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type CollabHandler struct {
	Handler
	collabController collabController.CollabControllerInterface
}

func NewCollabHandler(app app.App, router fiber.Router) *CollabHandler {
	log := logger.New("handlers").File("collab_handler")
	return &CollabHandler{
		collabController: app.Controllers.Collab,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CollabHandler) Register() {
	collabs := h.router.Group("/collabs")
	collabs.Post("", h.send)
	collabs.Post("/:id/response", h.respond)
}

func (h *CollabHandler) errorStatus(err error) int {
	switch {
	case errors.Is(err, collabController.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, collabController.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, collabController.ErrConflict):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func (h *CollabHandler) respondError(c *fiber.Ctx, err error, fallback string) error {
	status := h.errorStatus(err)
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"error": fallback})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (h *CollabHandler) send(c *fiber.Ctx) error {
	var req collabController.SendCollabRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	collab, err := h.collabController.Send(c.UserContext(), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to send collab request")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"collabRequest": collab})
}

func (h *CollabHandler) respond(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid collab request ID"})
	}

	var req collabController.RespondCollabRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	collab, err := h.collabController.Respond(c.UserContext(), id, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to respond to collab request")
	}

	return c.JSON(fiber.Map{"collabRequest": collab})
}
