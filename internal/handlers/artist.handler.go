package handlers

import (
	"errors"
	"trackforge/internal/app"
	activityController "trackforge/internal/controllers/activity"
	artistController "trackforge/internal/controllers/artists"
	collabController "trackforge/internal/controllers/collabs"
	taskController "trackforge/internal/controllers/tasks"
	"trackforge/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type ArtistHandler struct {
	Handler
	artistController   artistController.ArtistControllerInterface
	taskController     taskController.TaskControllerInterface
	collabController   collabController.CollabControllerInterface
	activityController activityController.ActivityControllerInterface
}

func NewArtistHandler(app app.App, router fiber.Router) *ArtistHandler {
	log := logger.New("handlers").File("artist_handler")
	return &ArtistHandler{
		artistController:   app.Controllers.Artist,
		taskController:     app.Controllers.Task,
		collabController:   app.Controllers.Collab,
		activityController: app.Controllers.Activity,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ArtistHandler) Register() {
	artists := h.router.Group("/artists")
	artists.Post("", h.register)
	artists.Get("", h.list)
	artists.Get("/:id", h.get)
	artists.Put("/:id", h.update)
	artists.Get("/:id/balance", h.balance)
	artists.Post("/:id/withdrawals", h.withdraw)
	artists.Get("/:id/tasks", h.tasks)
	artists.Get("/:id/collabs", h.collabs)
	artists.Get("/:id/activity", h.activity)
}

func (h *ArtistHandler) errorStatus(err error) int {
	switch {
	case errors.Is(err, artistController.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, artistController.ErrNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

func (h *ArtistHandler) respondError(c *fiber.Ctx, err error, fallback string) error {
	status := h.errorStatus(err)
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"error": fallback})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (h *ArtistHandler) register(c *fiber.Ctx) error {
	var req artistController.RegisterArtistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	artist, err := h.artistController.Register(c.UserContext(), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to register artist")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"artist": artist})
}

func (h *ArtistHandler) list(c *fiber.Ctx) error {
	artists, err := h.artistController.List(c.UserContext())
	if err != nil {
		return h.respondError(c, err, "Failed to list artists")
	}

	return c.JSON(fiber.Map{"artists": artists})
}

func (h *ArtistHandler) get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid artist ID"})
	}

	artist, err := h.artistController.Get(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "Failed to get artist")
	}

	return c.JSON(fiber.Map{"artist": artist})
}

func (h *ArtistHandler) update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid artist ID"})
	}

	var req artistController.UpdateArtistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	artist, err := h.artistController.Update(c.UserContext(), id, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to update artist")
	}

	return c.JSON(fiber.Map{"artist": artist})
}

func (h *ArtistHandler) balance(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid artist ID"})
	}

	balance, err := h.artistController.GetRoyaltyBalance(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "Failed to get royalty balance")
	}

	return c.JSON(fiber.Map{"balance": balance})
}

func (h *ArtistHandler) withdraw(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid artist ID"})
	}

	var req artistController.WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	artist, err := h.artistController.Withdraw(c.UserContext(), id, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to withdraw royalties")
	}

	return c.JSON(fiber.Map{"artist": artist})
}

func (h *ArtistHandler) tasks(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid artist ID"})
	}

	tasks, err := h.taskController.ListByAssignee(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list tasks",
		})
	}

	return c.JSON(fiber.Map{"tasks": tasks})
}

func (h *ArtistHandler) collabs(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid artist ID"})
	}

	requests, err := h.collabController.ListForUser(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list collab requests",
		})
	}

	return c.JSON(fiber.Map{"collabRequests": requests})
}

func (h *ArtistHandler) activity(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid artist ID"})
	}

	activities, err := h.activityController.ListByUser(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list activity",
		})
	}

	return c.JSON(fiber.Map{"activity": activities})
}
