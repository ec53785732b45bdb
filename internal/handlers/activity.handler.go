package handlers

import (
	"strconv"
	"trackforge/internal/app"
	activityController "trackforge/internal/controllers/activity"
	"trackforge/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const defaultRecentActivityCount = 10

type ActivityHandler struct {
	Handler
	activityController activityController.ActivityControllerInterface
}

func NewActivityHandler(app app.App, router fiber.Router) *ActivityHandler {
	log := logger.New("handlers").File("activity_handler")
	return &ActivityHandler{
		activityController: app.Controllers.Activity,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ActivityHandler) Register() {
	activity := h.router.Group("/activity")
	activity.Get("/recent", h.recent)
}

func (h *ActivityHandler) recent(c *fiber.Ctx) error {
	count := int64(defaultRecentActivityCount)
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count"})
		}
		count = parsed
	}

	activities, err := h.activityController.Recent(c.UserContext(), count)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list recent activity",
		})
	}

	return c.JSON(fiber.Map{"activity": activities})
}
