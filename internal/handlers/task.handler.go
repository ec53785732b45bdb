package handlers

import (
	"errors"
	"trackforge/internal/app"
	taskController "trackforge/internal/controllers/tasks"
	"trackforge/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type TaskHandler struct {
	Handler
	taskController taskController.TaskControllerInterface
}

func NewTaskHandler(app app.App, router fiber.Router) *TaskHandler {
	log := logger.New("handlers").File("task_handler")
	return &TaskHandler{
		taskController: app.Controllers.Task,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *TaskHandler) Register() {
	tasks := h.router.Group("/tasks")
	tasks.Post("", h.create)
	tasks.Put("/:id/status", h.updateStatus)
}

func (h *TaskHandler) errorStatus(err error) int {
	switch {
	case errors.Is(err, taskController.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, taskController.ErrNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

func (h *TaskHandler) respondError(c *fiber.Ctx, err error, fallback string) error {
	status := h.errorStatus(err)
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"error": fallback})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (h *TaskHandler) create(c *fiber.Ctx) error {
	var req taskController.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	task, err := h.taskController.Create(c.UserContext(), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to create task")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"task": task})
}

func (h *TaskHandler) updateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var req taskController.UpdateTaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	task, err := h.taskController.UpdateStatus(c.UserContext(), id, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to update task status")
	}

	return c.JSON(fiber.Map{"task": task})
}
