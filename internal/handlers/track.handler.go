package handlers

import (
	"errors"
	"trackforge/internal/app"
	taskController "trackforge/internal/controllers/tasks"
	trackController "trackforge/internal/controllers/tracks"
	"trackforge/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type TrackHandler struct {
	Handler
	trackController trackController.TrackControllerInterface
	taskController  taskController.TaskControllerInterface
	authEnabled     bool
}

func NewTrackHandler(app app.App, router fiber.Router) *TrackHandler {
	log := logger.New("handlers").File("track_handler")
	return &TrackHandler{
		trackController: app.Controllers.Track,
		taskController:  app.Controllers.Task,
		authEnabled:     app.Config.AuthSecret != "",
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *TrackHandler) Register() {
	tracks := h.router.Group("/tracks")
	tracks.Post("", h.create)
	tracks.Get("", h.search)
	tracks.Get("/:id", h.get)
	tracks.Put("/:id", h.update)

	if h.authEnabled {
		tracks.Delete("/:id", h.middleware.RequireAdmin(), h.delete)
	} else {
		tracks.Delete("/:id", h.delete)
	}

	tracks.Get("/:id/visibility", h.getVisibility)
	tracks.Put("/:id/visibility", h.setVisibility)
	tracks.Post("/:id/invites", h.invite)
	tracks.Put("/:id/roles", h.assignRole)
	tracks.Get("/:id/roles/:userId", h.getUserRole)
	tracks.Post("/:id/ratings", h.rate)
	tracks.Get("/:id/rating", h.getRating)
	tracks.Get("/:id/ratings/:userId", h.getUserRating)
	tracks.Post("/:id/tags", h.addTag)
	tracks.Delete("/:id/tags/:tag", h.removeTag)
	tracks.Get("/:id/genre", h.getGenre)
	tracks.Put("/:id/genre", h.setGenre)
	tracks.Post("/:id/comments", h.addComment)
	tracks.Get("/:id/comments", h.listComments)
	tracks.Post("/:id/plays", h.incrementPlayCount)
	tracks.Put("/:id/downloadable", h.setDownloadable)
	tracks.Post("/:id/versions", h.addVersion)
	tracks.Get("/:id/versions", h.listVersions)
	tracks.Put("/:id/splits", h.setSplits)
	tracks.Get("/:id/splits", h.getSplits)
	tracks.Post("/:id/payments", h.distributePayment)
	tracks.Get("/:id/payments", h.paymentHistory)
	tracks.Get("/:id/analytics", h.analytics)
	tracks.Get("/:id/tasks", h.listTasks)
}

func (h *TrackHandler) errorStatus(err error) int {
	switch {
	case errors.Is(err, trackController.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, trackController.ErrNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

func (h *TrackHandler) respondError(c *fiber.Ctx, err error, fallback string) error {
	status := h.errorStatus(err)
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"error": fallback})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (h *TrackHandler) trackID(c *fiber.Ctx) (int64, bool) {
	id, err := paramID(c, "id")
	if err != nil {
		return 0, false
	}
	return id, true
}

func invalidTrackID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid track ID"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
}

func (h *TrackHandler) create(c *fiber.Ctx) error {
	var req trackController.CreateTrackRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	track, err := h.trackController.Create(c.UserContext(), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to create track")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) search(c *fiber.Ctx) error {
	var req trackController.SearchTracksRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid query parameters"})
	}

	tracks, err := h.trackController.Search(c.UserContext(), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to search tracks")
	}

	return c.JSON(fiber.Map{"tracks": tracks})
}

func (h *TrackHandler) get(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	track, err := h.trackController.Get(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "Failed to get track")
	}

	return c.JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) update(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	var req trackController.UpdateTrackRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	track, err := h.trackController.Update(c.UserContext(), id, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to update track")
	}

	return c.JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) delete(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	if err := h.trackController.Delete(c.UserContext(), id); err != nil {
		return h.respondError(c, err, "Failed to delete track")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *TrackHandler) getVisibility(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	visibility, err := h.trackController.GetVisibility(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "Failed to get visibility")
	}

	return c.JSON(fiber.Map{"visibility": visibility})
}

func (h *TrackHandler) setVisibility(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	var req trackController.VisibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	track, err := h.trackController.SetVisibility(c.UserContext(), id, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to set visibility")
	}

	return c.JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) invite(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	var req trackController.InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	track, err := h.trackController.Invite(c.UserContext(), id, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to invite user")
	}

	return c.JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) assignRole(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	var req trackController.AssignRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	track, err := h.trackController.AssignRole(c.UserContext(), id, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to assign role")
	}

	return c.JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) getUserRole(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	userID, err := paramID(c, "userId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	role, err := h.trackController.GetUserRole(c.UserContext(), id, userID)
	if err != nil {
		return h.respondError(c, err, "Failed to get user role")
	}

	return c.JSON(fiber.Map{"role": role})
}

func (h *TrackHandler) rate(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	var req trackController.RateTrackRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	track, err := h.trackController.Rate(c.UserContext(), id, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to rate track")
	}

	return c.JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) getRating(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	rating, err := h.trackController.GetRating(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "Failed to get rating")
	}

	return c.JSON(fiber.Map{"rating": rating})
}

func (h *TrackHandler) getUserRating(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	userID, err := paramID(c, "userId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	rating, err := h.trackController.GetUserRating(c.UserContext(), id, userID)
	if err != nil {
		return h.respondError(c, err, "Failed to get user rating")
	}

	return c.JSON(fiber.Map{"rating": rating})
}

func (h *TrackHandler) addTag(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	var req trackController.TagRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	track, err := h.trackController.AddTag(c.UserContext(), id, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to add tag")
	}

	return c.JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) removeTag(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	track, err := h.trackController.RemoveTag(c.UserContext(), id, c.Params("tag"))
	if err != nil {
		return h.respondError(c, err, "Failed to remove tag")
	}

	return c.JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) getGenre(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	genre, err := h.trackController.GetGenre(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "Failed to get genre")
	}

	return c.JSON(fiber.Map{"genre": genre})
}

func (h *TrackHandler) setGenre(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	var req trackController.GenreRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	track, err := h.trackController.SetGenre(c.UserContext(), id, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to set genre")
	}

	return c.JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) addComment(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	var req trackController.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	track, err := h.trackController.AddComment(c.UserContext(), id, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to add comment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) listComments(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	comments, err := h.trackController.ListComments(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "Failed to list comments")
	}

	return c.JSON(fiber.Map{"comments": comments})
}

func (h *TrackHandler) incrementPlayCount(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	track, err := h.trackController.IncrementPlayCount(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "Failed to increment play count")
	}

	return c.JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) setDownloadable(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	var req trackController.DownloadableRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	track, err := h.trackController.SetDownloadable(c.UserContext(), id, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to set downloadable flag")
	}

	return c.JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) addVersion(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	var req trackController.AddVersionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	track, err := h.trackController.AddVersion(c.UserContext(), id, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to add track version")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) listVersions(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	versions, err := h.trackController.ListVersions(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "Failed to list track versions")
	}

	return c.JSON(fiber.Map{"versions": versions})
}

func (h *TrackHandler) setSplits(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	var req trackController.SetSplitsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	track, err := h.trackController.SetSplits(c.UserContext(), id, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to set splits")
	}

	return c.JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) getSplits(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	splits, err := h.trackController.GetSplits(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "Failed to get splits")
	}

	return c.JSON(fiber.Map{"splits": splits})
}

func (h *TrackHandler) distributePayment(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	var req trackController.DistributePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	track, err := h.trackController.DistributePayment(c.UserContext(), id, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to distribute payment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) paymentHistory(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	payments, err := h.trackController.PaymentHistory(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "Failed to get payment history")
	}

	return c.JSON(fiber.Map{"payments": payments})
}

func (h *TrackHandler) analytics(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	analytics, err := h.trackController.Analytics(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "Failed to get analytics")
	}

	return c.JSON(fiber.Map{"analytics": analytics})
}

func (h *TrackHandler) listTasks(c *fiber.Ctx) error {
	id, ok := h.trackID(c)
	if !ok {
		return invalidTrackID(c)
	}

	tasks, err := h.taskController.ListByTrack(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list tasks",
		})
	}

	return c.JSON(fiber.Map{"tasks": tasks})
}
