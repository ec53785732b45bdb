package handlers

import (
	"strconv"
	"trackforge/internal/app"
	"trackforge/internal/handlers/middleware"
	"trackforge/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	setupWebSocketRoute(router, app)

	api := router.Group("/api")
	HealthHandler(api, app.Config)

	// Auth is optional: with no secret configured the API is open and callers
	// identify themselves through request payloads only.
	if app.Config.AuthSecret != "" {
		api.Use(app.Middleware.RequireAuth())
	}

	NewArtistHandler(*app, api).Register()
	NewTrackHandler(*app, api).Register()
	NewCollabHandler(*app, api).Register()
	NewTaskHandler(*app, api).Register()
	NewActivityHandler(*app, api).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	return strconv.ParseInt(c.Params(name), 10, 64)
}
