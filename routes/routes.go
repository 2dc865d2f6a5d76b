package routes

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/addspin/satexam/controllers"
	"github.com/addspin/satexam/middleware"
	"github.com/addspin/satexam/models"
	"github.com/addspin/satexam/utils"
	"github.com/addspin/satexam/views"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/encryptcookie"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
)

// New builds the fiber app with every route and middleware wired.
func New(cfg utils.Config, seed models.Seed) (*fiber.App, error) {
	if _, err := cfg.Auth.Scheme(); err != nil {
		return nil, err
	}
	key, err := cookieKey(cfg.Session.Secret)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:      "satexam",
		Views:        views.Engine(),
		ViewsLayout:  views.Layout,
		ErrorHandler: controllers.ErrorHandler,
	})

	app.Use(recoverer.New())
	if cfg.Server.AccessLog {
		app.Use(logger.New())
	}
	app.Use(encryptcookie.New(encryptcookie.Config{Key: key}))

	sessions := middleware.NewSessions(cfg.Session)
	Setup(app, controllers.New(cfg, seed, sessions), sessions)
	return app, nil
}

func Setup(app *fiber.App, h *controllers.Handlers, sessions *middleware.Sessions) {
	app.Get("/static*", static.New("", static.Config{FS: views.Static()}))
	app.Get("/healthz", h.HealthController)

	app.Get("/", h.Index)
	app.Get("/practice", h.Practice)
	app.Get(middleware.LoginPath, h.LoginController)
	app.Post(middleware.LoginPath, h.LoginController)
	app.Get("/logout", h.LogoutController)

	app.Get("/exam", sessions.RequireLogin(), h.ExamController)
	app.Post("/submit", sessions.RequireLogin(), h.SubmitController)
}

// cookieKey validates the configured secret, or makes a throwaway one when
// none is set. A throwaway key logs everybody out on restart.
func cookieKey(secret string) (string, error) {
	if secret == "" {
		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			return "", fmt.Errorf("generate cookie key: %w", err)
		}
		slog.Warn("session.secret is not set, using a random key for this process")
		return base64.StdEncoding.EncodeToString(raw), nil
	}

	raw, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return "", fmt.Errorf("session.secret must be base64: %w", err)
	}
	switch len(raw) {
	case 16, 24, 32:
		return secret, nil
	}
	return "", fmt.Errorf("session.secret must decode to 16, 24 or 32 bytes, got %d", len(raw))
}
