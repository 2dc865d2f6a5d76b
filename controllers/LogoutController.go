package controllers

import (
	"log/slog"

	"github.com/addspin/satexam/middleware"
	"github.com/gofiber/fiber/v3"
)

// LogoutController clears the session and sends the browser to the login page.
func (h *Handlers) LogoutController(c fiber.Ctx) error {
	if err := h.sessions.Clear(c); err != nil {
		slog.Error("Session clear error", "error", err)
	}
	return middleware.Redirect(c, middleware.LoginPath)
}
