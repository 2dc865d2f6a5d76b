package controllers

import (
	"errors"
	"log/slog"

	"github.com/addspin/satexam/storage"
	"github.com/gofiber/fiber/v3"
)

// ErrorHandler turns returned errors into an error page. Storage failures
// are logged and shown as a generic 500.
func ErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "The server could not complete your request. Please try again later."

	var fiberErr *fiber.Error
	var storageErr *storage.Error
	switch {
	case errors.As(err, &storageErr):
		slog.Error("Storage failure", "op", storageErr.Op, "path", c.Path(), "error", storageErr.Err)
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
		if code >= fiber.StatusInternalServerError {
			slog.Error("Request failed", "path", c.Path(), "error", err)
		}
	default:
		slog.Error("Request failed", "path", c.Path(), "error", err)
	}

	c.Status(code)
	if renderErr := c.Render("error", fiber.Map{
		"Title":    "Error",
		"Username": "",
		"Message":  message,
	}); renderErr != nil {
		slog.Error("Error rendering error page", "error", renderErr)
		return c.SendString(message)
	}
	return nil
}
