package controllers

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/addspin/satexam/middleware"
	"github.com/addspin/satexam/storage"
	"github.com/addspin/satexam/utils"
	"github.com/gofiber/fiber/v3"
)

const examPath = "/exam"

// LoginController serves the login form and checks submitted credentials.
// Both methods make sure the database is initialised first.
func (h *Handlers) LoginController(c fiber.Ctx) error {
	store, err := h.openInitialized(c)
	if err != nil {
		return err
	}
	defer store.Close()

	if c.Method() != fiber.MethodPost {
		return renderLogin(c, "", "")
	}

	username := strings.TrimSpace(c.FormValue("username"))
	password := strings.TrimSpace(c.FormValue("password"))

	user, err := store.FindUser(c.Context(), username, password)
	if errors.Is(err, storage.ErrInvalidCredentials) {
		slog.Info("Login rejected", "ip", c.IP())
		return renderLogin(c, utils.InvalidCredentialsMessage(c.Get(fiber.HeaderAcceptLanguage)), username)
	}
	if err != nil {
		return err
	}

	learner := middleware.Authenticated{UserID: user.Id, Username: user.Username}
	if err := h.sessions.Establish(c, learner); err != nil {
		return err
	}
	slog.Info("Login succeeded", "user_id", user.Id, "username", user.Username)

	return middleware.Redirect(c, examPath)
}

func renderLogin(c fiber.Ctx, message, entered string) error {
	return c.Render("login", fiber.Map{
		"Title":    "Login",
		"Username": "",
		"Message":  message,
		"Entered":  entered,
	})
}
