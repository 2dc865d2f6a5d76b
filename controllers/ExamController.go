package controllers

import (
	"github.com/addspin/satexam/middleware"
	"github.com/gofiber/fiber/v3"
)

// ExamController renders every question without its answer. It sits behind
// RequireLogin.
func (h *Handlers) ExamController(c fiber.Ctx) error {
	learner, ok := middleware.Learner(c)
	if !ok {
		return middleware.Redirect(c, middleware.LoginPath)
	}

	store, err := h.openInitialized(c)
	if err != nil {
		return err
	}
	defer store.Close()

	questions, err := store.ListQuestionsPublic(c.Context())
	if err != nil {
		return err
	}

	return c.Render("exam", fiber.Map{
		"Title":     "Exam",
		"Username":  learner.Username,
		"Questions": questions,
	})
}
