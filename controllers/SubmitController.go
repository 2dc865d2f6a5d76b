package controllers

import (
	"log/slog"

	"github.com/addspin/satexam/middleware"
	"github.com/addspin/satexam/scoring"
	"github.com/gofiber/fiber/v3"
)

// SubmitController scores the posted answers against the stored key. Results
// are rendered and never stored.
func (h *Handlers) SubmitController(c fiber.Ctx) error {
	learner, ok := middleware.Learner(c)
	if !ok {
		return middleware.Redirect(c, middleware.LoginPath)
	}

	store, err := h.openInitialized(c)
	if err != nil {
		return err
	}
	defer store.Close()

	key, err := store.AnswerKey(c.Context())
	if err != nil {
		return err
	}

	report := scoring.Score(key, scoring.ParseSubmission(formFields(c)))
	slog.Info("Exam scored",
		"user_id", learner.UserID,
		"correct", report.Correct,
		"total", report.Total,
		"score_pct", report.Percent)

	return c.Render("result", fiber.Map{
		"Title":    "Result",
		"Username": learner.Username,
		"Correct":  report.Correct,
		"Total":    report.Total,
		"ScorePct": report.Percent,
		"Details":  report.Details,
	})
}

// formFields collects the url-encoded form body. Repeated names keep the
// first value.
func formFields(c fiber.Ctx) map[string]string {
	fields := map[string]string{}
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		name := string(key)
		if _, seen := fields[name]; !seen {
			fields[name] = string(value)
		}
	})
	return fields
}
