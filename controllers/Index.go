package controllers

import (
	"github.com/gofiber/fiber/v3"
)

func (h *Handlers) Index(c fiber.Ctx) error {
	return c.Render("dashboard", fiber.Map{
		"Title":    "Dashboard",
		"Username": h.username(c),
	})
}

func (h *Handlers) Practice(c fiber.Ctx) error {
	return c.Render("practice", fiber.Map{
		"Title":    "Practice",
		"Username": h.username(c),
	})
}
