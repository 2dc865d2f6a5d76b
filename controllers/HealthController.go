package controllers

import "github.com/gofiber/fiber/v3"

func (h *Handlers) HealthController(c fiber.Ctx) error {
	store, err := h.openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Ping(c.Context()); err != nil {
		return err
	}
	return c.SendString("ok")
}
