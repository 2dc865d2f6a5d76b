package controllers

import (
	"github.com/addspin/satexam/middleware"
	"github.com/addspin/satexam/models"
	"github.com/addspin/satexam/storage"
	"github.com/addspin/satexam/utils"
	"github.com/gofiber/fiber/v3"
)

// Handlers carries what every controller needs. Nothing here holds a
// database handle: each request opens its own store and closes it on return.
type Handlers struct {
	cfg      utils.Config
	seed     models.Seed
	sessions *middleware.Sessions
}

func New(cfg utils.Config, seed models.Seed, sessions *middleware.Sessions) *Handlers {
	return &Handlers{cfg: cfg, seed: seed, sessions: sessions}
}

// openStore opens the database for the current request. Callers must defer
// Close.
func (h *Handlers) openStore(c fiber.Ctx) (*storage.Store, error) {
	scheme, err := h.cfg.Auth.Scheme()
	if err != nil {
		return nil, err
	}
	return storage.Open(c.Context(), h.cfg.Database.Path, scheme)
}

// openInitialized opens the store and makes sure tables and demo data exist.
func (h *Handlers) openInitialized(c fiber.Ctx) (*storage.Store, error) {
	store, err := h.openStore(c)
	if err != nil {
		return nil, err
	}
	if err := store.Initialize(c.Context(), h.seed); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// username is the display name of the logged-in learner, or "".
func (h *Handlers) username(c fiber.Ctx) string {
	identity, err := h.sessions.Current(c)
	if err != nil {
		return ""
	}
	if learner, ok := identity.(middleware.Authenticated); ok {
		return learner.Username
	}
	return ""
}
