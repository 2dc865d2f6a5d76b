package middleware

import (
	"log/slog"

	"github.com/addspin/satexam/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"
)

const (
	keyUserID   = "user_id"
	keyUsername = "username"

	localsIdentity = "identity"

	LoginPath = "/login"
)

// Identity is either Anonymous or Authenticated.
type Identity interface {
	isIdentity()
}

type Anonymous struct{}

type Authenticated struct {
	UserID   int
	Username string
}

func (Anonymous) isIdentity()     {}
func (Authenticated) isIdentity() {}

// Sessions keeps learner identity in a cookie-keyed fiber session store.
type Sessions struct {
	store *session.Store
}

func NewSessions(cfg utils.SessionConfig) *Sessions {
	store := session.NewStore(session.Config{
		IdleTimeout:    cfg.IdleTimeout,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		KeyGenerator:   uuid.NewString,
	})
	return &Sessions{store: store}
}

// Current returns the identity stored in the request's session.
func (s *Sessions) Current(c fiber.Ctx) (Identity, error) {
	sess, err := s.store.Get(c)
	if err != nil {
		return Anonymous{}, err
	}
	defer sess.Release()

	return identityFrom(sess), nil
}

func identityFrom(sess *session.Session) Identity {
	var userID int
	switch v := sess.Get(keyUserID).(type) {
	case int:
		userID = v
	case int64:
		userID = int(v)
	default:
		return Anonymous{}
	}
	username, _ := sess.Get(keyUsername).(string)
	return Authenticated{UserID: userID, Username: username}
}

// Establish drops whatever the session held, issues a fresh session ID and
// stores the learner in it.
func (s *Sessions) Establish(c fiber.Ctx, learner Authenticated) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	defer sess.Release()

	if err := sess.Reset(); err != nil {
		return err
	}
	sess.Set(keyUserID, learner.UserID)
	sess.Set(keyUsername, learner.Username)
	return sess.Save()
}

// Clear removes the session and expires its cookie.
func (s *Sessions) Clear(c fiber.Ctx) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	defer sess.Release()

	return sess.Destroy()
}

// RequireLogin redirects anonymous requests to the login page. Authenticated
// requests continue with the learner available through Learner.
func (s *Sessions) RequireLogin() fiber.Handler {
	return func(c fiber.Ctx) error {
		identity, err := s.Current(c)
		if err != nil {
			slog.Warn("Session lookup failed", "path", c.Path(), "error", err)
			return Redirect(c, LoginPath)
		}

		learner, ok := identity.(Authenticated)
		if !ok {
			return Redirect(c, LoginPath)
		}

		c.Locals(localsIdentity, learner)
		return c.Next()
	}
}

// Learner returns the learner stored by RequireLogin.
func Learner(c fiber.Ctx) (Authenticated, bool) {
	learner, ok := c.Locals(localsIdentity).(Authenticated)
	return learner, ok
}

func Redirect(c fiber.Ctx, location string) error {
	c.Set("Location", location)
	return c.SendStatus(fiber.StatusFound)
}
