package serverutils

import (
	"time"

	"image-processing-be/internal/apperror"
	"image-processing-be/internal/repository/contract"
	"image-processing-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-ID"
	sessionLocal  = "session"
)

type SessionConfig struct {
	Repository contract.SessionRepository
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// SessionMiddleware loads the client's session from the cookie (or the
// X-Session-ID header for non-browser clients) and starts a fresh one when
// none is found. New sessions are only persisted once a service saves them.
func SessionMiddleware(cfg SessionConfig) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id := ctx.Cookies(cfg.CookieName)
		if id == "" {
			id = ctx.Get(SessionHeader)
		}

		var session *store.Session
		if id != "" {
			found, ok, err := cfg.Repository.Get(ctx.UserContext(), id)
			if err != nil {
				return apperror.Storage("load session", err)
			}
			if ok {
				session = found
			}
		}
		if session == nil {
			session = &store.Session{ID: uuid.NewString(), CreatedAt: time.Now()}
		}

		ctx.Cookie(&fiber.Cookie{
			Name:     cfg.CookieName,
			Value:    session.ID,
			Path:     "/",
			Expires:  time.Now().Add(cfg.TTL),
			HTTPOnly: true,
			Secure:   cfg.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		ctx.Set(SessionHeader, session.ID)
		ctx.Locals(sessionLocal, session)

		return ctx.Next()
	}
}

// CurrentSession returns the session loaded by SessionMiddleware.
func CurrentSession(ctx *fiber.Ctx) *store.Session {
	session, _ := ctx.Locals(sessionLocal).(*store.Session)
	if session == nil {
		return &store.Session{}
	}
	return session
}
