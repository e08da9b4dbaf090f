package rest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chatterhq/chatter"
	"github.com/gofiber/fiber/v2"
)

const (
	sessionLocalsKey = "session"
	profileLocalsKey = "profile"
)

type AuthController struct {
	ProfileStore chatter.ProfileStore
	SessionStore chatter.SessionStore
}

func (c *AuthController) InstallTo(app *fiber.App) {
	app.Post("/login", c.serveLogin)
	app.Post("/logout", c.logoutHandler())
}

// serveLogin logs a user in by username, creating an empty profile on
// first login.
func (c *AuthController) serveLogin(ctx *fiber.Ctx) error {
	body := struct {
		Username string `json:"username"`
	}{}
	if err := ctx.BodyParser(&body); err != nil {
		requestLog(ctx).WithError(err).Infoln("Invalid body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	userId := chatter.UserId(body.Username)
	if userId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "no username")
	}

	profile, err := c.ProfileStore.ById(ctx.Context(), userId)
	if err != nil {
		if !errors.Is(err, chatter.ErrProfileNotFound) {
			return fmt.Errorf("get profile by id: %w", err)
		}
		profile, err = chatter.NewProfile(userId, nil)
		if err != nil {
			return fmt.Errorf("new profile: %w", err)
		}
		if err := c.ProfileStore.Write(ctx.Context(), profile); err != nil {
			return fmt.Errorf("write profile: %w", err)
		}
		requestLog(ctx).WithField("user_id", userId).Infoln("Created new profile.")
	}

	session, err := c.SessionStore.RegisterNew(ctx.Context(), profile.Id)
	if err != nil {
		return fmt.Errorf("session register new: %w", err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(map[string]interface{}{
		"id":          session.Id,
		"userId":      session.UserId,
		"accessToken": session.Token,
		"expiresAt":   session.ExpiresAt.Unix(),
	})
}

func (c *AuthController) logoutHandler() fiber.Handler {
	return combineHandlers(RequestAuthorizer(c.SessionStore, c.ProfileStore), func(ctx *fiber.Ctx) error {
		session := ctx.Locals(sessionLocalsKey).(chatter.Session)
		return c.SessionStore.InvalidateByAuthToken(session.Token)
	})
}

func RequestAuthorizer(sessionStore chatter.SessionStore, profileStore chatter.ProfileStore) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		auth := ctx.Get(fiber.HeaderAuthorization)
		if auth == "" {
			return fiber.ErrUnauthorized
		}
		if !strings.HasPrefix(auth, "Bearer ") {
			return fiber.NewError(fiber.ErrBadRequest.Code, "invalid auth type")
		}
		token := strings.TrimPrefix(auth, "Bearer ")

		session, err := sessionStore.ByToken(token)
		if err != nil {
			if errors.Is(err, chatter.ErrSessionNotFound) {
				return fiber.ErrUnauthorized
			} else {
				return fmt.Errorf("session by token: %w", err)
			}
		}
		profile, err := profileStore.ById(ctx.Context(), session.UserId)
		if err != nil {
			return fmt.Errorf("retrieve profile by id: %w", err)
		}

		requestLog(ctx).
			WithField("user_id", profile.Id).
			Infoln("Authorized access.")

		ctx.Locals(sessionLocalsKey, session)
		ctx.Locals(profileLocalsKey, profile)
		return nil
	}
}
