package rest

import (
	"errors"
	"fmt"

	"github.com/chatterhq/chatter"
	"github.com/gofiber/fiber/v2"
)

type ProfileController struct {
	Store chatter.ProfileStore
}

func (c *ProfileController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Get("/profile/:user_id", c.serveProfile)
	app.Put("/profile/attributes", combineHandlers(requestAuthorizer, c.serveSetAttribute))
}

func (c *ProfileController) serveProfile(ctx *fiber.Ctx) error {
	userId := ctx.Params("user_id")
	if userId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "no user id")
	}

	profile, err := c.Store.ById(ctx.Context(), chatter.UserId(userId))
	if err != nil {
		if errors.Is(err, chatter.ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "profile not found")
		} else {
			return fmt.Errorf("get profile by id: %w", err)
		}
	}
	return ctx.JSON(profileResponse(profile))
}

func (c *ProfileController) serveSetAttribute(ctx *fiber.Ctx) error {
	profile, ok := ctx.Locals(profileLocalsKey).(chatter.Profile)
	if !ok {
		return fiber.ErrUnauthorized
	}

	body := struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}{}
	if err := ctx.BodyParser(&body); err != nil {
		requestLog(ctx).WithError(err).Infoln("Invalid body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if err := profile.SetAttribute(body.Name, body.Value); err != nil {
		if errors.Is(err, chatter.ErrBlankAttributeName) {
			return fiber.NewError(fiber.StatusBadRequest, "no attribute name")
		}
		return fmt.Errorf("set attribute: %w", err)
	}
	if err := c.Store.Write(ctx.Context(), profile); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return ctx.JSON(profileResponse(profile))
}

type ProfileResponse struct {
	Id         string            `json:"id"`
	Attributes map[string]string `json:"attributes"`
}

func profileResponse(profile chatter.Profile) ProfileResponse {
	return ProfileResponse{
		Id:         string(profile.Id),
		Attributes: profile.Attributes,
	}
}
