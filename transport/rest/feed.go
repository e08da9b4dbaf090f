package rest

import (
	"encoding/json"
	"fmt"

	"github.com/chatterhq/chatter"
	"github.com/gofiber/fiber/v2"
)

// FeedCache keeps rendered feeds for a short while. Misses and backend
// hiccups both read as "not cached".
type FeedCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

type FeedController struct {
	Feed *chatter.FeedBuilder

	// optional; nil disables caching
	Cache FeedCache
}

func (c *FeedController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Get("/feed", combineHandlers(requestAuthorizer, c.serveFeed))
}

func (c *FeedController) serveFeed(ctx *fiber.Ctx) error {
	profile, ok := ctx.Locals(profileLocalsKey).(chatter.Profile)
	if !ok {
		return fiber.ErrUnauthorized
	}

	if c.Cache != nil {
		if cached, ok := c.Cache.Get("feed:" + string(profile.Id)); ok {
			ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return ctx.Send(cached)
		}
	}

	posts, err := c.Feed.FeedFor(ctx.Context(), profile)
	if err != nil {
		return fmt.Errorf("feed for %q: %w", profile.Id, err)
	}

	mapped := make([]PostResponse, len(posts))
	for i, post := range posts {
		mapped[i] = postResponse(post)
	}

	if c.Cache != nil {
		serialized, err := json.Marshal(mapped)
		if err != nil {
			return fmt.Errorf("serialize feed: %w", err)
		}
		c.Cache.Set("feed:"+string(profile.Id), serialized)
	}
	return ctx.JSON(mapped)
}
