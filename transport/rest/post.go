package rest

import (
	"fmt"

	"github.com/chatterhq/chatter"
	"github.com/gofiber/fiber/v2"
)

type PostController struct {
	Store chatter.PostStore
}

func (c *PostController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Post("/posts", combineHandlers(requestAuthorizer, c.serveCreatePost))
}

func (c *PostController) serveCreatePost(ctx *fiber.Ctx) error {
	profile, ok := ctx.Locals(profileLocalsKey).(chatter.Profile)
	if !ok {
		return fiber.ErrUnauthorized
	}

	body := struct {
		Content string `json:"content"`
	}{}
	if err := ctx.BodyParser(&body); err != nil {
		requestLog(ctx).WithError(err).Infoln("Invalid body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	post, err := chatter.NewPost(profile.Id, body.Content)
	if err != nil {
		return fmt.Errorf("new post: %w", err)
	}
	if err := c.Store.Write(ctx.Context(), &post); err != nil {
		return fmt.Errorf("write post: %w", err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(postResponse(post))
}

type PostResponse struct {
	UserId  string `json:"userId"`
	Id      int64  `json:"id"`
	Content string `json:"content"`
}

func postResponse(post chatter.Post) PostResponse {
	return PostResponse{
		UserId:  string(post.UserId),
		Id:      int64(post.Id),
		Content: post.Content,
	}
}
