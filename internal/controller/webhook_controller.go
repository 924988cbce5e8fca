package controller

import (
	"ai-salesbot-be/internal/dto"
	"ai-salesbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Verify(ctx *fiber.Ctx) error
	Receive(ctx *fiber.Ctx) error
}

type webhookController struct {
	webhookService service.IWebhookService
	verifyToken    string
}

func NewWebhookController(webhookService service.IWebhookService, verifyToken string) IWebhookController {
	return &webhookController{
		webhookService: webhookService,
		verifyToken:    verifyToken,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	r.Get("/webhook", c.Verify)
	r.Post("/webhook", c.Receive)
}

// Verify answers the platform's subscription challenge.
func (c *webhookController) Verify(ctx *fiber.Ctx) error {
	mode := ctx.Query("hub.mode")
	token := ctx.Query("hub.verify_token")
	challenge := ctx.Query("hub.challenge")

	if mode == "subscribe" && token == c.verifyToken {
		return ctx.SendString(challenge)
	}
	return fiber.NewError(fiber.StatusForbidden, "verification failed")
}

func (c *webhookController) Receive(ctx *fiber.Ctx) error {
	var event dto.WebhookEvent
	if err := ctx.BodyParser(&event); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if event.Object != "page" {
		return fiber.NewError(fiber.StatusNotFound, "not a page event")
	}

	if err := c.webhookService.HandleEvent(ctx.Context(), &event); err != nil {
		return err
	}
	return ctx.SendString("EVENT_RECEIVED")
}
