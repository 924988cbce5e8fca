package controller

import (
	"ai-salesbot-be/internal/dto"
	"ai-salesbot-be/internal/pkg/serverutils"
	"ai-salesbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ISessionController exposes session observability endpoints. These read
// the whole store and never belong on the message hot path.
type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Count(ctx *fiber.Ctx) error
}

type sessionController struct {
	chatService service.IChatService
}

func NewSessionController(chatService service.IChatService) ISessionController {
	return &sessionController{
		chatService: chatService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	r.Get("/sessions", c.List)
	r.Get("/sessions/count", c.Count)
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	res, err := c.chatService.GetAllSessions(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *sessionController) Count(ctx *fiber.Ctx) error {
	count, err := c.chatService.CountSessions(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(dto.SessionCountResponse{Count: count})
}
