package controller

import (
	"ai-salesbot-be/internal/dto"
	"ai-salesbot-be/internal/pkg/serverutils"
	"ai-salesbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IGuardController interface {
	RegisterRoutes(r fiber.Router)
	Process(ctx *fiber.Ctx) error
}

type guardController struct {
	guardService service.IGuardService
}

func NewGuardController(guardService service.IGuardService) IGuardController {
	return &guardController{
		guardService: guardService,
	}
}

func (c *guardController) RegisterRoutes(r fiber.Router) {
	r.Post("/guard", c.Process)
}

func (c *guardController) Process(ctx *fiber.Ctx) error {
	var req dto.GuardRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.guardService.Process(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
