package serverutils

import (
	"errors"

	"ai-salesbot-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) Response {
	return Response{Message: message, Data: data}
}

// ValidateRequest runs struct-tag validation on an inbound DTO.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// ErrorHandlerMiddleware converts errors bubbling out of handlers into a
// consistent JSON body. App error kinds pick the status: storage and
// unclassified failures are 500, upstream/parse are 502, config is 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{
				"message": fiberErr.Message,
			})
		}

		status := fiber.StatusInternalServerError
		switch apperror.KindOf(err) {
		case apperror.KindUpstream, apperror.KindParse:
			status = fiber.StatusBadGateway
		}

		return ctx.Status(status).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
}
