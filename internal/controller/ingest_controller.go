package controller

import (
	"ai-salesbot-be/internal/dto"
	"ai-salesbot-be/internal/pkg/serverutils"
	"ai-salesbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IIngestController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
}

type ingestController struct {
	ingestionService service.IIngestionService
}

func NewIngestController(ingestionService service.IIngestionService) IIngestController {
	return &ingestController{
		ingestionService: ingestionService,
	}
}

func (c *ingestController) RegisterRoutes(r fiber.Router) {
	r.Post("/ingest", c.Ingest)
}

// Ingest queues one document for embedding. The 202-style response only
// means "accepted": the record becomes searchable once the consumer has
// stored vector and metadata together.
func (c *ingestController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	err := c.ingestionService.Enqueue(ctx.Context(), &dto.PublishEmbedDocumentMessage{
		Text:       req.Text,
		Collection: req.Collection,
		ImageIds:   req.ImageIds,
	})
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(dto.IngestResponse{Queued: true})
}
