package controller

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"ai-support-chatbot-be/internal/dto"
	"ai-support-chatbot-be/internal/pkg/serverutils"
	"ai-support-chatbot-be/internal/service"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Rebuild(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	publisherService service.IPublisherService
}

func NewKnowledgeController(publisherService service.IPublisherService) IKnowledgeController {
	return &knowledgeController{
		publisherService: publisherService,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge/v1")
	h.Post("rebuild", c.Rebuild)
}

// Rebuild queues a rebuild request and returns immediately. The consumer
// service performs the actual rebuild in the background.
func (c *knowledgeController) Rebuild(ctx *fiber.Ctx) error {
	payload := dto.RebuildRequestMessage{
		Trigger:     "manual",
		RequestedAt: time.Now(),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if err := c.publisherService.Publish(ctx.Context(), raw); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).
		JSON(serverutils.SuccessResponse("Rebuild queued", dto.RebuildResponse{Status: "queued"}))
}
