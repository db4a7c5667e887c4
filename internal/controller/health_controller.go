package controller

import (
	"github.com/gofiber/fiber/v2"

	"ai-support-chatbot-be/internal/dto"
	"ai-support-chatbot-be/internal/pkg/serverutils"
	"ai-support-chatbot-be/internal/service"
	"ai-support-chatbot-be/pkg/watcher"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	knowledgeService service.IKnowledgeService
	catalogWatcher   *watcher.Watcher
}

func NewHealthController(knowledgeService service.IKnowledgeService, catalogWatcher *watcher.Watcher) IHealthController {
	return &healthController{
		knowledgeService: knowledgeService,
		catalogWatcher:   catalogWatcher,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/health/v1")
	h.Get("", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	res := dto.HealthResponse{
		Status:       "ok",
		IndexVersion: c.knowledgeService.IndexVersion(),
	}
	if c.catalogWatcher != nil {
		res.Watcher = c.catalogWatcher.State()
	}
	if res.IndexVersion == "" {
		// No index published yet means answers would be fallbacks only.
		res.Status = "degraded"
	}
	return ctx.JSON(serverutils.SuccessResponse("Health", res))
}
