package websocket

import (
	"context"

	"github.com/gofiber/websocket/v2"

	"ai-support-chatbot-be/internal/dto"
	"ai-support-chatbot-be/internal/pkg/logger"
	"ai-support-chatbot-be/internal/service"
)

// InboundMessage is what chat bridges (WhatsApp, Twitter relays) send
// over the socket.
type InboundMessage struct {
	SenderId string `json:"sender_id"`
	Body     string `json:"body"`
}

type OutboundMessage struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Handler serves a persistent chat connection. Each inbound message is
// answered in-order on the same socket.
type Handler struct {
	assistantService service.IAssistantService
	log              logger.ILogger
}

func NewHandler(assistantService service.IAssistantService, log logger.ILogger) *Handler {
	return &Handler{
		assistantService: assistantService,
		log:              log,
	}
}

func (h *Handler) Serve(c *websocket.Conn) {
	for {
		var msg InboundMessage
		if err := c.ReadJSON(&msg); err != nil {
			// Normal close or broken peer, either way we are done.
			return
		}

		if msg.SenderId == "" || msg.Body == "" {
			_ = c.WriteJSON(OutboundMessage{Error: "sender_id and body are required"})
			continue
		}

		req := &dto.AskRequest{
			Question: msg.Body,
			UserId:   msg.SenderId,
		}
		res, err := h.assistantService.Ask(context.Background(), req)
		if err != nil {
			h.log.Error("websocket", "failed to answer message", map[string]interface{}{
				"error":     err.Error(),
				"sender_id": msg.SenderId,
			})
			_ = c.WriteJSON(OutboundMessage{Error: "failed to answer, try again"})
			continue
		}

		if err := c.WriteJSON(OutboundMessage{Response: res.Response}); err != nil {
			return
		}
	}
}
