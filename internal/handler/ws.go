package handler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"livechat-backend/internal/model"
	"livechat-backend/internal/service"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const readDeadline = 60 * time.Second

type WSHandler struct {
	hub     *service.Hub
	chatSvc *service.ChatService
}

func NewWSHandler(hub *service.Hub, chatSvc *service.ChatService) *WSHandler {
	return &WSHandler{hub: hub, chatSvc: chatSvc}
}

// Upgrade accepts the widget's WebSocket connection. Visitors are anonymous;
// there is no token check on this endpoint.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("remote_ip", c.IP())
		return websocket.New(h.handleConnection)(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *WSHandler) handleConnection(c *websocket.Conn) {
	remoteIP, _ := c.Locals("remote_ip").(string)

	client := service.NewClient(c)
	defer h.hub.Leave(client)

	// Writer goroutine; exits when Leave closes the Send channel
	go func() {
		defer c.Close()
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}()

	c.SetReadDeadline(time.Now().Add(readDeadline))
	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			break
		}
		c.SetReadDeadline(time.Now().Add(readDeadline))

		var event model.WSEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			continue
		}

		switch event.Type {
		case model.EventPing:
			client.Notify(model.EventPong, nil)

		case model.EventJoinConversation:
			var req model.JoinConversationRequest
			if err := json.Unmarshal(event.Data, &req); err != nil {
				client.Notify(model.EventError, model.WSError{Message: "Invalid join payload"})
				continue
			}
			if req.Metadata.IPAddress == "" {
				req.Metadata.IPAddress = remoteIP
			}
			if err := h.chatSvc.Join(context.Background(), client, req); err != nil {
				// Store failures on join are connection-level: log and drop
				log.Printf("[WS] join failed: %v", err)
				return
			}

		case model.EventSendMessage:
			var req model.SendMessageRequest
			if err := json.Unmarshal(event.Data, &req); err != nil {
				client.Notify(model.EventError, model.WSError{Message: "Invalid message payload"})
				continue
			}
			if err := h.chatSvc.SendMessage(context.Background(), req); err != nil {
				// Reported to the sending session only, never the room
				log.Printf("[WS] send failed: %v", err)
				client.Notify(model.EventError, model.WSError{Message: "Failed to process message"})
			}

		default:
			log.Printf("[WS] unknown event type %q", event.Type)
		}
	}
}
