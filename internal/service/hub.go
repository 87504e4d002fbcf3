package service

import (
	"encoding/json"
	"log"
	"sync"

	"livechat-backend/internal/model"

	"github.com/gofiber/contrib/websocket"
)

// Client is one connected widget session. The Send channel is drained by a
// writer goroutine owned by the WS handler; the hub and chat service only
// ever enqueue.
type Client struct {
	Conn           *websocket.Conn
	VisitorID      string
	ConversationID string
	Send           chan []byte
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}
}

// Notify queues a single event for this client. Full buffers drop the event
// rather than block.
func (c *Client) Notify(eventType string, payload any) {
	data := encodeEvent(eventType, payload)
	if data == nil {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// Hub is the process-local broadcast registry: conversation id → set of
// subscribed sessions. All mutation happens under the mutex; there is no
// cross-process fan-out.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
	}
}

// Join subscribes the client to a conversation's room. A client belongs to
// at most one room; re-joining moves it.
func (h *Hub) Join(client *Client, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.ConversationID != "" && client.ConversationID != conversationID {
		h.removeLocked(client)
	}

	room, ok := h.rooms[conversationID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[conversationID] = room
	}
	room[client] = struct{}{}
	client.ConversationID = conversationID
	log.Printf("[Hub] session joined conversation %s (room size: %d)", conversationID, len(room))
}

// Leave removes the client from its room and closes its send channel. Safe
// to call for clients that never joined.
func (h *Hub) Leave(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(client)
	close(client.Send)
}

func (h *Hub) removeLocked(client *Client) {
	room, ok := h.rooms[client.ConversationID]
	if !ok {
		return
	}
	if _, member := room[client]; !member {
		return
	}
	delete(room, client)
	if len(room) == 0 {
		delete(h.rooms, client.ConversationID)
	}
}

// Broadcast delivers an event to every session subscribed to the
// conversation. Sessions with full buffers are skipped, not blocked on.
func (h *Hub) Broadcast(conversationID, eventType string, payload any) {
	data := encodeEvent(eventType, payload)
	if data == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[conversationID] {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// RoomSize reports the number of sessions subscribed to a conversation.
func (h *Hub) RoomSize(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[conversationID])
}

// OnlineCount reports the number of connected sessions across all rooms.
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, room := range h.rooms {
		total += len(room)
	}
	return total
}

func encodeEvent(eventType string, payload any) []byte {
	event := model.WSEvent{Type: eventType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Printf("[Hub] marshal %s payload: %v", eventType, err)
			return nil
		}
		event.Data = data
	}
	out, err := json.Marshal(event)
	if err != nil {
		return nil
	}
	return out
}
