package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ashokkumar272/BuddyOnTrain/services"
)

// ChatRelay accepts chat websocket sessions and relays messages between
// online users. Every message is persisted before any relay happens; an
// offline receiver simply finds it later through the history endpoint.
type ChatRelay struct {
	hub      *Hub
	presence Presence
	messages *services.MessageService
}

// NewChatRelay constructs a ChatRelay.
func NewChatRelay(hub *Hub, presence Presence, messages *services.MessageService) *ChatRelay {
	return &ChatRelay{hub: hub, presence: presence, messages: messages}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and runs its read loop until disconnect.
func (c *ChatRelay) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	// The HTTP server's read/write timeouts armed deadlines on this conn
	// before the hijack; a chat session idles far longer than those.
	conn.UnderlyingConn().SetDeadline(time.Time{})

	connID := uuid.New().String()
	c.hub.Add(connID, conn)
	log.Printf("New chat client connected: %s", connID)

	ctx := r.Context()
	joinedUserID := ""

	defer func() {
		if joinedUserID != "" {
			if err := c.presence.Unregister(ctx, joinedUserID); err != nil {
				log.Printf("Failed to unregister presence for %s: %v", joinedUserID, err)
			}
			c.hub.Broadcast(connID, ServerEvent{Event: EventUserOffline, UserID: joinedUserID})
		}
		c.hub.Remove(connID)
		conn.Close()
		log.Printf("Chat client disconnected: %s", connID)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("websocket read error on %s: %v", connID, err)
			}
			return
		}

		var event ClientEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			c.hub.Send(connID, ServerEvent{Event: EventMessageError, Error: "Invalid event payload"})
			continue
		}

		switch event.Event {
		case EventJoinChat:
			if event.UserID == "" {
				continue
			}
			joinedUserID = event.UserID
			if err := c.presence.Register(ctx, event.UserID, connID); err != nil {
				log.Printf("Failed to register presence for %s: %v", event.UserID, err)
				continue
			}
			log.Printf("User %s joined chat on connection %s", event.UserID, connID)
			c.hub.Broadcast(connID, ServerEvent{Event: EventUserOnline, UserID: event.UserID})

		case EventSendMessage:
			if event.Message == nil {
				c.hub.Send(connID, ServerEvent{Event: EventMessageError, Error: "Message payload is required"})
				continue
			}
			c.relay(connID, *event.Message)

		default:
			// Unknown events are dropped silently
		}
	}
}

// relay persists the message, forwards it to the receiver when online and
// confirms storage back to the sender. A persistence failure surfaces only
// to the sender; nothing is relayed and nothing retries.
func (c *ChatRelay) relay(connID string, msg OutgoingMessage) {
	// The read loop's request context dies with the connection; persistence
	// should not.
	ctx := context.Background()

	saved, err := c.messages.Send(ctx, msg.Sender, msg.Receiver, msg.Content)
	if err != nil {
		log.Printf("Error saving message: %v", err)
		c.hub.Send(connID, ServerEvent{Event: EventMessageError, Error: "Failed to send message"})
		return
	}

	receiverConn, online, err := c.presence.Lookup(ctx, msg.Receiver)
	if err != nil {
		log.Printf("Presence lookup failed for %s: %v", msg.Receiver, err)
	}
	if online {
		c.hub.Send(receiverConn, ServerEvent{Event: EventReceiveMessage, Data: saved})
	}

	c.hub.Send(connID, ServerEvent{Event: EventMessageSent, Data: saved})
}
