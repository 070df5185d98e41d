package ws

// Client-to-server and server-to-client event names.
const (
	EventJoinChat       = "joinChat"
	EventSendMessage    = "sendMessage"
	EventReceiveMessage = "receiveMessage"
	EventMessageSent    = "messageSent"
	EventMessageError   = "messageError"
	EventUserOnline     = "userOnline"
	EventUserOffline    = "userOffline"
)

// ClientEvent is an inbound websocket frame.
type ClientEvent struct {
	Event string `json:"event"`
	// UserID accompanies joinChat.
	UserID string `json:"userId,omitempty"`
	// Message accompanies sendMessage.
	Message *OutgoingMessage `json:"message,omitempty"`
}

// OutgoingMessage is the sendMessage payload.
type OutgoingMessage struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Content  string `json:"content"`
}

// ServerEvent is an outbound websocket frame.
type ServerEvent struct {
	Event  string `json:"event"`
	UserID string `json:"userId,omitempty"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}
