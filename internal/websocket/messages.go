package websocket

// ClientInMessage is the envelope for messages from client to server.
// Types: "action" | "sync_state". Actions carry the engine action name and
// its parameters.
type ClientInMessage struct {
	Type          string                 `json:"type"`
	Action        string                 `json:"action,omitempty"`
	CorrelationID string                 `json:"correlation_id,omitempty"`
	Payload       map[string]interface{} `json:"payload,omitempty"`
}

// ServerEnvelope is the envelope for messages from server to client.
// Type: "event" | "state" | "error".
type ServerEnvelope struct {
	Type          string                 `json:"type"`
	Event         string                 `json:"event,omitempty"`
	CorrelationID string                 `json:"correlation_id,omitempty"`
	Payload       map[string]interface{} `json:"payload,omitempty"`
}

// Client message types.
const (
	ClientMessageTypeAction    = "action"
	ClientMessageTypeSyncState = "sync_state"
)

// Server envelope types.
const (
	ServerTypeEvent = "event"
	ServerTypeState = "state"
	ServerTypeError = "error"
)

// ServerEventState names the personalized snapshot event.
const ServerEventState = "state"

// MaxChatMessageLength is the maximum allowed length for a chat message.
const MaxChatMessageLength = 2000

// MaxClientMessageTypeLength limits the "type" field to prevent abuse.
const MaxClientMessageTypeLength = 64

// ValidClientMessageTypes are the only allowed values for ClientInMessage.Type.
var ValidClientMessageTypes = map[string]bool{
	ClientMessageTypeAction:    true,
	ClientMessageTypeSyncState: true,
}
