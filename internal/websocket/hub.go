package websocket

import (
	"sync"

	"go.uber.org/zap"

	"github.com/vntrieu/deception/internal/games"
)

// Hub maintains the set of active clients per room and fans room updates
// out to them. It implements session.Notifier: states published by a room
// runner are masked per viewer before they leave the process.
type Hub struct {
	// Registered clients by room code -> client set
	rooms map[string]map[*Client]bool

	broadcast  chan *roomUpdate
	register   chan *Client
	unregister chan *Client

	handler MessageHandler
	log     *zap.Logger

	mu sync.RWMutex
}

// MessageHandler processes inbound client messages.
type MessageHandler interface {
	HandleMessage(client *Client, msg *ClientInMessage)
}

// roomUpdate carries one runner publication: a new state (may be nil for
// direct one-shot events) plus events to deliver.
type roomUpdate struct {
	code   string
	state  *games.GameState
	events []games.Event
}

// NewHub creates a hub. The handler may be set later via SetHandler.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan *roomUpdate, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        logger,
	}
}

// SetHandler sets the inbound message handler.
func (h *Hub) SetHandler(handler MessageHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handler = handler
}

func (h *Hub) getHandler() MessageHandler {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.handler
}

// Publish implements session.Notifier.
func (h *Hub) Publish(roomCode string, state *games.GameState, events []games.Event) {
	h.broadcast <- &roomUpdate{code: roomCode, state: state, events: events}
}

// Direct implements session.Notifier: one event, no state change.
func (h *Hub) Direct(roomCode string, ev games.Event) {
	h.broadcast <- &roomUpdate{code: roomCode, events: []games.Event{ev}}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.RoomCode] == nil {
				h.rooms[client.RoomCode] = make(map[*Client]bool)
			}
			h.rooms[client.RoomCode][client] = true
			total := len(h.rooms[client.RoomCode])
			h.mu.Unlock()
			h.log.Info("ws client registered",
				zap.String("room", client.RoomCode),
				zap.String("player", client.PlayerID),
				zap.Int("total", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.RoomCode]; ok {
				if _, ok := room[client]; ok {
					delete(room, client)
					close(client.send)
					if len(room) == 0 {
						delete(h.rooms, client.RoomCode)
					}
				}
			}
			h.mu.Unlock()
			h.log.Info("ws client unregistered",
				zap.String("room", client.RoomCode),
				zap.String("player", client.PlayerID))

		case update := <-h.broadcast:
			h.deliver(update)
		}
	}
}

// deliver sends an update to every client in the room, masking the state
// for each viewer and dropping targeted events meant for someone else.
// Takes the write lock: clients with a full send buffer are evicted here.
func (h *Hub) deliver(update *roomUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, exists := h.rooms[update.code]
	if !exists {
		return
	}
	for client := range room {
		var out []*ServerEnvelope
		if update.state != nil {
			view := games.VisibleState(update.state, client.PlayerID)
			out = append(out, &ServerEnvelope{
				Type:    ServerTypeState,
				Event:   ServerEventState,
				Payload: map[string]interface{}{"state": view},
			})
		}
		for _, ev := range update.events {
			if ev.TargetID != "" && ev.TargetID != client.PlayerID {
				continue
			}
			out = append(out, &ServerEnvelope{Type: ServerTypeEvent, Event: ev.Event, Payload: ev.Payload})
		}
		for _, envelope := range out {
			select {
			case client.send <- envelope:
			default:
				close(client.send)
				delete(room, client)
			}
		}
	}
}

// GetRoomClientCount returns the number of clients in a room.
func (h *Hub) GetRoomClientCount(roomCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room, ok := h.rooms[roomCode]; ok {
		return len(room)
	}
	return 0
}
