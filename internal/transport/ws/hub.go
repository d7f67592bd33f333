package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message.
type MessageType string

const (
	MsgPlayerJoined MessageType = "player_joined"
	MsgPlayerLeft   MessageType = "player_left"
	MsgPhaseChanged MessageType = "phase_changed"
	MsgRoomClosed   MessageType = "room_closed"
)

// Message is the WebSocket envelope format.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for rooms. Events carry phase and counts
// only; the player-scoped room state is always fetched over the REST state
// endpoint so the view projector stays the single filtering point.
type Hub struct {
	conns map[string]map[string]*Connection // roomCode -> playerID -> conn

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *broadcastMessage
}

// Connection represents one player's WebSocket connection.
type Connection struct {
	RoomCode string
	PlayerID string
	Send     chan []byte
	Hub      *Hub
}

type broadcastMessage struct {
	RoomCode string
	Message  *Message
}

// NewHub creates a new WebSocket hub and starts its dispatch loop.
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *broadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.RoomCode] == nil {
				h.conns[conn.RoomCode] = make(map[string]*Connection)
			}
			h.conns[conn.RoomCode][conn.PlayerID] = conn
			h.mu.Unlock()
			log.Printf("[ws] player %s connected to room %s", conn.PlayerID, conn.RoomCode)

		case conn := <-h.unregister:
			h.mu.Lock()
			if players, ok := h.conns[conn.RoomCode]; ok {
				if existing, ok := players[conn.PlayerID]; ok && existing == conn {
					delete(players, conn.PlayerID)
					close(conn.Send)
					if len(players) == 0 {
						delete(h.conns, conn.RoomCode)
					}
					log.Printf("[ws] player %s disconnected from room %s", conn.PlayerID, conn.RoomCode)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for _, conn := range h.conns[msg.RoomCode] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToRoom sends a message to every connected player in a room
// (implements service.Broadcaster).
func (h *Hub) BroadcastToRoom(roomCode string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &broadcastMessage{
		RoomCode: roomCode,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
