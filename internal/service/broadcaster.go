package service

// Broadcaster pushes room events to connected clients. Implemented by the
// WebSocket hub; a nil broadcaster is tolerated everywhere.
type Broadcaster interface {
	BroadcastToRoom(roomCode string, msgType string, payload interface{})
}
