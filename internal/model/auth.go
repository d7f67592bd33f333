package model

import "github.com/golang-jwt/jwt/v5"

// PlayerClaims are JWT claims for room-scoped player tokens. The signed token
// is the opaque handle a client holds for the duration of a session.
type PlayerClaims struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
	jwt.RegisteredClaims
}

// SessionResponse is returned after creating or joining a room.
type SessionResponse struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
	Token    string `json:"token"`
}
