package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"amberreview/internal/model"
	"amberreview/internal/service"
	"amberreview/internal/transport/rest/middleware"
)

// RoomHandler handles room lifecycle endpoints.
type RoomHandler struct {
	roomSvc *service.RoomService
}

// NewRoomHandler creates a new room handler.
func NewRoomHandler(roomSvc *service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// CreateRoomRequest is the request body for creating a room.
type CreateRoomRequest struct {
	Name     string         `json:"name"`
	Settings model.Settings `json:"settings"`
}

// Create handles POST /v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.roomSvc.CreateRoom(req.Name, req.Settings)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// JoinRequest is the request body for joining a room.
type JoinRequest struct {
	Name string `json:"name"`
}

// Join handles POST /v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.roomSvc.JoinRoom(code, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// State handles GET /v1/rooms/{code}/state
func (h *RoomHandler) State(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	playerID := middleware.GetPlayerID(r.Context())

	resp, err := h.roomSvc.GetState(code, playerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Leave handles POST /v1/rooms/{code}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	playerID := middleware.GetPlayerID(r.Context())

	if err := h.roomSvc.LeaveRoom(code, playerID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
