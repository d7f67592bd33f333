package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"amberreview/internal/service"
	"amberreview/internal/transport/rest/middleware"
)

// GameHandler handles in-game action endpoints.
type GameHandler struct {
	gameSvc *service.GameService
}

// NewGameHandler creates a new game handler.
func NewGameHandler(gameSvc *service.GameService) *GameHandler {
	return &GameHandler{gameSvc: gameSvc}
}

// Start handles POST /v1/rooms/{code}/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	playerID := middleware.GetPlayerID(r.Context())

	if err := h.gameSvc.StartGame(code, playerID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ReviewRequest is the request body for submitting a review.
type ReviewRequest struct {
	Text string `json:"text"`
}

// Review handles POST /v1/rooms/{code}/review
func (h *GameHandler) Review(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	playerID := middleware.GetPlayerID(r.Context())

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.gameSvc.SubmitReview(code, playerID, req.Text); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// VoteRequest is the request body for submitting a vote.
type VoteRequest struct {
	Ratings map[string]int `json:"ratings"`
}

// Vote handles POST /v1/rooms/{code}/vote
func (h *GameHandler) Vote(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	playerID := middleware.GetPlayerID(r.Context())

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.gameSvc.SubmitVote(code, playerID, req.Ratings); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Advance handles POST /v1/rooms/{code}/advance
func (h *GameHandler) Advance(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	playerID := middleware.GetPlayerID(r.Context())

	if err := h.gameSvc.AdvanceRound(code, playerID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
