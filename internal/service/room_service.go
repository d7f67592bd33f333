package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"amberreview/internal/catalog"
	"amberreview/internal/model"
)

// MaxPlayersPerRoom caps a room's size.
const MaxPlayersPerRoom = 10

const maxNameLength = 24

// RoomService handles the room lifecycle: create, join, leave, and the
// player-scoped state snapshot. Quorum re-evaluation on leave is delegated to
// the game service inside the same critical section that removes the player.
type RoomService struct {
	registry    *Registry
	game        *GameService
	authSvc     *AuthService
	prompts     []model.Prompt
	broadcaster Broadcaster
	now         func() time.Time
}

// NewRoomService creates a new room service.
func NewRoomService(registry *Registry, game *GameService, authSvc *AuthService, prompts []model.Prompt) *RoomService {
	return &RoomService{
		registry: registry,
		game:     game,
		authSvc:  authSvc,
		prompts:  prompts,
		now:      time.Now,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events.
func (s *RoomService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateRoom creates a lobby with the caller as host and returns their
// session handle.
func (s *RoomService) CreateRoom(name string, settings model.Settings) (*model.SessionResponse, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	playerID := NewPlayerID()
	room := model.NewRoom(playerID, name, model.SanitizeSettings(settings), catalog.Shuffle(s.prompts), s.now())
	code := s.registry.Insert(room)

	token, err := s.authSvc.GeneratePlayerToken(code, playerID)
	if err != nil {
		return nil, err
	}

	log.Printf("[room] %s created by %s (%s)", code, name, playerID)
	return &model.SessionResponse{RoomCode: code, PlayerID: playerID, Token: token}, nil
}

// JoinRoom appends a player to a lobby. Names are unique per room,
// case-sensitive.
func (s *RoomService) JoinRoom(code, name string) (*model.SessionResponse, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	playerID := NewPlayerID()
	playerCount := 0
	err = s.registry.WithRoom(code, func(room *model.Room) error {
		if len(room.Players) >= MaxPlayersPerRoom {
			return ErrRoomFull
		}
		if room.Phase != model.PhaseLobby {
			return ErrGameStarted
		}
		for _, p := range room.Players {
			if p.Name == name {
				return ErrNameTaken
			}
		}

		room.Players = append(room.Players, model.Player{ID: playerID, Name: name})
		room.Scores[playerID] = 0
		room.Touch(s.now())
		playerCount = len(room.Players)
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.authSvc.GeneratePlayerToken(code, playerID)
	if err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(code, "player_joined", map[string]interface{}{
			"playerId":    playerID,
			"name":        name,
			"playerCount": playerCount,
		})
	}
	return &model.SessionResponse{RoomCode: code, PlayerID: playerID, Token: token}, nil
}

// LeaveRoom removes a player. The host leaving closes the room (tombstoned so
// late pollers see "closed", not "not found"); the last player leaving
// destroys it silently. Removing a player can retroactively complete the
// submission or vote quorum, which triggers the pending transition here, in
// the same critical section. Leaving is idempotent: an unknown room or player
// is not an error.
func (s *RoomService) LeaveRoom(code, playerID string) error {
	closeReason := ""
	leftName := ""

	err := s.registry.WithRoom(code, func(room *model.Room) error {
		leaving := room.PlayerByID(playerID)
		if leaving == nil {
			return nil
		}

		if room.HostID == playerID {
			room.CancelTimer()
			room.Closed = true
			room.CloseReason = model.CloseReasonHostLeft
			closeReason = room.CloseReason
			return nil
		}

		leftName = leaving.Name
		players := room.Players[:0]
		for _, p := range room.Players {
			if p.ID != playerID {
				players = append(players, p)
			}
		}
		room.Players = players
		delete(room.Scores, playerID)
		delete(room.RoundSubmissions, playerID)
		delete(room.RoundVotes, playerID)
		room.AddNotice(leftName+" left the room.", s.now())
		room.Touch(s.now())

		if len(room.Players) == 0 {
			room.CancelTimer()
			room.Closed = true
			room.CloseReason = model.CloseReasonEmpty
			closeReason = room.CloseReason
			return nil
		}

		if room.Phase == model.PhaseWriting && room.AllSubmitted() {
			s.game.endWritingLocked(room)
		} else if room.Phase == model.PhaseVoting && room.AllVoted() {
			s.game.finalizeRoundLocked(room)
		}
		return nil
	})
	if errors.Is(err, ErrRoomNotFound) || errors.Is(err, ErrRoomClosed) {
		return nil
	}
	if err != nil {
		return err
	}

	if closeReason != "" {
		s.registry.Remove(code)
		if s.broadcaster != nil {
			s.broadcaster.BroadcastToRoom(code, "room_closed", map[string]interface{}{
				"reason": closeReason,
			})
		}
		return nil
	}

	if leftName != "" && s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(code, "player_left", map[string]interface{}{
			"playerId": playerID,
			"name":     leftName,
		})
	}
	return nil
}

// GetState returns the player-scoped snapshot plus the server clock.
func (s *RoomService) GetState(code, playerID string) (*model.StateResponse, error) {
	var view *model.RoomView
	err := s.registry.WithRoom(code, func(room *model.Room) error {
		if !room.HasPlayer(playerID) {
			return ErrNotInRoom
		}
		view = projectRoom(room, playerID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.StateResponse{
		ServerTime: s.now().UnixMilli(),
		Room:       view,
	}, nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if runes := []rune(name); len(runes) > maxNameLength {
		name = string(runes[:maxNameLength])
	}
	return name, nil
}
