package service

import (
	"strings"
	"time"

	"amberreview/internal/catalog"
	"amberreview/internal/model"
)

// Submissions are cut to this length regardless of the room's charLimit.
const maxReviewLength = 500

// GameService drives the per-room phase state machine: round starts, deadline
// timers, quorum short-circuits, vote aggregation. Every mutation runs inside
// the registry's per-room critical section; timer callbacks re-enter through
// the same path and re-check phase and timer generation before acting.
type GameService struct {
	registry    *Registry
	prompts     []model.Prompt
	revealDelay time.Duration
	broadcaster Broadcaster
	now         func() time.Time
}

// NewGameService creates a new game service.
func NewGameService(registry *Registry, prompts []model.Prompt, revealDelay time.Duration) *GameService {
	return &GameService{
		registry:    registry,
		prompts:     prompts,
		revealDelay: revealDelay,
		now:         time.Now,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events.
func (s *GameService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// StartGame begins the first round. Host only, lobby only, two players
// minimum. Scores, history and the prompt pool are reset so a room could be
// restarted from a fresh lobby.
func (s *GameService) StartGame(code, playerID string) error {
	return s.registry.WithRoom(code, func(room *model.Room) error {
		if room.HostID != playerID {
			return ErrNotHost
		}
		if room.Phase != model.PhaseLobby {
			return ErrGameStarted
		}
		if len(room.Players) < 2 {
			return ErrNotEnoughPlayers
		}

		room.PromptPool = catalog.Shuffle(s.prompts)
		room.RoundHistory = nil
		room.RoundIndex = -1
		room.LastRoundResult = nil
		for _, p := range room.Players {
			room.Scores[p.ID] = 0
		}

		s.startRoundLocked(room)
		return nil
	})
}

// SubmitReview stores the player's submission for the current round,
// overwriting any prior one. Completing the submission quorum advances the
// room to reveal immediately.
func (s *GameService) SubmitReview(code, playerID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyReview
	}

	return s.registry.WithRoom(code, func(room *model.Room) error {
		if room.Phase != model.PhaseWriting {
			return ErrWrongPhase
		}
		if !room.HasPlayer(playerID) {
			return ErrNotInRoom
		}

		runes := []rune(text)
		if limit := room.Settings.CharLimit; limit > 0 && len(runes) > limit {
			return ErrTextTooLong
		}
		if len(runes) > maxReviewLength {
			text = string(runes[:maxReviewLength])
		}

		room.RoundSubmissions[playerID] = text
		room.Touch(s.now())

		if room.AllSubmitted() {
			s.endWritingLocked(room)
		}
		return nil
	})
}

// SubmitVote stores the player's ratings for the round. A rating 1-5 must be
// present for every other current player who submitted. Completing the vote
// quorum scores the round and advances to results.
func (s *GameService) SubmitVote(code, playerID string, ratings map[string]int) error {
	return s.registry.WithRoom(code, func(room *model.Room) error {
		if room.Phase != model.PhaseVoting {
			return ErrWrongPhase
		}
		if !room.HasPlayer(playerID) {
			return ErrNotInRoom
		}

		for _, p := range room.Players {
			if p.ID == playerID {
				continue
			}
			if _, submitted := room.RoundSubmissions[p.ID]; !submitted {
				continue
			}
			score, ok := ratings[p.ID]
			if !ok || score < 1 || score > 5 {
				return ErrInvalidRatings
			}
		}

		room.RoundVotes[playerID] = model.Vote{Ratings: ratings}
		room.Touch(s.now())

		if room.AllVoted() {
			s.finalizeRoundLocked(room)
		}
		return nil
	})
}

// AdvanceRound moves the room out of results: into the next round, or into
// final once the configured round count is exhausted. Host only.
func (s *GameService) AdvanceRound(code, playerID string) error {
	return s.registry.WithRoom(code, func(room *model.Room) error {
		if room.HostID != playerID {
			return ErrNotHost
		}
		if room.Phase != model.PhaseResults {
			return ErrWrongPhase
		}

		if room.RoundIndex+1 >= room.Settings.RoundCount {
			s.finalizeGameLocked(room)
		} else {
			s.startRoundLocked(room)
		}
		return nil
	})
}

// startRoundLocked performs the round-start transition out of lobby or
// results.
func (s *GameService) startRoundLocked(room *model.Room) {
	now := s.now()
	room.RoundIndex++
	room.Phase = model.PhaseWriting
	room.RoundSubmissions = make(map[string]string)
	room.RoundVotes = make(map[string]model.Vote)
	room.RevealDeadline = nil
	room.CurrentPrompt = &room.PromptPool[room.RoundIndex%len(room.PromptPool)]

	limit := time.Duration(room.Settings.TimeLimitSec) * time.Second
	deadline := now.Add(limit)
	room.WritingDeadline = &deadline
	room.Touch(now)

	code := room.Code
	room.ArmTimer(limit, func(gen uint64) { s.onWritingDeadline(code, gen) })
	s.notifyPhase(room)
}

// onWritingDeadline fires when the writing time limit elapses. The quorum may
// have advanced the phase already, or the timer may have been superseded; both
// make this a no-op.
func (s *GameService) onWritingDeadline(code string, gen uint64) {
	_ = s.registry.WithRoom(code, func(room *model.Room) error {
		if !room.TimerValid(gen) || room.Phase != model.PhaseWriting {
			return nil
		}
		s.endWritingLocked(room)
		return nil
	})
}

// endWritingLocked performs writing -> reveal. Callers guarantee the room is
// in writing.
func (s *GameService) endWritingLocked(room *model.Room) {
	now := s.now()
	room.Phase = model.PhaseReveal
	deadline := now.Add(s.revealDelay)
	room.RevealDeadline = &deadline
	room.Touch(now)

	code := room.Code
	room.ArmTimer(s.revealDelay, func(gen uint64) { s.onRevealElapsed(code, gen) })
	s.notifyPhase(room)
}

// onRevealElapsed fires after the fixed reveal delay. There is deliberately no
// quorum short-circuit into voting: reveal guarantees a minimum simultaneous
// display time.
func (s *GameService) onRevealElapsed(code string, gen uint64) {
	_ = s.registry.WithRoom(code, func(room *model.Room) error {
		if !room.TimerValid(gen) || room.Phase != model.PhaseReveal {
			return nil
		}
		s.startVotingLocked(room)
		return nil
	})
}

// startVotingLocked performs reveal -> voting. Voting has no deadline; it
// completes on quorum only.
func (s *GameService) startVotingLocked(room *model.Room) {
	room.Phase = model.PhaseVoting
	room.RevealDeadline = nil
	room.CancelTimer()
	room.Touch(s.now())
	s.notifyPhase(room)
}

// finalizeRoundLocked scores the round and moves to results.
func (s *GameService) finalizeRoundLocked(room *model.Room) {
	result := scoreRound(room)
	room.LastRoundResult = result
	room.RoundHistory = append(room.RoundHistory, *result)
	room.Phase = model.PhaseResults
	room.CancelTimer()
	room.Touch(s.now())
	s.notifyPhase(room)
}

// finalizeGameLocked computes the final ranking and parks the room in its
// terminal phase.
func (s *GameService) finalizeGameLocked(room *model.Room) {
	room.Phase = model.PhaseFinal
	room.FinalRanking = finalRanking(room)
	room.CancelTimer()
	room.Touch(s.now())
	s.notifyPhase(room)
}

func (s *GameService) notifyPhase(room *model.Room) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToRoom(room.Code, "phase_changed", map[string]interface{}{
		"phase":           room.Phase,
		"roundIndex":      room.RoundIndex,
		"submissionCount": len(room.RoundSubmissions),
		"votingCount":     len(room.RoundVotes),
	})
}
