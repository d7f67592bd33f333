package model

import "time"

// Close reasons recorded when a room is removed from the registry.
const (
	CloseReasonHostLeft = "host_left"
	CloseReasonEmpty    = "empty"
	CloseReasonExpired  = "expired"
)

// Settings are fixed at room creation.
type Settings struct {
	TimeLimitSec int `json:"timeLimitSec"`
	RoundCount   int `json:"roundCount"`
	CharLimit    int `json:"charLimit"` // 0 = unlimited
}

// SanitizeSettings clamps settings into their allowed ranges, falling back to
// defaults for out-of-range or missing values.
func SanitizeSettings(in Settings) Settings {
	return Settings{
		TimeLimitSec: clamp(in.TimeLimitSec, 60, 300, 120),
		RoundCount:   clamp(in.RoundCount, 1, 10, 5),
		CharLimit:    clamp(in.CharLimit, 0, 400, 0),
	}
}

func clamp(v, min, max, fallback int) int {
	if v == 0 {
		return fallback
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Player is one participant in a room.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Vote holds one player's ratings for the current round, keyed by target
// player id. Ratings are integers 1-5.
type Vote struct {
	Ratings map[string]int `json:"ratings"`
}

// Review is one scored submission in a round result table.
type Review struct {
	PlayerID    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	Text        string `json:"text"`
	RoundPoints int    `json:"roundPoints"`
	TotalPoints int    `json:"totalPoints"`
}

// RoundResult is the snapshot produced when a round is scored.
type RoundResult struct {
	RoundNumber int      `json:"roundNumber"`
	Prompt      *Prompt  `json:"prompt"`
	Reviews     []Review `json:"reviews"`
}

// FinalRank is one entry of the end-of-game ranking.
type FinalRank struct {
	PlayerID    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	TotalPoints int    `json:"totalPoints"`
}

// Notice is a short broadcast message shown once per id by clients.
type Notice struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	At   int64  `json:"at"`
}

// Room is the aggregate root for one game session. All fields are guarded by
// the registry's per-room critical section; nothing here locks on its own.
type Room struct {
	Code    string
	HostID  string
	Phase   Phase
	Players []Player // insertion order = join order
	Scores  map[string]int

	Settings      Settings
	RoundIndex    int // -1 before the first round
	PromptPool    []Prompt
	CurrentPrompt *Prompt

	RoundSubmissions map[string]string
	RoundVotes       map[string]Vote

	WritingDeadline *time.Time
	RevealDeadline  *time.Time

	LastRoundResult *RoundResult
	RoundHistory    []RoundResult
	FinalRanking    []FinalRank

	NoticeSeq    int
	LatestNotice *Notice

	// Pending phase timer. TimerGen increments whenever the timer is armed or
	// cancelled, so a stale callback can recognize it has been superseded.
	Timer    *time.Timer
	TimerGen uint64

	// Set when the room leaves the registry; operations that raced the removal
	// observe it instead of mutating a dead room.
	Closed      bool
	CloseReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRoom creates a room in the lobby phase with its creator as host.
func NewRoom(hostID, hostName string, settings Settings, pool []Prompt, now time.Time) *Room {
	return &Room{
		HostID:           hostID,
		Phase:            PhaseLobby,
		Players:          []Player{{ID: hostID, Name: hostName}},
		Scores:           map[string]int{hostID: 0},
		Settings:         settings,
		RoundIndex:       -1,
		PromptPool:       pool,
		RoundSubmissions: make(map[string]string),
		RoundVotes:       make(map[string]Vote),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Touch records a mutation for idle-expiry purposes.
func (r *Room) Touch(now time.Time) {
	r.UpdatedAt = now
}

// HasPlayer reports whether the given id is currently in the room.
func (r *Room) HasPlayer(id string) bool {
	return r.PlayerByID(id) != nil
}

// PlayerByID returns the player with the given id, or nil.
func (r *Room) PlayerByID(id string) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// AllSubmitted reports whether every currently present player has a submission
// for this round.
func (r *Room) AllSubmitted() bool {
	for _, p := range r.Players {
		if _, ok := r.RoundSubmissions[p.ID]; !ok {
			return false
		}
	}
	return true
}

// AllVoted reports whether every currently present player who submitted this
// round has cast a vote. Non-submitters may vote but never hold up the round.
func (r *Room) AllVoted() bool {
	for _, p := range r.Players {
		if _, submitted := r.RoundSubmissions[p.ID]; !submitted {
			continue
		}
		if _, ok := r.RoundVotes[p.ID]; !ok {
			return false
		}
	}
	return true
}

// AddNotice replaces the latest notice with a new one.
func (r *Room) AddNotice(text string, now time.Time) {
	r.NoticeSeq++
	r.LatestNotice = &Notice{ID: r.NoticeSeq, Text: text, At: now.UnixMilli()}
}

// ArmTimer cancels any pending timer and schedules fire after d. The callback
// receives the generation it was armed with; it must re-check the generation
// and the phase inside the room's critical section before acting.
func (r *Room) ArmTimer(d time.Duration, fire func(gen uint64)) {
	r.CancelTimer()
	gen := r.TimerGen
	r.Timer = time.AfterFunc(d, func() { fire(gen) })
}

// CancelTimer unconditionally stops the pending timer, if any, and bumps the
// generation so an already-fired callback becomes a no-op.
func (r *Room) CancelTimer() {
	if r.Timer != nil {
		r.Timer.Stop()
		r.Timer = nil
	}
	r.TimerGen++
}

// TimerValid reports whether a callback armed with gen is still the room's
// pending timer.
func (r *Room) TimerValid(gen uint64) bool {
	return r.TimerGen == gen
}
