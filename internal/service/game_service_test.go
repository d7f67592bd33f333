package service

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amberreview/internal/catalog"
	"amberreview/internal/model"
)

type recordedEvent struct {
	Room    string
	Type    string
	Payload interface{}
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) BroadcastToRoom(roomCode, msgType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Room: roomCode, Type: msgType, Payload: payload})
}

func (r *eventRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type gameFixture struct {
	registry *Registry
	rooms    *RoomService
	game     *GameService
	events   *eventRecorder
}

// newGameFixture wires the services with a reveal delay long enough that no
// timer fires during a test; reveal -> voting is driven manually.
func newGameFixture() *gameFixture {
	reg := NewRegistry(6 * time.Hour)
	auth := NewAuthService("test-secret")
	game := NewGameService(reg, catalog.Default, time.Hour)
	rooms := NewRoomService(reg, game, auth, catalog.Default)

	rec := &eventRecorder{}
	game.SetBroadcaster(rec)
	rooms.SetBroadcaster(rec)

	return &gameFixture{registry: reg, rooms: rooms, game: game, events: rec}
}

func (f *gameFixture) createRoom(t *testing.T, hostName string, settings model.Settings) (code, hostID string) {
	t.Helper()
	sess, err := f.rooms.CreateRoom(hostName, settings)
	require.NoError(t, err)
	return sess.RoomCode, sess.PlayerID
}

func (f *gameFixture) join(t *testing.T, code, name string) string {
	t.Helper()
	sess, err := f.rooms.JoinRoom(code, name)
	require.NoError(t, err)
	return sess.PlayerID
}

func (f *gameFixture) inspect(t *testing.T, code string, fn func(room *model.Room)) {
	t.Helper()
	require.NoError(t, f.registry.WithRoom(code, func(room *model.Room) error {
		fn(room)
		return nil
	}))
}

func (f *gameFixture) phase(t *testing.T, code string) model.Phase {
	t.Helper()
	var phase model.Phase
	f.inspect(t, code, func(room *model.Room) { phase = room.Phase })
	return phase
}

func (f *gameFixture) timerGen(t *testing.T, code string) uint64 {
	t.Helper()
	var gen uint64
	f.inspect(t, code, func(room *model.Room) { gen = room.TimerGen })
	return gen
}

// elapseReveal drives reveal -> voting the way the reveal timer would.
func (f *gameFixture) elapseReveal(t *testing.T, code string) {
	t.Helper()
	f.game.onRevealElapsed(code, f.timerGen(t, code))
}

func TestStartGameGuards(t *testing.T) {
	f := newGameFixture()
	code, hostID := f.createRoom(t, "Ana", model.Settings{})

	assert.ErrorIs(t, f.game.StartGame(code, hostID), ErrNotEnoughPlayers)

	guestID := f.join(t, code, "Ben")
	assert.ErrorIs(t, f.game.StartGame(code, guestID), ErrNotHost)

	require.NoError(t, f.game.StartGame(code, hostID))
	assert.Equal(t, model.PhaseWriting, f.phase(t, code))

	assert.ErrorIs(t, f.game.StartGame(code, hostID), ErrGameStarted)
}

func TestFullGameFlow(t *testing.T) {
	f := newGameFixture()
	code, hostID := f.createRoom(t, "Ana", model.Settings{RoundCount: 2})
	guestID := f.join(t, code, "Ben")

	require.NoError(t, f.game.StartGame(code, hostID))

	f.inspect(t, code, func(room *model.Room) {
		assert.Equal(t, model.PhaseWriting, room.Phase)
		assert.Equal(t, 0, room.RoundIndex)
		assert.NotNil(t, room.CurrentPrompt)
		assert.NotNil(t, room.WritingDeadline)
	})

	// Submission quorum short-circuits the writing deadline.
	require.NoError(t, f.game.SubmitReview(code, hostID, "five stars, would clap again"))
	assert.Equal(t, model.PhaseWriting, f.phase(t, code))
	require.NoError(t, f.game.SubmitReview(code, guestID, "deeply unsettling product"))
	assert.Equal(t, model.PhaseReveal, f.phase(t, code))

	f.inspect(t, code, func(room *model.Room) {
		assert.NotNil(t, room.RevealDeadline)
	})

	// Votes are rejected until the reveal delay has run its course.
	err := f.game.SubmitVote(code, hostID, map[string]int{guestID: 5})
	assert.ErrorIs(t, err, ErrWrongPhase)

	f.elapseReveal(t, code)
	assert.Equal(t, model.PhaseVoting, f.phase(t, code))

	// Vote quorum scores the round.
	require.NoError(t, f.game.SubmitVote(code, hostID, map[string]int{guestID: 5}))
	assert.Equal(t, model.PhaseVoting, f.phase(t, code))
	require.NoError(t, f.game.SubmitVote(code, guestID, map[string]int{hostID: 3}))
	assert.Equal(t, model.PhaseResults, f.phase(t, code))

	f.inspect(t, code, func(room *model.Room) {
		require.NotNil(t, room.LastRoundResult)
		assert.Equal(t, 1, room.LastRoundResult.RoundNumber)
		assert.Equal(t, 5, room.Scores[guestID])
		assert.Equal(t, 3, room.Scores[hostID])
	})

	// Host advances into round two.
	assert.ErrorIs(t, f.game.AdvanceRound(code, guestID), ErrNotHost)
	require.NoError(t, f.game.AdvanceRound(code, hostID))

	f.inspect(t, code, func(room *model.Room) {
		assert.Equal(t, model.PhaseWriting, room.Phase)
		assert.Equal(t, 1, room.RoundIndex)
		assert.Empty(t, room.RoundSubmissions)
		assert.Empty(t, room.RoundVotes)
	})

	require.NoError(t, f.game.SubmitReview(code, hostID, "round two take"))
	require.NoError(t, f.game.SubmitReview(code, guestID, "still unsettled"))
	f.elapseReveal(t, code)
	require.NoError(t, f.game.SubmitVote(code, hostID, map[string]int{guestID: 2}))
	require.NoError(t, f.game.SubmitVote(code, guestID, map[string]int{hostID: 4}))
	assert.Equal(t, model.PhaseResults, f.phase(t, code))

	// Last round: advancing finalizes the game.
	require.NoError(t, f.game.AdvanceRound(code, hostID))
	f.inspect(t, code, func(room *model.Room) {
		assert.Equal(t, model.PhaseFinal, room.Phase)
		require.Len(t, room.FinalRanking, 2)
		assert.Equal(t, hostID, room.FinalRanking[0].PlayerID)
		assert.Equal(t, 7, room.FinalRanking[0].TotalPoints)
		assert.Equal(t, guestID, room.FinalRanking[1].PlayerID)
		assert.Equal(t, 7, room.FinalRanking[1].TotalPoints)
		assert.Len(t, room.RoundHistory, 2)
	})

	assert.Contains(t, f.events.types(), "phase_changed")
}

func TestSubmitReviewValidation(t *testing.T) {
	f := newGameFixture()
	code, hostID := f.createRoom(t, "Ana", model.Settings{CharLimit: 10})
	f.join(t, code, "Ben")

	// Phase guard applies before the game starts.
	assert.ErrorIs(t, f.game.SubmitReview(code, hostID, "early"), ErrWrongPhase)

	require.NoError(t, f.game.StartGame(code, hostID))

	assert.ErrorIs(t, f.game.SubmitReview(code, hostID, "   "), ErrEmptyReview)
	assert.ErrorIs(t, f.game.SubmitReview(code, hostID, "way past the ten char limit"), ErrTextTooLong)
	assert.ErrorIs(t, f.game.SubmitReview(code, "p_stranger", "hi"), ErrNotInRoom)

	require.NoError(t, f.game.SubmitReview(code, hostID, "short"))
}

func TestSubmitReviewOverwritesAndTruncates(t *testing.T) {
	f := newGameFixture()
	code, hostID := f.createRoom(t, "Ana", model.Settings{})
	guestID := f.join(t, code, "Ben")
	require.NoError(t, f.game.StartGame(code, hostID))

	require.NoError(t, f.game.SubmitReview(code, hostID, "first draft"))
	require.NoError(t, f.game.SubmitReview(code, hostID, "second draft"))

	f.inspect(t, code, func(room *model.Room) {
		assert.Equal(t, model.PhaseWriting, room.Phase)
		assert.Equal(t, "second draft", room.RoundSubmissions[hostID])
	})

	// With no room charLimit, submissions are still hard-capped.
	long := strings.Repeat("x", 700)
	require.NoError(t, f.game.SubmitReview(code, guestID, long))
	f.inspect(t, code, func(room *model.Room) {
		assert.Len(t, room.RoundSubmissions[guestID], 500)
	})
}

func TestSubmitVoteValidation(t *testing.T) {
	f := newGameFixture()
	code, hostID := f.createRoom(t, "Ana", model.Settings{})
	guestID := f.join(t, code, "Ben")
	thirdID := f.join(t, code, "Cleo")
	require.NoError(t, f.game.StartGame(code, hostID))

	require.NoError(t, f.game.SubmitReview(code, hostID, "a"))
	require.NoError(t, f.game.SubmitReview(code, guestID, "b"))
	require.NoError(t, f.game.SubmitReview(code, thirdID, "c"))
	f.elapseReveal(t, code)

	// Missing a rating for a submitter.
	err := f.game.SubmitVote(code, hostID, map[string]int{guestID: 3})
	assert.ErrorIs(t, err, ErrInvalidRatings)

	// Out-of-range rating.
	err = f.game.SubmitVote(code, hostID, map[string]int{guestID: 3, thirdID: 6})
	assert.ErrorIs(t, err, ErrInvalidRatings)

	err = f.game.SubmitVote(code, hostID, map[string]int{guestID: 0, thirdID: 2})
	assert.ErrorIs(t, err, ErrInvalidRatings)

	assert.ErrorIs(t, f.game.SubmitVote(code, "p_stranger", nil), ErrNotInRoom)

	require.NoError(t, f.game.SubmitVote(code, hostID, map[string]int{guestID: 3, thirdID: 4}))
}

func TestWritingDeadlineForcesReveal(t *testing.T) {
	f := newGameFixture()
	code, hostID := f.createRoom(t, "Ana", model.Settings{})
	f.join(t, code, "Ben")
	require.NoError(t, f.game.StartGame(code, hostID))

	require.NoError(t, f.game.SubmitReview(code, hostID, "only one in"))

	// Deadline fires with one submission outstanding.
	f.game.onWritingDeadline(code, f.timerGen(t, code))
	assert.Equal(t, model.PhaseReveal, f.phase(t, code))

	f.inspect(t, code, func(room *model.Room) {
		assert.Len(t, room.RoundSubmissions, 1)
	})
}

func TestStaleTimerCallbacksAreNoOps(t *testing.T) {
	f := newGameFixture()
	code, hostID := f.createRoom(t, "Ana", model.Settings{})
	guestID := f.join(t, code, "Ben")
	require.NoError(t, f.game.StartGame(code, hostID))

	staleGen := f.timerGen(t, code)

	// Quorum beats the deadline; the armed callback is now stale.
	require.NoError(t, f.game.SubmitReview(code, hostID, "a"))
	require.NoError(t, f.game.SubmitReview(code, guestID, "b"))
	require.Equal(t, model.PhaseReveal, f.phase(t, code))

	f.game.onWritingDeadline(code, staleGen)
	assert.Equal(t, model.PhaseReveal, f.phase(t, code))

	// Firing the same reveal generation twice only transitions once.
	revealGen := f.timerGen(t, code)
	f.game.onRevealElapsed(code, revealGen)
	require.Equal(t, model.PhaseVoting, f.phase(t, code))
	f.game.onRevealElapsed(code, revealGen)
	assert.Equal(t, model.PhaseVoting, f.phase(t, code))
}

func TestTimerCallbackOnRemovedRoom(t *testing.T) {
	f := newGameFixture()
	code, hostID := f.createRoom(t, "Ana", model.Settings{})
	f.join(t, code, "Ben")
	require.NoError(t, f.game.StartGame(code, hostID))

	gen := f.timerGen(t, code)
	require.NoError(t, f.rooms.LeaveRoom(code, hostID))

	// Must not panic or resurrect the room.
	f.game.onWritingDeadline(code, gen)
	assert.Equal(t, 0, f.registry.Len())
}
