package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeSettings(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{
			name: "zero values fall back to defaults",
			in:   Settings{},
			want: Settings{TimeLimitSec: 120, RoundCount: 5, CharLimit: 0},
		},
		{
			name: "in-range values pass through",
			in:   Settings{TimeLimitSec: 90, RoundCount: 3, CharLimit: 200},
			want: Settings{TimeLimitSec: 90, RoundCount: 3, CharLimit: 200},
		},
		{
			name: "below minimum clamps up",
			in:   Settings{TimeLimitSec: 10, RoundCount: -2, CharLimit: -5},
			want: Settings{TimeLimitSec: 60, RoundCount: 1, CharLimit: 0},
		},
		{
			name: "above maximum clamps down",
			in:   Settings{TimeLimitSec: 900, RoundCount: 50, CharLimit: 2000},
			want: Settings{TimeLimitSec: 300, RoundCount: 10, CharLimit: 400},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeSettings(tt.in))
		})
	}
}

func TestNewRoom(t *testing.T) {
	now := time.Now()
	room := NewRoom("p_host", "Ana", SanitizeSettings(Settings{}), nil, now)

	assert.Equal(t, PhaseLobby, room.Phase)
	assert.Equal(t, "p_host", room.HostID)
	assert.Equal(t, -1, room.RoundIndex)
	assert.Len(t, room.Players, 1)
	assert.Equal(t, 0, room.Scores["p_host"])
	assert.True(t, room.HasPlayer("p_host"))
	assert.False(t, room.HasPlayer("p_other"))
}

func TestQuorumHelpers(t *testing.T) {
	room := NewRoom("a", "A", SanitizeSettings(Settings{}), nil, time.Now())
	room.Players = append(room.Players, Player{ID: "b", Name: "B"})

	assert.False(t, room.AllSubmitted())
	room.RoundSubmissions["a"] = "one"
	assert.False(t, room.AllSubmitted())
	room.RoundSubmissions["b"] = "two"
	assert.True(t, room.AllSubmitted())

	assert.False(t, room.AllVoted())
	room.RoundVotes["a"] = Vote{Ratings: map[string]int{"b": 5}}
	assert.False(t, room.AllVoted())
	room.RoundVotes["b"] = Vote{Ratings: map[string]int{"a": 3}}
	assert.True(t, room.AllVoted())

	// A player with no submission never holds up the vote quorum.
	room.Players = append(room.Players, Player{ID: "c", Name: "C"})
	assert.True(t, room.AllVoted())
}

func TestTimerGeneration(t *testing.T) {
	room := NewRoom("a", "A", SanitizeSettings(Settings{}), nil, time.Now())

	room.ArmTimer(time.Hour, func(gen uint64) {})
	armed := room.TimerGen
	assert.True(t, room.TimerValid(armed))

	// Re-arming supersedes the previous generation.
	room.ArmTimer(time.Hour, func(gen uint64) {})
	assert.False(t, room.TimerValid(armed))
	assert.True(t, room.TimerValid(room.TimerGen))

	// Cancelling invalidates the pending generation too.
	pending := room.TimerGen
	room.CancelTimer()
	assert.False(t, room.TimerValid(pending))
	assert.Nil(t, room.Timer)
}

func TestAddNotice(t *testing.T) {
	room := NewRoom("a", "A", SanitizeSettings(Settings{}), nil, time.Now())

	room.AddNotice("B left the room.", time.Now())
	first := room.LatestNotice
	assert.NotNil(t, first)
	assert.Equal(t, 1, first.ID)

	room.AddNotice("C left the room.", time.Now())
	assert.Equal(t, 2, room.LatestNotice.ID)
	assert.Equal(t, "C left the room.", room.LatestNotice.Text)
}
