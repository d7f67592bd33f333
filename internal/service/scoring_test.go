package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amberreview/internal/model"
)

func scoringRoom() *model.Room {
	room := model.NewRoom("a", "Ana", model.SanitizeSettings(model.Settings{}), nil, time.Now())
	room.Players = append(room.Players,
		model.Player{ID: "b", Name: "Ben"},
		model.Player{ID: "c", Name: "Cleo"},
	)
	room.Scores["b"] = 0
	room.Scores["c"] = 0
	room.RoundIndex = 0
	room.CurrentPrompt = &model.Prompt{ID: "p1", Name: "Auto Clapping Chopsticks"}
	return room
}

func TestScoreRoundAggregatesRatings(t *testing.T) {
	room := scoringRoom()
	room.RoundSubmissions = map[string]string{"a": "ra", "b": "rb", "c": "rc"}
	room.RoundVotes = map[string]model.Vote{
		"a": {Ratings: map[string]int{"b": 5, "c": 2}},
		"b": {Ratings: map[string]int{"a": 4, "c": 3}},
		"c": {Ratings: map[string]int{"a": 1, "b": 4}},
	}

	result := scoreRound(room)

	require.Len(t, result.Reviews, 3)
	assert.Equal(t, 1, result.RoundNumber)
	assert.Equal(t, "p1", result.Prompt.ID)

	// b: 5+4=9, a: 4+1=5, c: 2+3=5. Descending, stable on ties (a joined first).
	assert.Equal(t, "b", result.Reviews[0].PlayerID)
	assert.Equal(t, 9, result.Reviews[0].RoundPoints)
	assert.Equal(t, "a", result.Reviews[1].PlayerID)
	assert.Equal(t, 5, result.Reviews[1].RoundPoints)
	assert.Equal(t, "c", result.Reviews[2].PlayerID)
	assert.Equal(t, 5, result.Reviews[2].RoundPoints)

	assert.Equal(t, 5, room.Scores["a"])
	assert.Equal(t, 9, room.Scores["b"])
	assert.Equal(t, 5, room.Scores["c"])
}

func TestScoreRoundSkipsNonSubmitters(t *testing.T) {
	room := scoringRoom()
	room.Scores["c"] = 7
	room.RoundSubmissions = map[string]string{"a": "ra", "b": "rb"}
	room.RoundVotes = map[string]model.Vote{
		"a": {Ratings: map[string]int{"b": 5}},
		"b": {Ratings: map[string]int{"a": 3}},
		"c": {Ratings: map[string]int{"a": 2, "b": 2}},
	}

	result := scoreRound(room)

	require.Len(t, result.Reviews, 2)
	for _, rev := range result.Reviews {
		assert.NotEqual(t, "c", rev.PlayerID)
	}
	// c keeps its cumulative score untouched.
	assert.Equal(t, 7, room.Scores["c"])
}

func TestScoreRoundDiscardsRatingsForDepartedPlayers(t *testing.T) {
	room := scoringRoom()
	room.RoundSubmissions = map[string]string{"a": "ra", "b": "rb"}
	// "gone" left after votes naming them were cast.
	room.RoundVotes = map[string]model.Vote{
		"a": {Ratings: map[string]int{"b": 4, "gone": 5}},
		"b": {Ratings: map[string]int{"a": 3, "gone": 5}},
	}

	result := scoreRound(room)

	require.Len(t, result.Reviews, 2)
	assert.Equal(t, 4, room.Scores["b"])
	assert.Equal(t, 3, room.Scores["a"])
	_, tracked := room.Scores["gone"]
	assert.False(t, tracked)
}

func TestScoreRoundUnratedSubmitterScoresZero(t *testing.T) {
	room := scoringRoom()
	room.RoundSubmissions = map[string]string{"a": "ra", "b": "rb", "c": "rc"}
	room.RoundVotes = map[string]model.Vote{
		"a": {Ratings: map[string]int{"b": 5, "c": 5}},
	}

	result := scoreRound(room)

	require.Len(t, result.Reviews, 3)
	assert.Equal(t, 0, room.Scores["a"])
}

func TestFinalRankingOrdersByTotal(t *testing.T) {
	room := scoringRoom()
	room.Scores["a"] = 10
	room.Scores["b"] = 25
	room.Scores["c"] = 10

	ranking := finalRanking(room)

	require.Len(t, ranking, 3)
	assert.Equal(t, "b", ranking[0].PlayerID)
	assert.Equal(t, 25, ranking[0].TotalPoints)
	// Stable tie: a joined before c.
	assert.Equal(t, "a", ranking[1].PlayerID)
	assert.Equal(t, "c", ranking[2].PlayerID)
}
