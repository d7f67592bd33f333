package service

import (
	"sort"

	"amberreview/internal/model"
)

// scoreRound aggregates the round's votes into a result snapshot and applies
// the round points to the cumulative scores. Round points for a target are the
// sum of all 1-5 ratings cast on them; a submitter nobody rated scores 0.
// Players without a submission keep their cumulative score but are excluded
// from the review listing. Must run inside the room's critical section.
func scoreRound(room *model.Room) *model.RoundResult {
	points := make(map[string]int, len(room.Players))
	for _, p := range room.Players {
		points[p.ID] = 0
	}

	for _, vote := range room.RoundVotes {
		for targetID, score := range vote.Ratings {
			// Ratings naming a player who has since left are discarded.
			if _, present := points[targetID]; present {
				points[targetID] += score
			}
		}
	}

	reviews := make([]model.Review, 0, len(room.Players))
	for _, p := range room.Players {
		text, submitted := room.RoundSubmissions[p.ID]
		if !submitted {
			continue
		}
		room.Scores[p.ID] += points[p.ID]
		reviews = append(reviews, model.Review{
			PlayerID:    p.ID,
			PlayerName:  p.Name,
			Text:        text,
			RoundPoints: points[p.ID],
			TotalPoints: room.Scores[p.ID],
		})
	}

	// Descending by round points; stable keeps join order on ties.
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].RoundPoints > reviews[j].RoundPoints
	})

	return &model.RoundResult{
		RoundNumber: room.RoundIndex + 1,
		Prompt:      room.CurrentPrompt,
		Reviews:     reviews,
	}
}

// finalRanking orders all current players by descending cumulative score with
// stable ties.
func finalRanking(room *model.Room) []model.FinalRank {
	ranking := make([]model.FinalRank, 0, len(room.Players))
	for _, p := range room.Players {
		ranking = append(ranking, model.FinalRank{
			PlayerID:    p.ID,
			PlayerName:  p.Name,
			TotalPoints: room.Scores[p.ID],
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].TotalPoints > ranking[j].TotalPoints
	})
	return ranking
}
