package service

import (
	"time"

	"amberreview/internal/model"
)

// projectRoom builds the snapshot one specific player is allowed to see. It is
// a pure function of (room, playerID) and must run inside the room's critical
// section. Filtering rules:
//   - other players' submissions stay hidden until reveal
//   - a player sees their own prior vote but never anyone else's, only counts
//   - round history is disclosed only once the game is final
func projectRoom(room *model.Room, playerID string) *model.RoomView {
	view := &model.RoomView{
		RoomCode:        room.Code,
		Phase:           room.Phase,
		MeID:            playerID,
		IsHost:          room.HostID == playerID,
		Settings:        room.Settings,
		RoundIndex:      room.RoundIndex,
		TotalRounds:     room.Settings.RoundCount,
		CurrentPrompt:   room.CurrentPrompt,
		WritingDeadline: unixMilli(room.WritingDeadline),
		RevealDeadline:  unixMilli(room.RevealDeadline),
		OwnReview:       room.RoundSubmissions[playerID],
		SubmissionCount: len(room.RoundSubmissions),
		VotingCount:     len(room.RoundVotes),
		LastRoundResult: room.LastRoundResult,
		FinalRanking:    room.FinalRanking,
		LatestNotice:    room.LatestNotice,
	}

	view.Players = make([]model.PlayerView, 0, len(room.Players))
	for _, p := range room.Players {
		view.Players = append(view.Players, model.PlayerView{
			ID:    p.ID,
			Name:  p.Name,
			Score: room.Scores[p.ID],
		})
	}

	if vote, ok := room.RoundVotes[playerID]; ok {
		myVote := vote
		view.MyVote = &myVote
	}

	revealed := room.Phase.Revealed()

	view.Submissions = make([]model.SubmissionView, 0)
	view.AllRevealedSubmissions = make([]model.SubmissionView, 0)
	for _, p := range room.Players {
		text, ok := room.RoundSubmissions[p.ID]
		if !ok {
			continue
		}
		sub := model.SubmissionView{PlayerID: p.ID, PlayerName: p.Name, Text: text}
		if revealed {
			view.AllRevealedSubmissions = append(view.AllRevealedSubmissions, sub)
			if p.ID != playerID {
				view.Submissions = append(view.Submissions, sub)
			}
		} else if p.ID == playerID {
			view.Submissions = append(view.Submissions, sub)
		}
	}

	if room.Phase == model.PhaseFinal {
		view.RoundHistory = room.RoundHistory
	} else {
		view.RoundHistory = []model.RoundResult{}
	}

	return view
}

func unixMilli(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}
