package model

// PlayerView is a player entry with their cumulative score.
type PlayerView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// SubmissionView is one disclosed submission.
type SubmissionView struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
}

// RoomView is the player-scoped, phase-filtered snapshot of a room. It carries
// everything a client needs to render any phase without extra calls.
type RoomView struct {
	RoomCode    string   `json:"roomCode"`
	Phase       Phase    `json:"phase"`
	MeID        string   `json:"meId"`
	IsHost      bool     `json:"isHost"`
	Settings    Settings `json:"settings"`
	RoundIndex  int      `json:"roundIndex"`
	TotalRounds int      `json:"totalRounds"`

	CurrentPrompt   *Prompt `json:"currentPrompt"`
	WritingDeadline *int64  `json:"writingDeadline"` // unix ms, absent outside writing
	RevealDeadline  *int64  `json:"revealDeadline"`  // unix ms, absent outside reveal

	Players []PlayerView `json:"players"`

	OwnReview       string `json:"ownReview"`
	SubmissionCount int    `json:"submissionCount"`
	VotingCount     int    `json:"votingCount"`

	// Submissions the caller may vote on: own submission only during writing,
	// everyone else's from reveal onward.
	Submissions []SubmissionView `json:"submissions"`
	// All disclosed submissions including the caller's own, reveal onward.
	AllRevealedSubmissions []SubmissionView `json:"allRevealedSubmissions"`

	MyVote *Vote `json:"myVote"`

	LastRoundResult *RoundResult  `json:"lastRoundResult"`
	RoundHistory    []RoundResult `json:"roundHistory"` // final phase only
	FinalRanking    []FinalRank   `json:"finalRanking"`

	LatestNotice *Notice `json:"latestNotice"`
}

// StateResponse wraps a view with the server clock so clients can render
// countdowns without trusting their own clock.
type StateResponse struct {
	ServerTime int64     `json:"serverTime"`
	Room       *RoomView `json:"room"`
}
