package domain

import "time"

// Status represents the lifecycle stage of a game.
type Status string

const (
	// StatusActive indicates rounds are still being entered.
	StatusActive Status = "active"
	// StatusCompleted indicates the game is finished and frozen.
	StatusCompleted Status = "completed"
)

// TieResult is the winner sentinel recorded when the top final score is
// shared by more than one team.
const TieResult = "tie"

// Team is a scoring unit in a game. Teams are created at game setup and are
// immutable afterwards except for the cosmetic ThemeID tag, which the rules
// never read.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Players []string `json:"players"`
	ThemeID string   `json:"theme_id,omitempty"`
}

// RoundEntry holds one team's numbers for one round. Bags and Score are
// derived from Bid/Won at submission time. Entered distinguishes a confirmed
// zero bid from a cell nobody has touched yet.
type RoundEntry struct {
	Bid     int  `json:"bid"`
	Won     int  `json:"won"`
	Bags    int  `json:"bags"`
	Score   int  `json:"score"`
	Entered bool `json:"entered"`
}

// Round is one hand of play: a 1-based index plus an entry per team.
// Round n deals n cards, so n is also the round's trick ceiling.
type Round struct {
	Index   int                   `json:"index"`
	Entries map[string]RoundEntry `json:"entries"`
}

// Game holds the full scorecard for one Spades game.
type Game struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"owner_id"`
	Teams       []Team         `json:"teams"`
	Rounds      []Round        `json:"rounds"`
	MaxRounds   int            `json:"max_rounds"`
	Status      Status         `json:"status"`
	Winner      string         `json:"winner,omitempty"`
	FinalScores map[string]int `json:"final_scores,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	FinishedAt  *time.Time     `json:"finished_at,omitempty"`
}

// NewGame builds an active game with maxRounds empty rounds, one zero-valued
// entry per team in each. Team and owner validation is the caller's job.
func NewGame(id, ownerID string, teams []Team, maxRounds int, createdAt time.Time) *Game {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	rounds := make([]Round, maxRounds)
	for i := range rounds {
		entries := make(map[string]RoundEntry, len(teams))
		for _, team := range teams {
			entries[team.ID] = RoundEntry{}
		}
		rounds[i] = Round{Index: i + 1, Entries: entries}
	}
	return &Game{
		ID:        id,
		OwnerID:   ownerID,
		Teams:     teams,
		Rounds:    rounds,
		MaxRounds: maxRounds,
		Status:    StatusActive,
		CreatedAt: createdAt,
	}
}

// TeamByID returns the team with the given id, or false if no such team
// plays in this game.
func (g *Game) TeamByID(teamID string) (Team, bool) {
	for _, team := range g.Teams {
		if team.ID == teamID {
			return team, true
		}
	}
	return Team{}, false
}

// RoundAt returns the round with the given 1-based index, or false when the
// index is out of range.
func (g *Game) RoundAt(index int) (*Round, bool) {
	if index < 1 || index > len(g.Rounds) {
		return nil, false
	}
	return &g.Rounds[index-1], true
}

// OtherTeamsWon sums the tricks already recorded for every team except
// teamID in the given round. Tricks are a conserved resource per round, so
// this is the capacity the validator clamps against.
func (r *Round) OtherTeamsWon(teamID string) int {
	total := 0
	for id, entry := range r.Entries {
		if id != teamID {
			total += entry.Won
		}
	}
	return total
}

// IsComplete reports whether every cell of the scorecard has been entered
// and every entry is within the round's bounds. It gates whether game
// completion is offered; CompleteGame does not require it.
func (g *Game) IsComplete() bool {
	if len(g.Rounds) != g.MaxRounds {
		return false
	}
	for _, round := range g.Rounds {
		for _, team := range g.Teams {
			entry, ok := round.Entries[team.ID]
			if !ok || !entry.Entered {
				return false
			}
			if entry.Bid < 0 || entry.Bid > round.Index || entry.Won < 0 || entry.Won > round.Index {
				return false
			}
		}
	}
	return true
}
