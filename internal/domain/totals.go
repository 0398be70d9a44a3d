package domain

// TeamTotals is the aggregate standing of one team across all rounds.
type TeamTotals struct {
	// RawScore is the sum of per-round scores before bag penalties.
	RawScore int `json:"raw_score"`
	// TotalBags is the lifetime bag count across all rounds.
	TotalBags int `json:"total_bags"`
	// DisplayBags is the bag counter shown on the card, wrapping at BagThreshold.
	DisplayBags int `json:"display_bags"`
	// Penalty is the accrued bag deduction.
	Penalty int `json:"penalty"`
	// FinalScore is RawScore minus Penalty.
	FinalScore int `json:"final_score"`
}

// ComputeTotals recomputes every team's standing from scratch. There are no
// running counters: the result depends only on the per-cell values, so
// editing rounds out of order or retroactively cannot skew it.
func ComputeTotals(g *Game) map[string]TeamTotals {
	totals := make(map[string]TeamTotals, len(g.Teams))
	for _, team := range g.Teams {
		raw, bags := 0, 0
		for _, round := range g.Rounds {
			if entry, ok := round.Entries[team.ID]; ok {
				raw += entry.Score
				bags += entry.Bags
			}
		}
		penalty := BagPenalty(bags)
		totals[team.ID] = TeamTotals{
			RawScore:    raw,
			TotalBags:   bags,
			DisplayBags: bags % BagThreshold,
			Penalty:     penalty,
			FinalScore:  raw - penalty,
		}
	}
	return totals
}

// DetermineWinner picks the team with the strictly highest final score,
// walking teams in setup order so the outcome never depends on map
// iteration. When the top score is shared, tie is true and winnerID is
// empty.
func DetermineWinner(g *Game, totals map[string]TeamTotals) (winnerID string, tie bool) {
	best := 0
	first := true
	for _, team := range g.Teams {
		score := totals[team.ID].FinalScore
		switch {
		case first || score > best:
			winnerID, best, tie = team.ID, score, false
			first = false
		case score == best:
			tie = true
		}
	}
	if tie {
		return "", true
	}
	return winnerID, false
}
