package domain

// ClampedEntry is the outcome of validating a proposed (bid, won) pair.
// The returned values are always legal for the round; Clamped reports
// whether they differ from what was proposed, so the caller can surface the
// adjustment instead of silently discarding intent.
type ClampedEntry struct {
	Bid     int
	Won     int
	Clamped bool
}

// ValidateEntry clamps a proposed bid/won pair into legality for the given
// round. Round n has a trick ceiling of n, and the tricks won across all
// teams in a round cannot exceed that ceiling, so a proposed won is reduced
// to the remaining capacity after otherTeamsWon. Inputs are never rejected;
// every keystroke of incremental entry stays legal. Applying ValidateEntry
// to its own output is the identity.
func ValidateEntry(roundIndex, proposedBid, proposedWon, otherTeamsWon int) ClampedEntry {
	bid := clamp(proposedBid, 0, roundIndex)
	won := clamp(proposedWon, 0, roundIndex)

	if capacity := roundIndex - otherTeamsWon; won > capacity {
		won = capacity
		if won < 0 {
			won = 0
		}
	}

	return ClampedEntry{
		Bid:     bid,
		Won:     won,
		Clamped: bid != proposedBid || won != proposedWon,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
