package domain

// Scoring constants for the standard rule set. House variants substitute
// different values here rather than editing the rule functions.
const (
	// TrickValue is the points awarded (or lost) per bid trick.
	TrickValue = 10
	// NilBonus is the swing for a nil bid: +NilBonus on success, -NilBonus on failure.
	NilBonus = 100
	// BagThreshold is the accumulated-bag count that triggers a penalty.
	BagThreshold = 5
	// BagPenaltyStep is the points deducted each time BagThreshold bags accrue.
	BagPenaltyStep = 50
	// DefaultMaxRounds is the standard round count for an up-and-down game.
	DefaultMaxRounds = 13
)

// Score returns the round score for a (bid, won) pair.
// A nil bid (bid == 0) scores +NilBonus when no trick is won and -NilBonus
// otherwise. A positive bid scores TrickValue per bid trick when made and
// loses the same when failed. Overtricks never add to the score directly;
// they only reach the total through the bag penalty.
func Score(bid, won int) int {
	if bid == 0 {
		if won == 0 {
			return NilBonus
		}
		return -NilBonus
	}
	if won < bid {
		return -TrickValue * bid
	}
	return TrickValue * bid
}

// Bags returns the overtricks for a (bid, won) pair.
func Bags(bid, won int) int {
	if won > bid {
		return won - bid
	}
	return 0
}

// BagPenalty returns the total deduction for accumulated bags. It is a step
// function: every full BagThreshold bags costs BagPenaltyStep points. It is
// always computed from the full accrued total, never incrementally.
func BagPenalty(accumulatedBags int) int {
	if accumulatedBags < 0 {
		return 0
	}
	return (accumulatedBags / BagThreshold) * BagPenaltyStep
}

// RollingBags folds newly earned bags into a running total. displayBags is
// the bag counter shown on the card, which wraps every time a penalty is
// taken; accumulatedBags is the lifetime total the penalty derives from.
func RollingBags(accumulatedBefore, newBags int) (displayBags, accumulatedBags int) {
	accumulatedBags = accumulatedBefore + newBags
	displayBags = accumulatedBags % BagThreshold
	return displayBags, accumulatedBags
}
