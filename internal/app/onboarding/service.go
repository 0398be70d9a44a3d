package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"spades/internal/ports"
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// DisplayName is the generated name applied to the account.
	DisplayName string
	// ProfileUpdateErr is set when the profile update failed but
	// onboarding continued.
	ProfileUpdateErr error
}

// Service gives newly created accounts a readable scorekeeper name so their
// games have an owner worth showing.
type Service struct {
	accounts ports.Account
	rng      *rand.Rand
}

// NewService constructs an onboarding service. accounts must be non-nil;
// rng may be nil to use a time-seeded default.
func NewService(accounts ports.Account, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{accounts: accounts, rng: rng}
}

// OnboardNewUser assigns a generated display name to a fresh account.
// The name update is best-effort: a failure is reported in the Result, not
// as an error, since scorekeeping works fine with an unnamed owner.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	displayName := s.generateScorekeeperName()
	result := Result{DisplayName: displayName}
	if err := s.accounts.UpdateProfile(ctx, userID, displayName, displayName); err != nil {
		result.ProfileUpdateErr = err
	}
	return result, nil
}

func (s *Service) generateScorekeeperName() string {
	adjectives := []string{"Lucky", "Bold", "Steady", "Sharp", "Quiet", "Daring", "Cunning", "Patient"}
	nouns := []string{"Bidder", "Dealer", "Trickster", "Spade", "Partner", "Counter", "Shuffler", "Scorer"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
