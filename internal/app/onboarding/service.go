package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"snakecards/internal/ports"
)

const (
	defaultStartingGold = 1000
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	DisplayName string
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr    error
	WelcomeBonusGranted bool
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts     ports.AccountPort
	bonuses      ports.WelcomeBonusPort
	rng          *rand.Rand
	startingGold int64
}

// NewService constructs an onboarding service with required ports.
// accounts/bonuses must be non-nil; rng may be nil to use a time-seeded default.
// A non-positive startingGold falls back to the default grant.
func NewService(accounts ports.AccountPort, bonuses ports.WelcomeBonusPort, rng *rand.Rand, startingGold int64) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if startingGold <= 0 {
		startingGold = defaultStartingGold
	}
	return &Service{
		accounts:     accounts,
		bonuses:      bonuses,
		rng:          rng,
		startingGold: startingGold,
	}
}

// OnboardNewUser names a newly created account and grants its starting gold.
// Returns a Result with any non-fatal issues and an error if the grant fails.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.bonuses == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{DisplayName: s.generateFriendlyName()}
	if err := s.accounts.UpdateProfile(ctx, userID, result.DisplayName, result.DisplayName); err != nil {
		result.ProfileUpdateErr = err
	}

	granted, err := s.bonuses.GrantWelcomeBonusOnce(ctx, userID, s.startingGold, map[string]interface{}{
		"reason": "welcome_bonus",
	})
	if err != nil {
		return result, fmt.Errorf("failed to grant welcome bonus: %w", err)
	}
	result.WelcomeBonusGranted = granted

	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Slithery", "Swift", "Coiled", "Sly", "Scaly", "Sneaky", "Mighty", "Nimble", "Hissing", "Wild"}
	nouns := []string{"Python", "Viper", "Cobra", "Adder", "Mamba", "Boa", "Krait", "Asp", "Racer", "Sidewinder"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
