package domain

import (
	"errors"
	"testing"
)

func TestTierStyleCounts(t *testing.T) {
	cases := []struct {
		tier       Tier
		styles     int
		perStyle   int
		totalShots int
	}{
		{TierStarter, 5, 8, 40},
		{TierProfessional, 10, 10, 100},
		{TierExecutive, 10, 20, 200},
	}
	for _, tc := range cases {
		styles := tc.tier.Styles()
		if len(styles) != tc.styles {
			t.Fatalf("%s: style count = %d, want %d", tc.tier, len(styles), tc.styles)
		}
		if got := tc.tier.ImagesPerStyle(); got != tc.perStyle {
			t.Fatalf("%s: images per style = %d, want %d", tc.tier, got, tc.perStyle)
		}
		if total := len(styles) * tc.tier.ImagesPerStyle(); total != tc.totalShots {
			t.Fatalf("%s: total shots = %d, want %d", tc.tier, total, tc.totalShots)
		}
	}
}

func TestTierValid(t *testing.T) {
	if !TierStarter.Valid() || !TierProfessional.Valid() || !TierExecutive.Valid() {
		t.Fatal("known tiers must be valid")
	}
	if Tier("deluxe").Valid() {
		t.Fatal("unknown tier must be invalid")
	}
}

func TestParseTier(t *testing.T) {
	for _, name := range []string{"starter", "professional", "executive"} {
		tier, err := ParseTier(name)
		if err != nil {
			t.Fatalf("ParseTier(%q) returned %v", name, err)
		}
		if string(tier) != name {
			t.Fatalf("ParseTier(%q) = %q", name, tier)
		}
	}
	if _, err := ParseTier("deluxe"); !errors.Is(err, ErrInvalidTier) {
		t.Fatalf("ParseTier(deluxe) err = %v, want ErrInvalidTier", err)
	}
}

func TestStatusTerminality(t *testing.T) {
	if !JobStatusCompleted.Terminal() || !JobStatusFailed.Terminal() {
		t.Fatal("completed and failed jobs are terminal")
	}
	if JobStatusSubmitted.Terminal() {
		t.Fatal("submitted jobs are not terminal")
	}
	if !OrderStatusCompleted.Terminal() || !OrderStatusFailed.Terminal() {
		t.Fatal("completed and failed orders are terminal")
	}
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusPaid, OrderStatusTraining, OrderStatusGenerating} {
		if s.Terminal() {
			t.Fatalf("%s must not be terminal", s)
		}
	}
}
