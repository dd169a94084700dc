package velocity

import (
	"testing"
	"time"
)

func TestClassifyTiers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		delta float64
		want  Tier
	}{
		{"slow", 50, TierSlow},
		{"medium", 150, TierMedium},
		{"fast", 300, TierFast},
		{"negative delta uses magnitude", -300, TierFast},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tracker := NewTracker(1.0, 2.0)
			base := time.Now()
			tracker.Update(0, base)
			tracker.Update(tc.delta, base.Add(100*time.Millisecond))

			if got := tracker.Classify(); got != tc.want {
				t.Fatalf("expected tier %s, got %s", tc.want, got)
			}
		})
	}
}

func TestUpdateFloorsElapsedTime(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(1.0, 2.0)
	base := time.Now()
	tracker.Update(0, base)
	tracker.Update(50, base)

	// Elapsed floored to 1ms, so speed is 50 px/ms.
	if got := tracker.Classify(); got != TierFast {
		t.Fatalf("expected fast tier on zero-elapsed update, got %s", got)
	}
}

func TestClassifyDefaultsToSlow(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(1.0, 2.0)
	if got := tracker.Classify(); got != TierSlow {
		t.Fatalf("expected slow tier before any sample, got %s", got)
	}
}
