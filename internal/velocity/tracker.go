package velocity

import "time"

// Tier classifies recent scroll speed into the three batch-sizing buckets.
type Tier int

const (
	TierSlow Tier = iota
	TierMedium
	TierFast
)

func (t Tier) String() string {
	switch t {
	case TierFast:
		return "fast"
	case TierMedium:
		return "medium"
	default:
		return "slow"
	}
}

// Tracker derives a scroll speed from position deltas. It is a three-tier
// step function over the most recent sample, not a smoothed controller.
type Tracker struct {
	mediumThreshold float64
	fastThreshold   float64
	lastSample      time.Time
	speed           float64
}

// NewTracker wires the two tier thresholds, in pixels per millisecond.
func NewTracker(mediumThreshold, fastThreshold float64) *Tracker {
	return &Tracker{
		mediumThreshold: mediumThreshold,
		fastThreshold:   fastThreshold,
		lastSample:      time.Now(),
	}
}

// Update records one scroll delta observed at the given instant.
// Speed is |delta| divided by the elapsed milliseconds, floored at 1ms.
func (t *Tracker) Update(delta float64, now time.Time) {
	elapsed := now.Sub(t.lastSample).Milliseconds()
	if elapsed < 1 {
		elapsed = 1
	}
	if delta < 0 {
		delta = -delta
	}
	t.speed = delta / float64(elapsed)
	t.lastSample = now
}

// Classify maps the last observed speed to its tier.
func (t *Tracker) Classify() Tier {
	switch {
	case t.speed > t.fastThreshold:
		return TierFast
	case t.speed > t.mediumThreshold:
		return TierMedium
	default:
		return TierSlow
	}
}
