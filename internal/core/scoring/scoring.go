// Package scoring computes the final quality score for completed work items.
//
// Two incompatible policies exist in the wild: the penalty policy, which
// treats on-time delivery as flatly zero and charges for lateness, and the
// older bonus policy, which grants a completion base plus an early-finish
// bonus. The active policy is selected by configuration, not by code edits.
package scoring

import (
	"fmt"
	"math"
	"time"
)

// Policy names accepted in configuration.
const (
	PolicyPenalty = "penalty"
	PolicyBonus   = "bonus"
)

// Penalties holds the penalty configuration consumed by the penalty policy.
type Penalties struct {
	PerMinute        float64 `yaml:"per_minute"`
	PointsPerDay     float64 `yaml:"points_per_day"`
	MaxDelayPenalty  float64 `yaml:"max_delay_penalty"`
	MaxReworkPenalty float64 `yaml:"max_rework_penalty"`
}

// Input carries everything a strategy may consult. Planned and actual end
// instants are the latest-wins reductions over the item's activity log.
type Input struct {
	PlannedEnd time.Time
	ActualEnd  time.Time

	EstimatedHours float64
	ActualHours    float64

	RevisionCount int
	ReworkCount   int

	Penalties Penalties
}

// Strategy computes a score from recorded timestamps and counters. The
// second return value is false when the inputs are insufficient and the
// stored score must be left unset.
type Strategy interface {
	Score(in Input) (float64, bool)
}

// ForPolicy returns the strategy selected by configuration.
func ForPolicy(name string) (Strategy, error) {
	switch name {
	case PolicyPenalty, "":
		return PenaltyStrategy{}, nil
	case PolicyBonus:
		return BonusStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown scoring policy %q", name)
	}
}

// PenaltyStrategy is the canonical policy: on-time or early delivery scores
// zero, lateness is charged per minute below a day and per day plus the
// minute remainder above, capped and negated.
type PenaltyStrategy struct{}

var _ Strategy = PenaltyStrategy{}

const minutesPerDay = 24 * 60

// Score implements Strategy.
func (PenaltyStrategy) Score(in Input) (float64, bool) {
	if in.PlannedEnd.IsZero() || in.ActualEnd.IsZero() {
		return 0, false
	}

	if !in.ActualEnd.After(in.PlannedEnd) {
		// Late delivery is purely penalized; being early earns nothing.
		return 0, true
	}

	delayMinutes := in.ActualEnd.Sub(in.PlannedEnd).Minutes()

	var penalty float64
	if delayMinutes < minutesPerDay {
		penalty = delayMinutes * in.Penalties.PerMinute
	} else {
		days := math.Floor(delayMinutes / minutesPerDay)
		remainder := math.Mod(delayMinutes, minutesPerDay)
		penalty = days*in.Penalties.PointsPerDay + remainder*in.Penalties.PerMinute
	}

	maxPoints := in.Penalties.MaxDelayPenalty
	if in.ReworkCount > 0 {
		maxPoints = in.Penalties.MaxReworkPenalty
	}

	return -math.Min(penalty, maxPoints), true
}

// BonusStrategy is the legacy policy: 60 points for completion plus up to 40
// bonus points scaled by how far under the estimate the work finished,
// discounted by the revision count. Overruns earn the base only.
type BonusStrategy struct{}

var _ Strategy = BonusStrategy{}

// Score implements Strategy.
func (BonusStrategy) Score(in Input) (float64, bool) {
	score := 60.0

	if in.EstimatedHours <= 0 || in.ActualHours <= 0 || in.ActualHours > in.EstimatedHours {
		return score, true
	}

	extraTimeRatio := math.Max((in.EstimatedHours-in.ActualHours)/in.ActualHours, 0)
	penaltyPercent := float64(in.RevisionCount) * extraTimeRatio

	bonus := 40 - penaltyPercent*40
	bonus = math.Max(math.Min(bonus, 40), 0)

	return score + math.Round(bonus*100)/100, true
}
