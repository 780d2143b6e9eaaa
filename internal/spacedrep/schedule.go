package spacedrep

import "time"

// MaxLevel is the highest mastery level. A question at MaxLevel is
// considered fully mastered.
const MaxLevel = 5

// Config carries the review schedule. The interval table is indexed by
// mastery level and expressed in days; it is threaded through the scheduler
// rather than kept as a package constant so tests can tune it.
type Config struct {
	// Intervals holds the review interval in days for each level 0..MaxLevel.
	Intervals []float64

	// RetryFloorDays is the minimum interval after an incorrect answer.
	RetryFloorDays float64
}

// DefaultConfig returns the standard expanding schedule:
// level 0 reviews immediately, level 5 after a month.
func DefaultConfig() Config {
	return Config{
		Intervals:      []float64{0, 1, 3, 7, 14, 30},
		RetryFloorDays: 0.5,
	}
}

// NextLevel computes the mastery level after an answer: up one on a correct
// answer, down two on an incorrect one, clamped to [0, MaxLevel]. The
// asymmetry demotes faster than it promotes, discouraging false confidence.
func NextLevel(level int, correct bool) int {
	if correct {
		return min(level+1, MaxLevel)
	}
	return max(level-2, 0)
}

// IntervalDays returns the review interval for a level. An incorrect answer
// halves the interval, floored at RetryFloorDays, so the question comes
// back sooner without fully resetting the schedule.
func (c Config) IntervalDays(level int, correct bool) float64 {
	if level < 0 {
		level = 0
	}
	if level > len(c.Intervals)-1 {
		level = len(c.Intervals) - 1
	}
	days := c.Intervals[level]
	if !correct {
		days = max(c.RetryFloorDays, days*0.5)
	}
	return days
}

// NextReview returns the next review timestamp for a question at the given
// level, answered at now.
func (c Config) NextReview(level int, correct bool, now time.Time) time.Time {
	days := c.IntervalDays(level, correct)
	return now.Add(time.Duration(days * 24 * float64(time.Hour)))
}
