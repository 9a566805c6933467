package engine

import "time"

// Control is the run-control state shared by every algorithm engine. The
// engines mutate the counters, the completion flag, and the pending-question
// slot; the session driver owns the running/paused flags and the step delay.
type Control struct {
	Running   bool
	Paused    bool
	Completed bool
	Teaching  bool

	StepDelay time.Duration

	Comparisons int
	Swaps       int

	// PendingQuestion indexes into the session's question order.
	// -1 means no quiz is blocking the algorithm.
	PendingQuestion int
}

func NewControl(delay time.Duration) *Control {
	return &Control{StepDelay: delay, PendingQuestion: -1}
}

func (c *Control) QuizPending() bool {
	return c.PendingQuestion >= 0
}

// resetProgress is called by every engine's Reset: counters go to zero,
// completion and any blocking quiz are cleared. Running/paused are left to
// the driver.
func (c *Control) resetProgress() {
	c.Comparisons = 0
	c.Swaps = 0
	c.Completed = false
	c.PendingQuestion = -1
}

// DelayBounds returns the per-algorithm clamp range for the step delay.
// Divide-and-conquer algorithms do more work per pass, so they tolerate a
// longer ceiling.
func DelayBounds(kind Kind) (min, max time.Duration) {
	switch kind {
	case MergeSort:
		return 30 * time.Millisecond, 1200 * time.Millisecond
	case QuickSort:
		return 30 * time.Millisecond, 1500 * time.Millisecond
	default:
		return 20 * time.Millisecond, 1000 * time.Millisecond
	}
}

// ClampDelay pins d inside the bounds for kind.
func ClampDelay(kind Kind, d time.Duration) time.Duration {
	lo, hi := DelayBounds(kind)
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
