// Package breathing describes the guided breathing exercise: a repeating
// inhale, hold, exhale, rest cycle, and the supportive messages shown next
// to it.
package breathing

import (
	"time"
)

type Phase string

const (
	PhaseInhale Phase = "inhale"
	PhaseHold   Phase = "hold"
	PhaseExhale Phase = "exhale"
	PhaseRest   Phase = "rest"
)

type PhaseSpec struct {
	Phase        Phase         `json:"phase"`
	Duration     time.Duration `json:"-"`
	DurationMS   int64         `json:"duration_ms"`
	Count        int           `json:"count"`
	Scale        float64       `json:"scale"`
	Instructions string        `json:"instructions"`
}

var cycle = []PhaseSpec{
	{Phase: PhaseInhale, Duration: 4 * time.Second, Count: 4, Scale: 1.4, Instructions: "Breathe In"},
	{Phase: PhaseHold, Duration: 1 * time.Second, Count: 1, Scale: 1.4, Instructions: "Hold"},
	{Phase: PhaseExhale, Duration: 6 * time.Second, Count: 6, Scale: 0.8, Instructions: "Breathe Out"},
	{Phase: PhaseRest, Duration: 1 * time.Second, Count: 1, Scale: 1.0, Instructions: "Rest"},
}

// Cycle returns a copy of the phase sequence.
func Cycle() []PhaseSpec {
	out := make([]PhaseSpec, len(cycle))
	for i, p := range cycle {
		p.DurationMS = p.Duration.Milliseconds()
		out[i] = p
	}
	return out
}

func CycleDuration() time.Duration {
	var total time.Duration
	for _, p := range cycle {
		total += p.Duration
	}
	return total
}

// Step is what the exercise shows at a point in time.
type Step struct {
	PhaseSpec
	Remaining time.Duration `json:"-"`
	Counter   int           `json:"counter"`
	Round     int           `json:"round"`
}

// PhaseAt returns the step shown after elapsed time since the exercise
// started. The counter ticks down from the phase's count to 1.
func PhaseAt(elapsed time.Duration) Step {
	if elapsed < 0 {
		elapsed = 0
	}

	total := CycleDuration()
	round := int(elapsed / total)
	offset := elapsed % total

	for _, p := range cycle {
		if offset < p.Duration {
			tick := p.Duration / time.Duration(p.Count)
			counter := p.Count - int(offset/tick)
			p.DurationMS = p.Duration.Milliseconds()
			return Step{
				PhaseSpec: p,
				Remaining: p.Duration - offset,
				Counter:   counter,
				Round:     round,
			}
		}
		offset -= p.Duration
	}

	// unreachable: offset < total
	return Step{PhaseSpec: cycle[0], Counter: cycle[0].Count, Round: round}
}
