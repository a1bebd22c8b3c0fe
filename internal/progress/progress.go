// Package progress derives display values for a goal from its start date,
// target duration and completion flag. Everything here is a pure function of
// the goal and the instant passed in.
package progress

import (
	"fmt"
	"math"
	"time"

	"github.com/nochase/nochase/internal/model"
)

const Day = 24 * time.Hour

const (
	LabelCompleted     = "Completed! 🎉"
	LabelTargetReached = "Goal Complete! 🏆"
)

// State is the UI-facing lifecycle of a goal. It is computed, never stored.
type State int

const (
	StateInProgress State = iota
	StateAwaitingConfirmation
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// End is the instant the goal's countdown reaches its target.
func End(g *model.Goal) time.Time {
	return g.StartDate.Add(time.Duration(g.TargetDays) * Day)
}

// StateAt reports where the goal stands at now. Completion always wins;
// reaching the end only moves the goal to awaiting confirmation.
func StateAt(g *model.Goal, now time.Time) State {
	if g.Completed {
		return StateCompleted
	}
	if !now.Before(End(g)) {
		return StateAwaitingConfirmation
	}
	return StateInProgress
}

// Percent returns elapsed progress in [0, 100]. It is 100 for completed
// goals and from End onwards, and strictly below 100 before End.
func Percent(g *model.Goal, now time.Time) float64 {
	if StateAt(g, now) != StateInProgress {
		return 100
	}

	end := End(g)
	total := end.Sub(g.StartDate)
	if total <= 0 {
		return 0
	}

	elapsed := now.Sub(g.StartDate)
	p := float64(elapsed) / float64(total) * 100
	switch {
	case p < 0:
		return 0
	case p >= 100:
		return math.Nextafter(100, 0)
	}
	return p
}

// RemainingLabel renders the time left before End. Units are truncated, not
// rounded.
func RemainingLabel(g *model.Goal, now time.Time) string {
	switch StateAt(g, now) {
	case StateCompleted:
		return LabelCompleted
	case StateAwaitingConfirmation:
		return LabelTargetReached
	}

	remaining := End(g).Sub(now)
	hours := int64(remaining / time.Hour)
	minutes := int64((remaining % time.Hour) / time.Minute)

	if hours > 24 {
		days := hours / 24
		if days == 1 {
			return "1 day remaining"
		}
		return fmt.Sprintf("%d days remaining", days)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm remaining", hours, minutes)
	}
	return fmt.Sprintf("%dm remaining", minutes)
}

// Snapshot is every derived value of a goal at one instant.
type Snapshot struct {
	Percent   float64   `json:"percent"`
	State     State     `json:"state"`
	Remaining string    `json:"remaining"`
	EndsAt    time.Time `json:"ends_at"`
}

func Evaluate(g *model.Goal, now time.Time) Snapshot {
	return Snapshot{
		Percent:   Percent(g, now),
		State:     StateAt(g, now),
		Remaining: RemainingLabel(g, now),
		EndsAt:    End(g),
	}
}

// Summarize counts goals by state at now.
func Summarize(goals []*model.Goal, now time.Time) model.GoalSummary {
	var s model.GoalSummary
	for _, g := range goals {
		s.Total++
		switch StateAt(g, now) {
		case StateCompleted:
			s.Completed++
		case StateAwaitingConfirmation:
			s.AwaitingConfirmation++
			s.Active++
		default:
			s.Active++
		}
	}
	return s
}
