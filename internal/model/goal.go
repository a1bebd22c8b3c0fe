package model

import (
	"time"
)

type Goal struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Title      string    `db:"title" json:"title"`
	Motivation *string   `db:"motivation" json:"motivation"`
	TargetDays int       `db:"target_days" json:"target_days"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	Completed  bool      `db:"completed" json:"completed"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// NewGoal is the caller-supplied part of a goal. Owner, id and timestamps
// are assigned by the store.
type NewGoal struct {
	Title      string    `json:"title"`
	Motivation *string   `json:"motivation,omitempty"`
	TargetDays int       `json:"target_days"`
	StartDate  time.Time `json:"start_date"`
	Completed  bool      `json:"completed"`
}

// GoalPatch is a partial update. Nil fields are left unchanged.
type GoalPatch struct {
	Title      *string    `json:"title,omitempty"`
	Motivation *string    `json:"motivation,omitempty"`
	TargetDays *int       `json:"target_days,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	Completed  *bool      `json:"completed,omitempty"`
}

func (p GoalPatch) IsEmpty() bool {
	return p.Title == nil && p.Motivation == nil && p.TargetDays == nil && p.StartDate == nil && p.Completed == nil
}

// Apply copies the set fields of p onto g.
func (p GoalPatch) Apply(g *Goal) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Motivation != nil {
		if *p.Motivation == "" {
			g.Motivation = nil
		} else {
			m := *p.Motivation
			g.Motivation = &m
		}
	}
	if p.TargetDays != nil {
		g.TargetDays = *p.TargetDays
	}
	if p.StartDate != nil {
		g.StartDate = *p.StartDate
	}
	if p.Completed != nil {
		g.Completed = *p.Completed
	}
}

// GoalSummary holds the dashboard counts for one user.
type GoalSummary struct {
	Total                int `json:"total"`
	Active               int `json:"active"`
	AwaitingConfirmation int `json:"awaiting_confirmation"`
	Completed            int `json:"completed"`
}
