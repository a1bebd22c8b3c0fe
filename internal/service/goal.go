package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nochase/nochase/internal/model"
	"github.com/nochase/nochase/internal/progress"
	"github.com/nochase/nochase/internal/repository"
	"github.com/nochase/nochase/internal/validation"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrValidation             = errors.New("validation failed")
	ErrGoalNotFound           = repository.ErrGoalNotFound
)

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// GoalDetail is a goal with its progress evaluated at request time.
type GoalDetail struct {
	*model.Goal
	Progress progress.Snapshot `json:"progress"`
}

type GoalService struct {
	repo repository.GoalRepository
	now  func() time.Time
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{
		repo: repo,
		now:  time.Now,
	}
}

// timestamp normalizes to UTC microseconds, the precision both drivers keep.
func timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func requireIdentity(identity *model.Identity) error {
	if identity == nil || identity.UserID == "" {
		return ErrAuthenticationRequired
	}
	return nil
}

func (s *GoalService) Create(ctx context.Context, identity *model.Identity, input model.NewGoal) (*model.Goal, error) {
	err := requireIdentity(identity)
	if err != nil {
		return nil, err
	}

	err = validation.ValidateNewGoal(input)
	if err != nil {
		return nil, validationError(err)
	}

	now := timestamp(s.now())
	startDate := now
	if !input.StartDate.IsZero() {
		startDate = timestamp(input.StartDate)
	}

	var motivation *string
	if input.Motivation != nil && *input.Motivation != "" {
		m := *input.Motivation
		motivation = &m
	}

	goal := &model.Goal{
		ID:         uuid.New().String(),
		UserID:     identity.UserID,
		Title:      strings.TrimSpace(input.Title),
		Motivation: motivation,
		TargetDays: input.TargetDays,
		StartDate:  startDate,
		Completed:  false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.repo.Create(ctx, goal)
	if errors.Is(err, repository.ErrGoalConstraint) {
		return nil, validationError(err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) Goals(ctx context.Context, identity *model.Identity) ([]*model.Goal, error) {
	err := requireIdentity(identity)
	if err != nil {
		return nil, err
	}

	goals, err := s.repo.Goals(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

func (s *GoalService) ByID(ctx context.Context, identity *model.Identity, goalID string) (*model.Goal, error) {
	err := requireIdentity(identity)
	if err != nil {
		return nil, err
	}

	return s.repo.ByID(ctx, identity.UserID, goalID)
}

func (s *GoalService) Detail(ctx context.Context, identity *model.Identity, goalID string) (*GoalDetail, error) {
	goal, err := s.ByID(ctx, identity, goalID)
	if err != nil {
		return nil, err
	}

	return &GoalDetail{
		Goal:     goal,
		Progress: progress.Evaluate(goal, s.now()),
	}, nil
}

// Update applies a partial update and refreshes updated_at in the same write.
// Completion is one-way: un-completing is rejected, re-completing is a no-op
// that still succeeds.
func (s *GoalService) Update(ctx context.Context, identity *model.Identity, goalID string, patch model.GoalPatch) (*model.Goal, error) {
	err := requireIdentity(identity)
	if err != nil {
		return nil, err
	}

	err = validation.ValidatePatch(patch)
	if err != nil {
		return nil, validationError(err)
	}

	// Verify ownership
	goal, err := s.repo.ByID(ctx, identity.UserID, goalID)
	if err != nil {
		return nil, err
	}

	if goal.Completed && patch.Completed != nil && !*patch.Completed {
		return nil, validationError(errors.New("a completed goal cannot be reopened"))
	}

	patch.Apply(goal)
	goal.Title = strings.TrimSpace(goal.Title)
	goal.StartDate = timestamp(goal.StartDate)

	updatedAt := timestamp(s.now())
	if updatedAt.Before(goal.CreatedAt) {
		updatedAt = goal.CreatedAt
	}
	goal.UpdatedAt = updatedAt

	err = s.repo.Update(ctx, goal)
	if errors.Is(err, repository.ErrGoalConstraint) {
		return nil, validationError(err)
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (s *GoalService) Complete(ctx context.Context, identity *model.Identity, goalID string) (*model.Goal, error) {
	completed := true
	return s.Update(ctx, identity, goalID, model.GoalPatch{Completed: &completed})
}

// Delete removes the goal permanently. Deleting a goal that does not exist
// (or is not the caller's) succeeds without touching anything.
func (s *GoalService) Delete(ctx context.Context, identity *model.Identity, goalID string) error {
	err := requireIdentity(identity)
	if err != nil {
		return err
	}

	err = s.repo.Delete(ctx, identity.UserID, goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		slog.Debug("delete of missing goal ignored", "user_id", identity.UserID, "goal_id", goalID)
		return nil
	}
	return err
}

func (s *GoalService) Summary(ctx context.Context, identity *model.Identity) (*model.GoalSummary, error) {
	goals, err := s.Goals(ctx, identity)
	if err != nil {
		return nil, err
	}

	summary := progress.Summarize(goals, s.now())
	return &summary, nil
}

// GoalExport is a point-in-time copy of everything a user has stored.
type GoalExport struct {
	ExportedAt time.Time         `json:"exported_at"`
	UserID     string            `json:"user_id"`
	Summary    model.GoalSummary `json:"summary"`
	Goals      []GoalDetail      `json:"goals"`
}

func (s *GoalService) Export(ctx context.Context, identity *model.Identity) (*GoalExport, error) {
	goals, err := s.Goals(ctx, identity)
	if err != nil {
		return nil, err
	}

	now := s.now()
	details := make([]GoalDetail, 0, len(goals))
	for _, goal := range goals {
		details = append(details, GoalDetail{Goal: goal, Progress: progress.Evaluate(goal, now)})
	}

	return &GoalExport{
		ExportedAt: timestamp(now),
		UserID:     identity.UserID,
		Summary:    progress.Summarize(goals, now),
		Goals:      details,
	}, nil
}
