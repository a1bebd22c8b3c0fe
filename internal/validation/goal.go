package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nochase/nochase/internal/model"
)

const (
	MaxTitleLength      = 200
	MaxMotivationLength = 2000
	MinTargetDays       = 1
	MaxTargetDays       = 3650
)

// ValidateTitle validates the goal title
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return errors.New("title is required")
	}

	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return fmt.Errorf("title is too long (max %d characters)", MaxTitleLength)
	}

	return nil
}

func ValidateMotivation(motivation *string) error {
	if motivation == nil {
		return nil
	}
	if utf8.RuneCountInString(*motivation) > MaxMotivationLength {
		return fmt.Errorf("motivation is too long (max %d characters)", MaxMotivationLength)
	}
	return nil
}

func ValidateTargetDays(days int) error {
	if days < MinTargetDays || days > MaxTargetDays {
		return fmt.Errorf("target days must be between %d and %d", MinTargetDays, MaxTargetDays)
	}
	return nil
}

// ValidateNewGoal checks a create request. A zero StartDate is allowed and
// means "start now".
func ValidateNewGoal(g model.NewGoal) error {
	err := ValidateTitle(g.Title)
	if err != nil {
		return err
	}

	err = ValidateMotivation(g.Motivation)
	if err != nil {
		return err
	}

	err = ValidateTargetDays(g.TargetDays)
	if err != nil {
		return err
	}

	if g.Completed {
		return errors.New("a new goal cannot start completed")
	}

	return nil
}

// ValidatePatch checks only the fields present in the patch.
func ValidatePatch(p model.GoalPatch) error {
	if p.IsEmpty() {
		return errors.New("no fields to update")
	}

	if p.Title != nil {
		err := ValidateTitle(*p.Title)
		if err != nil {
			return err
		}
	}

	err := ValidateMotivation(p.Motivation)
	if err != nil {
		return err
	}

	if p.TargetDays != nil {
		err = ValidateTargetDays(*p.TargetDays)
		if err != nil {
			return err
		}
	}

	if p.StartDate != nil && p.StartDate.Equal(time.Time{}) {
		return errors.New("start date is required")
	}

	return nil
}
