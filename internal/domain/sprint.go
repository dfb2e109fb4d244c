package domain

import (
	"fmt"
	"time"
)

type Sprint struct {
	ID        string
	ProjectID string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Status    SprintStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateWindow rejects a sprint whose end precedes its start.
func (s *Sprint) ValidateWindow() error {
	if s.EndDate.Before(s.StartDate) {
		return ErrInvalidSprintWindow
	}
	return nil
}

// Activate moves a PLANNED sprint to ACTIVE when now falls inside its window.
func (s *Sprint) Activate(now time.Time) error {
	if s.Status != SprintPlanned {
		return fmt.Errorf("cannot start sprint in status %s: %w", s.Status, ErrInvalidTransition)
	}
	if now.Before(s.StartDate) || now.After(s.EndDate) {
		return fmt.Errorf("cannot start sprint outside of its date range: %w", ErrInvalidTransition)
	}
	s.Status = SprintActive
	s.UpdatedAt = now
	return nil
}

// Complete closes an ACTIVE sprint.
func (s *Sprint) Complete(now time.Time) error {
	if s.Status != SprintActive {
		return fmt.Errorf("can only complete an active sprint, got %s: %w", s.Status, ErrInvalidTransition)
	}
	s.Status = SprintCompleted
	s.UpdatedAt = now
	return nil
}

// TransitionTo applies the requested target status.
func (s *Sprint) TransitionTo(target SprintStatus, now time.Time) error {
	switch target {
	case SprintActive:
		return s.Activate(now)
	case SprintCompleted:
		return s.Complete(now)
	default:
		return fmt.Errorf("cannot move sprint to %q: %w", target, ErrInvalidTransition)
	}
}

// CheckMutable reports whether batches in the sprint may be moved, reordered
// or deleted.
func (s *Sprint) CheckMutable() error {
	switch s.Status {
	case SprintPlanned:
		return fmt.Errorf("sprint %q: %w", s.Name, ErrSprintNotStarted)
	case SprintCompleted:
		return fmt.Errorf("sprint %q: %w", s.Name, ErrSprintClosed)
	}
	return nil
}

// CheckAcceptsNewBatches reports whether new batches may be created in the
// sprint. Planning a sprint means filling it, so only COMPLETED refuses.
func (s *Sprint) CheckAcceptsNewBatches() error {
	if s.Status == SprintCompleted {
		return fmt.Errorf("sprint %q: %w", s.Name, ErrSprintClosed)
	}
	return nil
}
