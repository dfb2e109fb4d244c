package domain

import (
	"fmt"
	"slices"
	"time"
)

// Issue is a batch: a quantity of one item sitting at one stage.
type Issue struct {
	ID          string
	ItemID      string
	Description string
	StatusID    string
	Order       int
	Priority    Priority
	AssigneeID  *string
	ReporterID  string
	ProjectID   string
	SprintID    *string
	// Track lists every stage id the batch and its lineage passed through.
	// It only ever grows.
	Track    []string
	Quantity int
	Unit     Unit
	ParentID *string
	// IsSplit is set on a parent once it has given part of its quantity away.
	IsSplit   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IssueView is an issue joined with the records a board needs to render it.
type IssueView struct {
	Issue
	Assignee *User
	Reporter *User
	Item     *Item
	Status   *Stage
}

// Validate checks the fields required before a batch is first persisted.
func (i *Issue) Validate() error {
	if i.Quantity <= 0 {
		return fmt.Errorf("quantity %d: %w", i.Quantity, ErrInvalidQuantity)
	}
	if !ValidPriorities[i.Priority] {
		return fmt.Errorf("priority %q: %w", i.Priority, ErrInvalidInput)
	}
	if !ValidUnits[i.Unit] {
		return fmt.Errorf("unit %q: %w", i.Unit, ErrInvalidInput)
	}
	return nil
}

type TransitionKind string

const (
	TransitionMoved             TransitionKind = "moved"
	TransitionSplit             TransitionKind = "split"
	TransitionConsumed          TransitionKind = "consumed"
	TransitionPartiallyConsumed TransitionKind = "partially_consumed"
)

// Move describes a request to send Quantity units of a batch to Destination.
type Move struct {
	Destination *Stage
	Priority    Priority
	AssigneeID  *string
	Quantity    int
}

// MoveOutcome tells the caller what to persist after ApplyMove.
type MoveOutcome struct {
	Kind TransitionKind
	// PreviousQuantity is the stored quantity before the move, used to guard
	// the write against concurrent decrements.
	PreviousQuantity int
	// Child is the split-off batch; set only for TransitionSplit.
	Child *Issue
}

// ApplyMove validates m against the batch and mutates it in place:
//
//   - full move to a terminal stage: nothing changes, the caller deletes the batch
//   - full move elsewhere: stage, priority and assignee change, track grows
//   - partial move to a terminal stage: quantity shrinks, IsSplit is set
//   - partial move elsewhere: as above, plus a child batch carrying the moved
//     quantity is returned for insertion; its track always ends with the
//     destination, even when that is the parent's own stage
func (i *Issue) ApplyMove(m Move, childID string, now time.Time) (MoveOutcome, error) {
	if m.Destination == nil || m.Destination.ProjectID != i.ProjectID {
		return MoveOutcome{}, fmt.Errorf("destination stage: %w", ErrNotFound)
	}
	if m.Quantity <= 0 {
		return MoveOutcome{}, fmt.Errorf("move quantity %d: %w", m.Quantity, ErrInvalidQuantity)
	}
	if m.Quantity > i.Quantity {
		return MoveOutcome{}, fmt.Errorf("moving %d of %d: %w", m.Quantity, i.Quantity, ErrInsufficientQuantity)
	}
	if m.Priority != "" && !ValidPriorities[m.Priority] {
		return MoveOutcome{}, fmt.Errorf("priority %q: %w", m.Priority, ErrInvalidInput)
	}
	priority := m.Priority
	if priority == "" {
		priority = i.Priority
	}

	out := MoveOutcome{PreviousQuantity: i.Quantity}

	if m.Quantity == i.Quantity {
		if m.Destination.IsTerminal {
			out.Kind = TransitionConsumed
			return out, nil
		}
		i.Track = ExtendTrack(i.Track, i.StatusID, m.Destination.ID)
		i.StatusID = m.Destination.ID
		i.Priority = priority
		i.AssigneeID = m.AssigneeID
		i.UpdatedAt = now
		out.Kind = TransitionMoved
		return out, nil
	}

	i.Quantity -= m.Quantity
	i.IsSplit = true
	i.UpdatedAt = now
	if m.Destination.IsTerminal {
		out.Kind = TransitionPartiallyConsumed
		return out, nil
	}

	parentID := i.ID
	out.Kind = TransitionSplit
	out.Child = &Issue{
		ID:          childID,
		ItemID:      i.ItemID,
		Description: i.Description,
		StatusID:    m.Destination.ID,
		Order:       i.Order,
		Priority:    priority,
		AssigneeID:  m.AssigneeID,
		ReporterID:  i.ReporterID,
		ProjectID:   i.ProjectID,
		SprintID:    i.SprintID,
		Track:       append(slices.Clone(i.Track), m.Destination.ID),
		Quantity:    m.Quantity,
		Unit:        i.Unit,
		ParentID:    &parentID,
		IsSplit:     false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return out, nil
}

// CheckDeletable enforces the lineage guard: a split parent keeps its
// history until its children are gone.
func (i *Issue) CheckDeletable() error {
	if i.IsSplit {
		return fmt.Errorf("batch %s: %w", i.ID, ErrCannotDelete)
	}
	return nil
}

// ExtendTrack returns a copy of track with dest appended, unless the batch is
// already at dest. Only whole-batch moves use it.
func ExtendTrack(track []string, current, dest string) []string {
	out := make([]string, len(track), len(track)+1)
	copy(out, track)
	if dest == current {
		return out
	}
	return append(out, dest)
}

// IsTrackPrefix reports whether prefix is a leading subsequence of track.
func IsTrackPrefix(prefix, track []string) bool {
	if len(prefix) > len(track) {
		return false
	}
	for i := range prefix {
		if prefix[i] != track[i] {
			return false
		}
	}
	return true
}
