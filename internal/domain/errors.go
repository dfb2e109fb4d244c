package domain

import "errors"

// Ledger errors. Callers match them with errors.Is; services wrap them with
// context but never replace them.
var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrNotFound             = errors.New("not found")
	ErrInsufficientQuantity = errors.New("insufficient quantity available")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInvalidTransition    = errors.New("invalid sprint transition")
	ErrCannotDelete         = errors.New("cannot delete a split batch; remove its children first")
	ErrDuplicateStage       = errors.New("stage name or order already exists in project")
	ErrDuplicateProject     = errors.New("project key already exists in organization")
	ErrProtectedStage       = errors.New("stage is protected")
	ErrSprintNotStarted     = errors.New("sprint has not started")
	ErrSprintClosed         = errors.New("sprint is completed")
	ErrInvalidSprintWindow  = errors.New("sprint end date precedes start date")
	ErrInvalidOrder         = errors.New("invalid stage ordering")
	ErrConcurrentUpdate     = errors.New("batch was modified concurrently")
	ErrOperationFailed      = errors.New("operation failed")
	ErrInvalidInput         = errors.New("invalid input")
)
