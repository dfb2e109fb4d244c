package service

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/lotline/internal/domain"
)

// passThrough are the outcomes callers are expected to branch on; every
// other failure is reported as domain.ErrOperationFailed.
var passThrough = []error{
	domain.ErrUnauthorized,
	domain.ErrNotFound,
	domain.ErrInsufficientQuantity,
	domain.ErrInvalidQuantity,
	domain.ErrInvalidTransition,
	domain.ErrCannotDelete,
	domain.ErrDuplicateStage,
	domain.ErrDuplicateProject,
	domain.ErrProtectedStage,
	domain.ErrSprintNotStarted,
	domain.ErrSprintClosed,
	domain.ErrInvalidSprintWindow,
	domain.ErrInvalidOrder,
	domain.ErrOperationFailed,
	domain.ErrInvalidInput,
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), domain.ErrInvalidInput)
}

// classify wraps unexpected store failures in domain.ErrOperationFailed,
// keeping the cause matchable.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, target := range passThrough {
		if errors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrOperationFailed, err)
}
