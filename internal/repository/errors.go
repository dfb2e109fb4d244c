package repository

import (
	"strings"

	"github.com/alexanderramin/lotline/internal/domain"
)

// ErrNotFound is returned by Get* lookups when no row matches.
var ErrNotFound = domain.ErrNotFound

// isUniqueViolation reports whether err came from a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
