package domain

import (
	"fmt"
	"regexp"
	"time"
)

var projectKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,9}$`)

type Project struct {
	ID             string
	OrganizationID string
	Name           string
	Key            string
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateKey checks that Key is non-empty and matches the required format:
// an uppercase letter followed by 1-9 uppercase letters or digits (e.g. FAB, LINE2).
func (p *Project) ValidateKey() error {
	if p.Key == "" {
		return fmt.Errorf("project key is required (use --key flag): %w", ErrInvalidInput)
	}
	if !projectKeyPattern.MatchString(p.Key) {
		return fmt.Errorf("project key %q must be 2-10 uppercase letters or digits starting with a letter (e.g. FAB): %w", p.Key, ErrInvalidInput)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers Key; if empty it truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if p.Key != "" {
		return p.Key
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
