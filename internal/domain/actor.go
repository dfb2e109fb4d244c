package domain

import "fmt"

// Actor is the resolved identity behind a request. Every service call takes
// one explicitly; there is no ambient identity lookup.
type Actor struct {
	UserID         string
	OrganizationID string
	Role           Role
}

// Validate rejects an actor missing either identifier.
func (a Actor) Validate() error {
	if a.UserID == "" || a.OrganizationID == "" {
		return fmt.Errorf("missing user or organization: %w", ErrUnauthorized)
	}
	return nil
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// RequireAdmin validates the actor and checks the admin role.
func (a Actor) RequireAdmin() error {
	if err := a.Validate(); err != nil {
		return err
	}
	if !a.IsAdmin() {
		return fmt.Errorf("admin role required: %w", ErrUnauthorized)
	}
	return nil
}

// CanAccess reports whether the actor's tenant owns organizationID.
func (a Actor) CanAccess(organizationID string) bool {
	return a.OrganizationID != "" && a.OrganizationID == organizationID
}
