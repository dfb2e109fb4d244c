package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorValidate(t *testing.T) {
	assert.NoError(t, Actor{UserID: "u", OrganizationID: "o"}.Validate())
	assert.ErrorIs(t, Actor{UserID: "u"}.Validate(), ErrUnauthorized)
	assert.ErrorIs(t, Actor{OrganizationID: "o"}.Validate(), ErrUnauthorized)
}

func TestActorRequireAdmin(t *testing.T) {
	assert.NoError(t, Actor{UserID: "u", OrganizationID: "o", Role: RoleAdmin}.RequireAdmin())
	assert.ErrorIs(t, Actor{UserID: "u", OrganizationID: "o", Role: RoleMember}.RequireAdmin(), ErrUnauthorized)
	assert.ErrorIs(t, Actor{Role: RoleAdmin}.RequireAdmin(), ErrUnauthorized)
}

func TestActorCanAccess(t *testing.T) {
	a := Actor{UserID: "u", OrganizationID: "org-1"}
	assert.True(t, a.CanAccess("org-1"))
	assert.False(t, a.CanAccess("org-2"))
	assert.False(t, Actor{}.CanAccess(""))
}
