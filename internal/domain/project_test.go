package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKey_Valid(t *testing.T) {
	cases := []string{"FAB", "LINE2", "AB", "WORKSHOP01"}
	for _, key := range cases {
		p := &Project{Key: key}
		assert.NoError(t, p.ValidateKey(), "should accept %q", key)
	}
}

func TestValidateKey_Empty(t *testing.T) {
	p := &Project{Key: ""}
	err := p.ValidateKey()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestValidateKey_Lowercase(t *testing.T) {
	p := &Project{Key: "fab"}
	err := p.ValidateKey()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uppercase")
}

func TestValidateKey_LeadingDigit(t *testing.T) {
	p := &Project{Key: "1FAB"}
	assert.Error(t, p.ValidateKey())
}

func TestValidateKey_TooLong(t *testing.T) {
	p := &Project{Key: "ABCDEFGHIJK"}
	assert.Error(t, p.ValidateKey())
}

func TestDisplayID_WithKey(t *testing.T) {
	p := &Project{ID: "550e8400-e29b-41d4-a716-446655440000", Key: "FAB"}
	assert.Equal(t, "FAB", p.DisplayID())
}

func TestDisplayID_WithoutKey(t *testing.T) {
	p := &Project{ID: "550e8400-e29b-41d4-a716-446655440000"}
	assert.Equal(t, "550e8400", p.DisplayID())
}

func TestDisplayID_ShortUUID(t *testing.T) {
	p := &Project{ID: "abc"}
	assert.Equal(t, "abc", p.DisplayID())
}
