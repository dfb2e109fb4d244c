package cli

import (
	"testing"

	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityFlag(t *testing.T) {
	var p priorityValue
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addPriorityFlag(fs, &p, domain.PriorityMedium, "")

	require.NoError(t, fs.Parse(nil))
	assert.Equal(t, priorityValue(domain.PriorityMedium), p, "default applies")

	require.NoError(t, fs.Parse([]string{"--priority", "urgent"}))
	assert.Equal(t, priorityValue(domain.PriorityUrgent), p)

	assert.Error(t, fs.Parse([]string{"--priority", "soon"}))
}

func TestUnitFlag(t *testing.T) {
	var u unitValue
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addUnitFlag(fs, &u, domain.UnitPieces, "")

	require.NoError(t, fs.Parse([]string{"--unit", "Kilogram"}))
	assert.Equal(t, unitValue(domain.UnitKilogram), u)

	err := fs.Parse([]string{"--unit", "litre"})
	assert.ErrorContains(t, err, "PIECES")
}

func TestIssueCmd_RejectsUnknownPriority(t *testing.T) {
	a := testApp(t)
	seedPlant(t, a)

	_, err := executeCmd(t, a, "issue", "add", "-p", "PLT", "--item", "Bolt-A", "--qty", "1", "--priority", "soon")
	assert.ErrorContains(t, err, "LOW, MEDIUM, HIGH, URGENT")
}
