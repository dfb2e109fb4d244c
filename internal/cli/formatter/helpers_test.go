package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months future", now.Add(90 * 24 * time.Hour), "In 3mo"},
		{"2 weeks past", now.Add(-14 * 24 * time.Hour), "2w ago"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestSprintWindow(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	sp := &domain.Sprint{StartDate: now.AddDate(0, 0, 3), EndDate: now.AddDate(0, 0, 17)}

	assert.Equal(t, "Feb 10 → Feb 24 (In 3d)", stripANSI(SprintWindow(sp, now)))

	sp.StartDate = now.AddDate(0, 0, -2)
	assert.Contains(t, stripANSI(SprintWindow(sp, now)), "(In 2w)", "running sprints count down to the end")
}

func TestQuantity(t *testing.T) {
	assert.Equal(t, "40 pcs", Quantity(40, domain.UnitPieces))
	assert.Equal(t, "3 kg", Quantity(3, domain.UnitKilogram))
	assert.Equal(t, "1 t", Quantity(1, domain.UnitTonne))
}

func TestUserName(t *testing.T) {
	assert.Equal(t, "--", stripANSI(UserName(nil)))
	assert.Equal(t, "ext-7", UserName(&domain.User{ExternalID: "ext-7"}))
	assert.Equal(t, "Ada", UserName(&domain.User{ExternalID: "ext-7", Name: "Ada"}))
}

func TestRenderTable_RightAlign(t *testing.T) {
	out := stripANSI(RenderTable([]string{"ITEM", "QTY"}, [][]string{{"Bolt", "5"}, {"Nut", "120"}}, 1))
	assert.Contains(t, out, "Bolt    5\n")
	assert.Contains(t, out, "Nut   120\n")
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(nil, nil))
}
