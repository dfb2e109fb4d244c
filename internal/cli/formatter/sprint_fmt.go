package formatter

import (
	"time"

	"github.com/alexanderramin/lotline/internal/domain"
)

// FormatSprintList renders a project's sprints with their windows.
func FormatSprintList(sprints []*domain.Sprint, now time.Time) string {
	headers := []string{"NAME", "STATUS", "WINDOW", "ID"}
	rows := make([][]string, 0, len(sprints))
	for _, s := range sprints {
		rows = append(rows, []string{Bold(s.Name), SprintStatusPill(s.Status), SprintWindow(s, now), TruncID(s.ID)})
	}
	return RenderBox("Sprints", RenderTable(headers, rows))
}
