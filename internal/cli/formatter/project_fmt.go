package formatter

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/lotline/internal/domain"
)

// FormatProjectList renders the organization's projects inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"KEY", "NAME", "ID", "DESCRIPTION"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		desc := p.Description
		if desc == "" {
			desc = Dim("--")
		}
		rows = append(rows, []string{StylePurple.Render(p.DisplayID()), Bold(p.Name), TruncID(p.ID), desc})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatStageList renders a project's pipeline in order. Protected stages
// carry a lock and the terminal stage is marked as consuming.
func FormatStageList(stages []*domain.Stage) string {
	headers := []string{"ORDER", "KEY", "NAME", "FLAGS"}
	rows := make([][]string, 0, len(stages))
	for _, s := range stages {
		flags := ""
		if s.IsProtected {
			flags += StyleYellow.Render("◆ protected")
		}
		if s.IsTerminal {
			if flags != "" {
				flags += " "
			}
			flags += StyleRed.Render("⇥ consumes")
		}
		rows = append(rows, []string{strconv.Itoa(s.Order), Bold(s.Key), s.Name, flags})
	}
	return RenderTable(headers, rows, 0)
}

// FormatItemList renders the item catalog with reorder thresholds.
func FormatItemList(items []*domain.Item) string {
	headers := []string{"NAME", "REORDER AT", "ID"}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{Bold(it.Name), fmt.Sprint(it.ReorderValue), TruncID(it.ID)})
	}
	return RenderTable(headers, rows, 1)
}
