package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/lotline/internal/app"
	"github.com/alexanderramin/lotline/internal/domain"
)

// StageNames maps stage ids to keys for track rendering.
type StageNames map[string]string

// NewStageNames indexes stages by id.
func NewStageNames(stages []*domain.Stage) StageNames {
	names := make(StageNames, len(stages))
	for _, s := range stages {
		names[s.ID] = s.Key
	}
	return names
}

func (n StageNames) name(id string) string {
	if key, ok := n[id]; ok {
		return key
	}
	return shortID(id)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatTrack renders a track as "TODO → PURCHASE → STORE" with the last
// stage highlighted. Ids missing from names (deleted stages) are shortened.
func FormatTrack(track []string, names StageNames) string {
	if len(track) == 0 {
		return Dim("--")
	}
	parts := make([]string, len(track))
	for i, id := range track {
		parts[i] = Dim(names.name(id))
	}
	parts[len(parts)-1] = StyleGreen.Render(names.name(track[len(track)-1]))
	return strings.Join(parts, Dim(" → "))
}

func issueItemName(v *domain.IssueView) string {
	if v.Item != nil {
		return v.Item.Name
	}
	return v.ItemID
}

func issueStageKey(v *domain.IssueView) string {
	if v.Status != nil {
		return v.Status.Key
	}
	return v.StatusID
}

func splitMark(v *domain.IssueView) string {
	switch {
	case v.IsSplit:
		return StylePurple.Render("⑂")
	case v.ParentID != nil:
		return StylePurple.Render("↳")
	default:
		return " "
	}
}

// FormatIssueList renders batches as a board table grouped in the order
// given.
func FormatIssueList(views []*domain.IssueView, names StageNames) string {
	headers := []string{"STAGE", "#", "ITEM", "QTY", "PRIORITY", "ASSIGNEE", "", "TRACK", "ID"}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			Bold(issueStageKey(v)),
			fmt.Sprint(v.Order),
			issueItemName(v),
			Quantity(v.Quantity, v.Unit),
			PriorityBadge(v.Priority),
			UserName(v.Assignee),
			splitMark(v),
			FormatTrack(v.Track, names),
			TruncID(v.ID),
		})
	}
	return RenderTable(headers, rows, 1, 3)
}

// FormatIssue renders one batch as a detail card.
func FormatIssue(v *domain.IssueView, names StageNames) string {
	var b strings.Builder
	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-9s", label)), value))
	}

	b.WriteString(StyleBold.Render(issueItemName(v)) + "  " + Quantity(v.Quantity, v.Unit) + "\n\n")
	field("STAGE", issueStageKey(v))
	field("PRIORITY", PriorityBadge(v.Priority))
	field("ASSIGNEE", UserName(v.Assignee))
	field("REPORTER", UserName(v.Reporter))
	field("TRACK", FormatTrack(v.Track, names))
	if v.ParentID != nil {
		field("PARENT", TruncID(*v.ParentID))
	}
	if v.IsSplit {
		field("SPLIT", StylePurple.Render("yes"))
	}
	if v.SprintID != nil {
		field("SPRINT", TruncID(*v.SprintID))
	}
	if v.Description != "" {
		field("NOTE", v.Description)
	}
	field("ID", Dim(v.ID))
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

// FormatTransition reports the outcome of a move in one line.
func FormatTransition(res *app.TransitionResult, moved int, names StageNames) string {
	if res.Deleted() {
		return fmt.Sprintf("%s batch %s consumed", StyleRed.Render("✖"), res.DeletedID)
	}
	v := res.Issue
	switch res.Kind {
	case domain.TransitionSplit:
		return fmt.Sprintf("%s split %d off into %s at %s (parent %s)",
			StylePurple.Render("⑂"), moved, v.ID, names.name(v.StatusID), TruncID(derefOr(v.ParentID, "")))
	case domain.TransitionPartiallyConsumed:
		return fmt.Sprintf("%s consumed %d, %s left in %s",
			StyleYellow.Render("◐"), moved, Quantity(v.Quantity, v.Unit), names.name(v.StatusID))
	default:
		return fmt.Sprintf("%s moved %s to %s", StyleGreen.Render("✔"), v.ID, names.name(v.StatusID))
	}
}

// FormatLineage renders the split ancestry of a batch as a tree from the
// root down, with the batch's own children below it.
func FormatLineage(l *app.Lineage, names StageNames) string {
	var items []TreeItem
	level := 0
	for i := len(l.Ancestors) - 1; i >= 0; i-- {
		a := l.Ancestors[i]
		items = append(items, TreeItem{
			Title:  fmt.Sprintf("%s %s", TruncID(a.ID), names.name(a.StatusID)),
			Level:  level,
			IsLast: true,
			Detail: Quantity(a.Quantity, a.Unit),
		})
		level++
	}
	items = append(items, TreeItem{
		Title:   fmt.Sprintf("%s %s", shortID(l.Issue.ID), names.name(l.Issue.StatusID)),
		Level:   level,
		IsLast:  true,
		Current: true,
		Detail:  Quantity(l.Issue.Quantity, l.Issue.Unit),
	})
	for i, c := range l.Children {
		items = append(items, TreeItem{
			Title:  fmt.Sprintf("%s %s", TruncID(c.ID), names.name(c.StatusID)),
			Level:  level + 1,
			IsLast: i == len(l.Children)-1,
			Detail: Quantity(c.Quantity, c.Unit),
		})
	}
	return RenderTree(items)
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
