package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly date relative to now.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// SprintWindow renders a sprint's dates as "Jan 2 → Jan 16 (In 3d)",
// the relative part pointing at the start before the sprint opens and at
// the end afterwards.
func SprintWindow(s *domain.Sprint, now time.Time) string {
	span := fmt.Sprintf("%s → %s", s.StartDate.Format("Jan 2"), s.EndDate.Format("Jan 2"))
	anchor := s.EndDate
	if now.Before(s.StartDate) {
		anchor = s.StartDate
	}
	return span + " " + Dim("("+RelativeDateFrom(anchor, now)+")")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	return StyleDim.Render(shortID(id))
}

// Quantity renders a batch quantity with its unit, e.g. "40 pcs".
func Quantity(qty int, unit domain.Unit) string {
	return fmt.Sprintf("%d %s", qty, unitAbbrev(unit))
}

func unitAbbrev(u domain.Unit) string {
	switch u {
	case domain.UnitPieces:
		return "pcs"
	case domain.UnitKilogram:
		return "kg"
	case domain.UnitGram:
		return "g"
	case domain.UnitTonne:
		return "t"
	case domain.UnitUnits:
		return "units"
	default:
		return strings.ToLower(string(u))
	}
}

// UserName returns the display name of an optional user.
func UserName(u *domain.User) string {
	if u == nil {
		return Dim("--")
	}
	if u.Name != "" {
		return u.Name
	}
	return u.ExternalID
}
