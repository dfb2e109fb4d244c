package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/lotline/internal/cli/formatter"
	"github.com/alexanderramin/lotline/internal/domain"
)

// resolveProject accepts a project key or id.
func resolveProject(ctx context.Context, app *App, actor domain.Actor, ref string) (*domain.Project, error) {
	if ref == "" {
		return nil, fmt.Errorf("project is required (use --project with a key such as PLT)")
	}
	p, err := app.Projects.Resolve(ctx, actor, ref)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", ref, err)
	}
	return p, nil
}

// resolveItem accepts an item id or name (case-insensitive).
func resolveItem(ctx context.Context, app *App, actor domain.Actor, projectID, ref string) (*domain.Item, error) {
	items, err := app.Items.List(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.ID == ref {
			return it, nil
		}
	}
	var matches []*domain.Item
	for _, it := range items {
		if strings.EqualFold(it.Name, ref) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("item %q: %w", ref, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("item name %q is ambiguous (%d matches); use the id", ref, len(matches))
	}
}

// resolveSprint accepts a sprint id, or a name or id prefix within projectID.
func resolveSprint(ctx context.Context, app *App, actor domain.Actor, projectID, ref string) (*domain.Sprint, error) {
	sp, err := app.Sprints.GetByID(ctx, actor, ref)
	if err == nil || !errors.Is(err, domain.ErrNotFound) || projectID == "" {
		return sp, err
	}

	sprints, err := app.Sprints.List(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	var matches []*domain.Sprint
	for _, s := range sprints {
		if strings.EqualFold(s.Name, ref) || strings.HasPrefix(s.ID, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("sprint %q: %w", ref, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("sprint %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// resolveIssue accepts a full batch id, or an id prefix when the project is
// known.
func resolveIssue(ctx context.Context, app *App, actor domain.Actor, projectRef, ref string) (*domain.IssueView, error) {
	v, err := app.Issues.GetByID(ctx, actor, ref)
	if err == nil || !errors.Is(err, domain.ErrNotFound) || projectRef == "" {
		return v, err
	}

	p, err := resolveProject(ctx, app, actor, projectRef)
	if err != nil {
		return nil, err
	}
	views, err := app.Issues.ListByProject(ctx, actor, p.ID)
	if err != nil {
		return nil, err
	}
	var matches []*domain.IssueView
	for _, iv := range views {
		if strings.HasPrefix(iv.ID, ref) {
			matches = append(matches, iv)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("batch %q: %w", ref, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("batch id prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// resolveAssignee maps an external user id to a stored user id. "none"
// clears the assignee.
func resolveAssignee(ctx context.Context, app *App, ref string) (*string, error) {
	if ref == "" || strings.EqualFold(ref, "none") {
		return nil, nil
	}
	u, err := app.Users.GetByExternalID(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("assignee %q: %w", ref, err)
	}
	return &u.ID, nil
}

// stageNames loads the stage keys of every project in projectIDs for track
// rendering.
func stageNames(ctx context.Context, app *App, actor domain.Actor, projectIDs ...string) (formatter.StageNames, error) {
	names := make(formatter.StageNames)
	seen := make(map[string]bool)
	for _, id := range projectIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		stages, err := app.Stages.List(ctx, actor, id)
		if err != nil {
			return nil, err
		}
		for k, v := range formatter.NewStageNames(stages) {
			names[k] = v
		}
	}
	return names, nil
}
