package cli

import "github.com/alexanderramin/lotline/internal/app"

func (a *App) transitionIssueUseCase() app.TransitionIssueUseCase {
	if a.TransitionIssue != nil {
		return a.TransitionIssue
	}
	return a.Issues
}

func (a *App) reorderIssuesUseCase() app.ReorderIssuesUseCase {
	if a.ReorderIssues != nil {
		return a.ReorderIssues
	}
	return a.Reorder
}

func (a *App) inventoryUseCase() app.InventoryUseCase {
	if a.InventoryReport != nil {
		return a.InventoryReport
	}
	return a.Inventory
}
