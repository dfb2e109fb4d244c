package formatter

import (
	"fmt"

	"github.com/alexanderramin/lotline/internal/app"
)

// FormatInventory renders one row per item with a column per stage and the
// stock stage's quantity compared against the reorder value.
func FormatInventory(r *app.InventoryReport) string {
	headers := []string{"ITEM"}
	right := []int{}
	for i, s := range r.Stages {
		headers = append(headers, s.Key)
		right = append(right, i+1)
	}
	headers = append(headers, "REORDER AT", "")
	right = append(right, len(r.Stages)+1)

	rows := make([][]string, 0, len(r.Items))
	for _, it := range r.Items {
		row := []string{Bold(it.ItemName)}
		for _, s := range r.Stages {
			qty := it.ByStage[s.Key]
			cell := fmt.Sprint(qty)
			if qty == 0 {
				cell = Dim("0")
			}
			row = append(row, cell)
		}
		status := StyleGreen.Render("ok")
		if it.LowStock {
			status = StyleRed.Render(fmt.Sprintf("▼ low (%s: %d)", r.StockStage, it.StockQuantity))
		}
		row = append(row, fmt.Sprint(it.ReorderValue), status)
		rows = append(rows, row)
	}

	title := "Inventory"
	if r.SprintID != nil {
		title = "Sprint inventory"
	}
	return RenderBox(title, RenderTable(headers, rows, right...))
}
