package domain

// InventoryRow is the summed quantity of one item at one stage.
type InventoryRow struct {
	ItemID       string
	ItemName     string
	ReorderValue int
	StageID      string
	StageKey     string
	StageOrder   int
	Quantity     int
}

// ItemStock rolls InventoryRows up per item.
type ItemStock struct {
	ItemID       string
	ItemName     string
	ReorderValue int
	ByStage      map[string]int // keyed by stage key
	// StockQuantity is the quantity held at the stock stage.
	StockQuantity int
	LowStock      bool
}

// RollUpInventory groups rows by item, preserving first-seen item order, and
// flags items whose quantity at stockStageKey is at or below the reorder value.
// A row with an empty StageKey stands for an item that has no batches.
func RollUpInventory(rows []InventoryRow, stockStageKey string) []ItemStock {
	index := make(map[string]int)
	var stocks []ItemStock
	for _, r := range rows {
		pos, ok := index[r.ItemID]
		if !ok {
			pos = len(stocks)
			index[r.ItemID] = pos
			stocks = append(stocks, ItemStock{
				ItemID:       r.ItemID,
				ItemName:     r.ItemName,
				ReorderValue: r.ReorderValue,
				ByStage:      make(map[string]int),
			})
		}
		if r.StageKey != "" {
			stocks[pos].ByStage[r.StageKey] += r.Quantity
		}
	}
	for i := range stocks {
		stocks[i].StockQuantity = stocks[i].ByStage[stockStageKey]
		stocks[i].LowStock = stocks[i].StockQuantity <= stocks[i].ReorderValue
	}
	return stocks
}
