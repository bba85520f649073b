package domain

import "strings"

// StockStatus classifies a planned stock level against predicted demand.
type StockStatus string

const (
	StatusUnderstock StockStatus = "understock"
	StatusOptimal    StockStatus = "optimal"
	StatusOverstock  StockStatus = "overstock"
)

var stockStatuses = map[string]StockStatus{
	"understock": StatusUnderstock,
	"optimal":    StatusOptimal,
	"overstock":  StatusOverstock,
}

// ParseStockStatus returns the status for a given label (case-insensitive).
func ParseStockStatus(label string) (StockStatus, bool) {
	status, ok := stockStatuses[strings.ToLower(strings.TrimSpace(label))]

	return status, ok
}
