package events

import (
	"github.com/vsinha/picking/pkg/domain/entities"
)

const (
	PickingCalculatedEvent  = "picking.calculated"
	ShortageIdentifiedEvent = "picking.shortage_identified"
)

// PickingCalculated is recorded for every finished picking run
type PickingCalculated struct {
	RunID    string                    `json:"run_id"`
	Request  []entities.ProductQuantity `json:"request"`
	Area     string                    `json:"area"`
	Outcome  string                    `json:"outcome"`
	Solution entities.PickingSolution  `json:"solution"`
}

// ShortageIdentified is recorded when a run could not satisfy its demand
type ShortageIdentified struct {
	RunID     string                   `json:"run_id"`
	Shortages []entities.StockShortage `json:"shortages"`
}
