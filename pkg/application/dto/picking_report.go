package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/picking/pkg/domain/entities"
)

// ProductFill summarizes how well one requested product was served
type ProductFill struct {
	ProductID     entities.ProductID `json:"product_id"`
	ProductNumber string             `json:"product_number,omitempty"`
	Requested     entities.Quantity  `json:"requested"`
	Picked        entities.Quantity  `json:"picked"`
	Missing       entities.Quantity  `json:"missing"`
	FillRate      decimal.Decimal    `json:"fill_rate"`
}

// PickingReport contains the complete output of a picking run
type PickingReport struct {
	RunID        string                   `json:"run_id"`
	Outcome      string                   `json:"outcome"`
	Solution     entities.PickingSolution `json:"solution"`
	Shortages    []entities.StockShortage `json:"shortages,omitempty"`
	Products     []ProductFill            `json:"products"`
	FillRate     decimal.Decimal          `json:"fill_rate"`
	Locations    int                      `json:"locations"`
	AisleChanges int                      `json:"aisle_changes"`
	CalculatedAt time.Time                `json:"calculated_at"`
	Duration     time.Duration            `json:"duration"`
}

// fillRatePlaces is the precision of reported fill rates
const fillRatePlaces = 4

// NewPickingReport builds the report of result for request
func NewPickingReport(
	runID string,
	request entities.PickingRequest,
	result *entities.PickingResult,
	aisleChanges int,
	calculatedAt time.Time,
	duration time.Duration,
) *PickingReport {
	numbers := make(map[entities.ProductID]string, len(result.Shortages))
	missing := make(map[entities.ProductID]entities.Quantity, len(result.Shortages))
	for _, shortage := range result.Shortages {
		numbers[shortage.ProductID] = shortage.ProductNumber
		missing[shortage.ProductID] = shortage.QuantityMissing
	}

	var totalRequested, totalPicked entities.Quantity
	products := make([]ProductFill, 0, len(request.ProductsToPick))
	for _, pq := range request.ProductsToPick {
		picked := result.Solution.TotalFor(pq.ProductID)
		products = append(products, ProductFill{
			ProductID:     pq.ProductID,
			ProductNumber: numbers[pq.ProductID],
			Requested:     pq.Quantity,
			Picked:        picked,
			Missing:       missing[pq.ProductID],
			FillRate:      fillRate(picked, pq.Quantity),
		})
		totalRequested += pq.Quantity
		totalPicked += picked
	}

	return &PickingReport{
		RunID:        runID,
		Outcome:      result.Outcome.String(),
		Solution:     result.Solution,
		Shortages:    result.Shortages,
		Products:     products,
		FillRate:     fillRate(totalPicked, totalRequested),
		Locations:    result.Solution.Locations(),
		AisleChanges: aisleChanges,
		CalculatedAt: calculatedAt,
		Duration:     duration,
	}
}

// fillRate returns picked/requested; an empty request counts as fully served
func fillRate(picked, requested entities.Quantity) decimal.Decimal {
	if requested <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(picked)).
		Div(decimal.NewFromInt(int64(requested))).
		Round(fillRatePlaces)
}

// IsComplete reports whether every requested product was picked in full
func (r *PickingReport) IsComplete() bool {
	return len(r.Shortages) == 0
}

// GetSummary returns a one-line description of the run
func (r *PickingReport) GetSummary() string {
	summary := fmt.Sprintf("Run %s: %s, %d picks at %d locations, %d aisle changes, fill rate %s%%",
		r.RunID, r.Outcome, len(r.Solution), r.Locations, r.AisleChanges,
		r.FillRate.Mul(decimal.NewFromInt(100)).StringFixed(2))

	if len(r.Shortages) == 0 {
		return summary
	}

	short := make([]string, len(r.Shortages))
	for i, shortage := range r.Shortages {
		name := shortage.ProductNumber
		if name == "" {
			name = string(shortage.ProductID)
		}
		short[i] = fmt.Sprintf("%s (-%d)", name, shortage.QuantityMissing)
	}
	return summary + "; short: " + strings.Join(short, ", ")
}
