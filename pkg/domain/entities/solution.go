package entities

import (
	"fmt"
	"strings"
)

// PickingSolution is the ordered list of picks. Every entry has a positive
// quantity; BatchID is empty when picking without batch tracking.
type PickingSolution []BatchQuantityLocation

// TotalFor sums the picked quantity of a product
func (s PickingSolution) TotalFor(productID ProductID) Quantity {
	var total Quantity
	for _, pick := range s {
		if pick.ProductID == productID {
			total += pick.Quantity
		}
	}
	return total
}

// Products returns the distinct products in order of first appearance
func (s PickingSolution) Products() []ProductID {
	seen := make(map[ProductID]bool)
	var products []ProductID
	for _, pick := range s {
		if !seen[pick.ProductID] {
			seen[pick.ProductID] = true
			products = append(products, pick.ProductID)
		}
	}
	return products
}

// Locations returns the number of distinct locations visited
func (s PickingSolution) Locations() int {
	seen := make(map[StockLocationReference]bool)
	for _, pick := range s {
		seen[pick.Location] = true
	}
	return len(seen)
}

// Clone returns an independent copy
func (s PickingSolution) Clone() PickingSolution {
	if s == nil {
		return nil
	}
	return append(PickingSolution(nil), s...)
}

// StockShortage is the deficit of one under-fulfilled product
type StockShortage struct {
	ProductID       ProductID `json:"product_id"`
	QuantityMissing Quantity  `json:"quantity_missing"`
	ProductNumber   string    `json:"product_number"`
}

// Outcome is the terminal state of a picking calculation
type Outcome int

const (
	OutcomeComplete Outcome = iota
	OutcomePartialShortage
)

// String method for Outcome enum
func (o Outcome) String() string {
	switch o {
	case OutcomeComplete:
		return "Complete"
	case OutcomePartialShortage:
		return "PartialShortage"
	default:
		return "Unknown"
	}
}

// PickingResult is either a complete solution or a routed partial solution
// together with the shortages that prevented completion
type PickingResult struct {
	Outcome   Outcome
	Solution  PickingSolution
	Shortages []StockShortage
}

// HasShortage reports whether the demand could not be met in full
func (r *PickingResult) HasShortage() bool {
	return r.Outcome == OutcomePartialShortage
}

// ProductNumbers returns the product numbers of all short products
func (r *PickingResult) ProductNumbers() []string {
	numbers := make([]string, 0, len(r.Shortages))
	for _, shortage := range r.Shortages {
		numbers = append(numbers, shortage.ProductNumber)
	}
	return numbers
}

// Err returns nil for a complete result and a *ShortageError otherwise
func (r *PickingResult) Err() error {
	if !r.HasShortage() {
		return nil
	}
	return &ShortageError{
		PartialSolution: r.Solution.Clone(),
		Shortages:       append([]StockShortage(nil), r.Shortages...),
		ProductNumbers:  r.ProductNumbers(),
	}
}

// ShortageError lets callers treat a shortage as fatal without losing the
// partial solution
type ShortageError struct {
	PartialSolution PickingSolution
	Shortages       []StockShortage
	ProductNumbers  []string
}

func (e *ShortageError) Error() string {
	parts := make([]string, len(e.Shortages))
	for i, shortage := range e.Shortages {
		name := shortage.ProductNumber
		if name == "" {
			name = string(shortage.ProductID)
		}
		parts[i] = fmt.Sprintf("%s missing %d", name, shortage.QuantityMissing)
	}
	return "insufficient stock: " + strings.Join(parts, ", ")
}
