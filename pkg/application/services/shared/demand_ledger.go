package shared

import (
	"github.com/vsinha/picking/pkg/domain/entities"
)

// DemandLedger tracks remaining demand per product while stock is consumed.
// Products keep the order in which they were first requested.
type DemandLedger struct {
	order       []entities.ProductID
	remaining   map[entities.ProductID]entities.Quantity
	outstanding int // products with remaining demand
}

// NewDemandLedger seeds a ledger from requested quantities. Lines with a
// non-positive quantity are ignored; repeated products are merged.
func NewDemandLedger(demand []entities.ProductQuantity) *DemandLedger {
	ledger := &DemandLedger{
		order:     make([]entities.ProductID, 0, len(demand)),
		remaining: make(map[entities.ProductID]entities.Quantity, len(demand)),
	}

	for _, pq := range demand {
		if pq.Quantity <= 0 {
			continue
		}
		if _, exists := ledger.remaining[pq.ProductID]; !exists {
			ledger.order = append(ledger.order, pq.ProductID)
			ledger.outstanding++
		}
		ledger.remaining[pq.ProductID] += pq.Quantity
	}

	return ledger
}

// Take consumes up to available units of the product's remaining demand and
// returns the quantity taken
func (l *DemandLedger) Take(productID entities.ProductID, available entities.Quantity) entities.Quantity {
	remaining := l.remaining[productID]
	if available <= 0 || remaining <= 0 {
		return 0
	}

	taken := min(available, remaining)
	l.remaining[productID] = remaining - taken
	if taken == remaining {
		l.outstanding--
	}
	return taken
}

// Size returns the number of products tracked
func (l *DemandLedger) Size() int {
	return len(l.order)
}

// IsSatisfied reports whether no product has remaining demand
func (l *DemandLedger) IsSatisfied() bool {
	return l.outstanding == 0
}

// Shortages returns one entry per under-fulfilled product, in request order.
// Product numbers are left empty for the caller to resolve.
func (l *DemandLedger) Shortages() []entities.StockShortage {
	var shortages []entities.StockShortage
	for _, productID := range l.order {
		if remaining := l.remaining[productID]; remaining > 0 {
			shortages = append(shortages, entities.StockShortage{
				ProductID:       productID,
				QuantityMissing: remaining,
			})
		}
	}
	return shortages
}
