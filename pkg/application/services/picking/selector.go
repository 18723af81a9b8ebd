package picking

import (
	"github.com/vsinha/picking/pkg/application/services/shared"
	"github.com/vsinha/picking/pkg/domain/entities"
)

// Selection is the outcome of the greedy allocation walk
type Selection struct {
	Solution  entities.PickingSolution
	Shortages []entities.StockShortage
}

// SelectLocationsToPickFrom walks prioritizedStock in the given order and
// takes min(row quantity, remaining demand) from every row whose product
// still has outstanding demand. The stock order is the entire allocation
// policy: rows are never re-sorted. Demand lines with a non-positive quantity
// are ignored. Shortages carry no product numbers; callers resolve them.
func SelectLocationsToPickFrom(
	prioritizedStock []entities.BatchQuantityLocation,
	demand []entities.ProductQuantity,
) Selection {
	ledger := shared.NewDemandLedger(demand)
	solution := make(entities.PickingSolution, 0, ledger.Size())

	for _, row := range prioritizedStock {
		if ledger.IsSatisfied() {
			break
		}
		if row.Quantity <= 0 {
			continue
		}
		taken := ledger.Take(row.ProductID, row.Quantity)
		if taken == 0 {
			continue
		}
		solution = append(solution, row.WithQuantity(taken))
	}

	return Selection{
		Solution:  solution,
		Shortages: ledger.Shortages(),
	}
}
