package picking

import "github.com/vsinha/picking/pkg/domain/entities"

// Partition splits candidate stock into rows that satisfy their product's
// full demand from a single bin ("preferred") and everything else.
// Input order is kept within both partitions.
func Partition(
	candidates []entities.BatchQuantityLocation,
	demand map[entities.ProductID]entities.Quantity,
) (preferred, remaining []entities.BatchQuantityLocation) {
	for _, row := range candidates {
		if isPreferred(row, demand[row.ProductID]) {
			preferred = append(preferred, row)
		} else {
			remaining = append(remaining, row)
		}
	}
	return preferred, remaining
}

func isPreferred(row entities.BatchQuantityLocation, requested entities.Quantity) bool {
	if requested <= 0 || row.Quantity < requested {
		return false
	}

	switch row.Location.Kind {
	case entities.KindBin:
		return true
	case entities.KindUnknown, entities.KindProcess, entities.KindWarehouse:
		// never preferred, whatever the quantity
		return false
	default:
		return false
	}
}
