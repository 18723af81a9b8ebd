package picking

import (
	"context"
	"fmt"

	"github.com/vsinha/picking/pkg/domain/entities"
	"github.com/vsinha/picking/pkg/domain/repositories"
	"github.com/vsinha/picking/pkg/domain/services"
)

// LocationComparator orders stock locations by picking priority.
// Returns a negative value if a is picked before b, 0 only for equal references.
type LocationComparator func(a, b entities.StockLocationReference) int

// unknownBinPriority ranks bins the topology does not know after all known bins
const unknownBinPriority = entities.PriorityChaotic + 1

// CreateLocationComparator loads topology for the bins among locations and
// returns a comparator ranking fixed bins before chaotic bins before
// bulk/unknown, process-bound and warehouse-scoped locations. Ties are broken
// by bin code, warehouse and location key.
func CreateLocationComparator(
	ctx context.Context,
	topology repositories.WarehouseTopologySource,
	locations []entities.StockLocationReference,
) (LocationComparator, error) {
	bins, err := loadBinLocations(ctx, topology, locations)
	if err != nil {
		return nil, err
	}

	codes := services.NewLocationCodeComparator()

	return func(a, b entities.StockLocationReference) int {
		if a == b {
			return 0
		}
		if rankA, rankB := kindRank(a.Kind), kindRank(b.Kind); rankA != rankB {
			return compareInts(rankA, rankB)
		}

		if a.Kind == entities.KindBin {
			infoA, knownA := bins[a.BinID]
			infoB, knownB := bins[b.BinID]
			if result := compareInts(binPriority(infoA, knownA), binPriority(infoB, knownB)); result != 0 {
				return result
			}
			if result := codes.Compare(binCode(a, infoA, knownA), binCode(b, infoB, knownB)); result != 0 {
				return result
			}
		}

		return a.Compare(b)
	}, nil
}

// loadBinLocations fetches topology for the distinct bins referenced by locations
func loadBinLocations(
	ctx context.Context,
	topology repositories.WarehouseTopologySource,
	locations []entities.StockLocationReference,
) (map[entities.BinLocationID]entities.BinLocationInfo, error) {
	seen := make(map[entities.BinLocationID]bool)
	var binIDs []entities.BinLocationID
	for _, location := range locations {
		if location.IsBinLocation() && !seen[location.BinID] {
			seen[location.BinID] = true
			binIDs = append(binIDs, location.BinID)
		}
	}

	if len(binIDs) == 0 {
		return map[entities.BinLocationID]entities.BinLocationInfo{}, nil
	}

	bins, err := topology.GetBinLocations(ctx, binIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load bin locations: %w", err)
	}
	return bins, nil
}

func kindRank(kind entities.LocationKind) int {
	switch kind {
	case entities.KindBin:
		return 0
	case entities.KindUnknown:
		return 1
	case entities.KindProcess:
		return 2
	case entities.KindWarehouse:
		return 3
	default:
		return 4
	}
}

func binPriority(info entities.BinLocationInfo, known bool) int {
	if !known {
		return int(unknownBinPriority)
	}
	return int(info.Priority)
}

func binCode(location entities.StockLocationReference, info entities.BinLocationInfo, known bool) string {
	if !known || info.Code == "" {
		return string(location.BinID)
	}
	return info.Code
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
