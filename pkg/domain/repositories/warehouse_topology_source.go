package repositories

import (
	"context"

	"github.com/vsinha/picking/pkg/domain/entities"
)

// WarehouseTopologySource provides bin priorities and walking coordinates.
// Unknown bin ids are omitted from the result.
type WarehouseTopologySource interface {
	GetBinLocations(
		ctx context.Context,
		binIDs []entities.BinLocationID,
	) (map[entities.BinLocationID]entities.BinLocationInfo, error)
}
