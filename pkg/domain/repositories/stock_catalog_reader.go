package repositories

import (
	"context"

	"github.com/vsinha/picking/pkg/domain/entities"
)

// StockCatalogReader provides access to pickable stock. Implementations must
// exclude stock reserved or committed elsewhere.
type StockCatalogReader interface {
	GetPickableStocks(
		ctx context.Context,
		productIDs []entities.ProductID,
		area entities.StockArea,
	) ([]entities.ProductQuantityLocation, error)
	GetPickableBatchStocks(
		ctx context.Context,
		productIDs []entities.ProductID,
		area entities.StockArea,
	) ([]entities.BatchQuantityLocation, error)
	// GetProductNumbers omits products without master data from the result
	GetProductNumbers(
		ctx context.Context,
		productIDs []entities.ProductID,
	) (map[entities.ProductID]string, error)
}
