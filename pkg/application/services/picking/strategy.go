package picking

import (
	"context"
	"fmt"

	"github.com/vsinha/picking/pkg/domain/entities"
	"github.com/vsinha/picking/pkg/domain/repositories"
)

// rowComparator orders candidate rows inside one partition
type rowComparator func(a, b entities.BatchQuantityLocation) int

// stockStrategy is the batch-aware or plain variant of reading and ordering
// candidate stock. One strategy is chosen per calculation.
type stockStrategy interface {
	ReadCandidates(ctx context.Context, request entities.PickingRequest) ([]entities.BatchQuantityLocation, error)
	Comparator(ctx context.Context, candidates []entities.BatchQuantityLocation) (rowComparator, error)
}

// plainStockStrategy picks without batch tracking: rows are ordered by location only
type plainStockStrategy struct {
	catalog  repositories.StockCatalogReader
	topology repositories.WarehouseTopologySource
}

func (s *plainStockStrategy) ReadCandidates(ctx context.Context, request entities.PickingRequest) ([]entities.BatchQuantityLocation, error) {
	stocks, err := s.catalog.GetPickableStocks(ctx, request.ProductIDs(), request.SourceStockArea)
	if err != nil {
		return nil, fmt.Errorf("failed to read pickable stocks: %w", err)
	}

	candidates := make([]entities.BatchQuantityLocation, len(stocks))
	for i, stock := range stocks {
		candidates[i] = stock.WithoutBatch()
	}
	return candidates, nil
}

func (s *plainStockStrategy) Comparator(ctx context.Context, candidates []entities.BatchQuantityLocation) (rowComparator, error) {
	locations, err := CreateLocationComparator(ctx, s.topology, candidateLocations(candidates))
	if err != nil {
		return nil, err
	}

	return func(a, b entities.BatchQuantityLocation) int {
		return locations(a.Location, b.Location)
	}, nil
}

// batchStockStrategy picks per batch: first-expired-first-out, then by location
type batchStockStrategy struct {
	catalog  repositories.StockCatalogReader
	batches  repositories.BatchMetadataSource
	topology repositories.WarehouseTopologySource
}

func (s *batchStockStrategy) ReadCandidates(ctx context.Context, request entities.PickingRequest) ([]entities.BatchQuantityLocation, error) {
	stocks, err := s.catalog.GetPickableBatchStocks(ctx, request.ProductIDs(), request.SourceStockArea)
	if err != nil {
		return nil, fmt.Errorf("failed to read pickable batch stocks: %w", err)
	}
	return stocks, nil
}

func (s *batchStockStrategy) Comparator(ctx context.Context, candidates []entities.BatchQuantityLocation) (rowComparator, error) {
	batchIDs := make([]entities.BatchID, len(candidates))
	for i, candidate := range candidates {
		batchIDs[i] = candidate.BatchID
	}

	expiration, err := CreateBatchExpirationComparator(ctx, s.batches, batchIDs)
	if err != nil {
		return nil, err
	}
	locations, err := CreateLocationComparator(ctx, s.topology, candidateLocations(candidates))
	if err != nil {
		return nil, err
	}

	return func(a, b entities.BatchQuantityLocation) int {
		if result := expiration(a.BatchID, b.BatchID); result != 0 {
			return result
		}
		return locations(a.Location, b.Location)
	}, nil
}

func candidateLocations(candidates []entities.BatchQuantityLocation) []entities.StockLocationReference {
	locations := make([]entities.StockLocationReference, len(candidates))
	for i, candidate := range candidates {
		locations[i] = candidate.Location
	}
	return locations
}
