package memory

import (
	"context"
	"sync"

	"github.com/vsinha/picking/pkg/domain/entities"
	"github.com/vsinha/picking/pkg/domain/repositories"
)

// BatchRepository provides in-memory batch metadata
type BatchRepository struct {
	mutex   sync.RWMutex
	batches map[entities.BatchID]entities.BatchInfo
}

// NewBatchRepository creates a new in-memory batch repository
func NewBatchRepository(expectedBatches int) *BatchRepository {
	return &BatchRepository{
		batches: make(map[entities.BatchID]entities.BatchInfo, expectedBatches),
	}
}

// Verify interface compliance
var _ repositories.BatchMetadataSource = (*BatchRepository)(nil)

// LoadBatches loads batches into the repository
func (r *BatchRepository) LoadBatches(batches []*entities.BatchInfo) error {
	for _, batch := range batches {
		r.AddBatch(*batch)
	}
	return nil
}

// AddBatch adds or replaces a batch
func (r *BatchRepository) AddBatch(batch entities.BatchInfo) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.batches[batch.ID] = batch
}

// GetBatches returns metadata of the known batches among batchIDs
func (r *BatchRepository) GetBatches(
	ctx context.Context,
	batchIDs []entities.BatchID,
) (map[entities.BatchID]entities.BatchInfo, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	batches := make(map[entities.BatchID]entities.BatchInfo, len(batchIDs))
	for _, id := range batchIDs {
		if batch, exists := r.batches[id]; exists {
			batches[id] = batch
		}
	}
	return batches, nil
}
