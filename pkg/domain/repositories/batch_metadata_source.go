package repositories

import (
	"context"

	"github.com/vsinha/picking/pkg/domain/entities"
)

// BatchMetadataSource provides batch expiration data. Unknown batch ids are
// omitted from the result rather than reported as errors.
type BatchMetadataSource interface {
	GetBatches(ctx context.Context, batchIDs []entities.BatchID) (map[entities.BatchID]entities.BatchInfo, error)
}
