package picking

import (
	"context"
	"fmt"
	"strings"

	"github.com/vsinha/picking/pkg/domain/entities"
	"github.com/vsinha/picking/pkg/domain/repositories"
)

// BatchComparator orders batches for first-expired-first-out picking
type BatchComparator func(a, b entities.BatchID) int

// CreateBatchExpirationComparator loads metadata for batchIDs and returns a
// total order: ascending expiration date, then batches without a known
// expiration, then untracked stock (empty batch id). Equal dates are ordered
// by batch id. The order only depends on the metadata, never on input order.
func CreateBatchExpirationComparator(
	ctx context.Context,
	source repositories.BatchMetadataSource,
	batchIDs []entities.BatchID,
) (BatchComparator, error) {
	seen := make(map[entities.BatchID]bool)
	var ids []entities.BatchID
	for _, id := range batchIDs {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	batches := map[entities.BatchID]entities.BatchInfo{}
	if len(ids) > 0 {
		var err error
		batches, err = source.GetBatches(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load batch metadata: %w", err)
		}
	}

	return func(a, b entities.BatchID) int {
		if a == b {
			return 0
		}
		if result := compareInts(batchRank(a, batches), batchRank(b, batches)); result != 0 {
			return result
		}
		if result := compareExpiration(batches[a], batches[b]); result != 0 {
			return result
		}
		return strings.Compare(string(a), string(b))
	}, nil
}

// batchRank: 0 = known expiration, 1 = no known expiration, 2 = untracked
func batchRank(id entities.BatchID, batches map[entities.BatchID]entities.BatchInfo) int {
	if id == "" {
		return 2
	}
	if info, ok := batches[id]; ok && info.HasExpiration() {
		return 0
	}
	return 1
}

func compareExpiration(a, b entities.BatchInfo) int {
	if !a.HasExpiration() || !b.HasExpiration() {
		return 0
	}
	return a.ExpirationDate.Compare(b.ExpirationDate)
}
