package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/picking/pkg/domain/entities"
	"github.com/vsinha/picking/pkg/domain/repositories"
)

// WarehouseTopology provides in-memory bin location storage
type WarehouseTopology struct {
	mutex sync.RWMutex
	bins  map[entities.BinLocationID]entities.BinLocationInfo
}

// NewWarehouseTopology creates a new in-memory warehouse topology
func NewWarehouseTopology(expectedBins int) *WarehouseTopology {
	return &WarehouseTopology{
		bins: make(map[entities.BinLocationID]entities.BinLocationInfo, expectedBins),
	}
}

// Verify interface compliance
var _ repositories.WarehouseTopologySource = (*WarehouseTopology)(nil)

// LoadBinLocations loads bin locations into the topology
func (r *WarehouseTopology) LoadBinLocations(bins []*entities.BinLocationInfo) error {
	for _, bin := range bins {
		r.AddBinLocation(*bin)
	}
	return nil
}

// AddBinLocation adds or replaces a bin location
func (r *WarehouseTopology) AddBinLocation(bin entities.BinLocationInfo) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.bins[bin.ID] = bin
}

// GetBinLocation returns a single bin location
func (r *WarehouseTopology) GetBinLocation(id entities.BinLocationID) (*entities.BinLocationInfo, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	bin, exists := r.bins[id]
	if !exists {
		return nil, fmt.Errorf("bin location not found: %s", id)
	}
	return &bin, nil
}

// GetBinLocations returns the known bin locations among binIDs
func (r *WarehouseTopology) GetBinLocations(
	ctx context.Context,
	binIDs []entities.BinLocationID,
) (map[entities.BinLocationID]entities.BinLocationInfo, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	bins := make(map[entities.BinLocationID]entities.BinLocationInfo, len(binIDs))
	for _, id := range binIDs {
		if bin, exists := r.bins[id]; exists {
			bins[id] = bin
		}
	}
	return bins, nil
}
