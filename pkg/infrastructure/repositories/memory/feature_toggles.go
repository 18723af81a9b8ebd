package memory

import (
	"context"
	"sync"

	"github.com/vsinha/picking/pkg/domain/repositories"
)

// FeatureToggles holds feature flags in memory; unknown features are disabled
type FeatureToggles struct {
	mutex    sync.RWMutex
	features map[string]bool
}

// NewFeatureToggles creates toggles with the given features enabled
func NewFeatureToggles(enabled ...string) *FeatureToggles {
	toggles := &FeatureToggles{features: make(map[string]bool, len(enabled))}
	for _, feature := range enabled {
		toggles.features[feature] = true
	}
	return toggles
}

// Verify interface compliance
var _ repositories.FeatureToggles = (*FeatureToggles)(nil)

// Set enables or disables a feature
func (t *FeatureToggles) Set(feature string, enabled bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.features[feature] = enabled
}

// IsEnabled reports whether a feature is enabled
func (t *FeatureToggles) IsEnabled(ctx context.Context, feature string) (bool, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.features[feature], nil
}
