package repositories

import "context"

// Feature names checked by the picking engine
const (
	FeatureBatchManagement = "batch-management"
)

// FeatureToggles is a boolean capability check
type FeatureToggles interface {
	IsEnabled(ctx context.Context, feature string) (bool, error)
}
