package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vsinha/picking/pkg/application/dto"
	"github.com/vsinha/picking/pkg/application/services/picking"
	"github.com/vsinha/picking/pkg/domain/entities"
	"github.com/vsinha/picking/pkg/domain/repositories"
	"github.com/vsinha/picking/pkg/infrastructure/events"
)

// PickingService runs the picking engine for a request and records the run:
// it assigns a run id, logs the outcome, publishes events and builds a report
type PickingService struct {
	engine *picking.Engine
	events events.EventStore
	logger *zap.Logger
	now    func() time.Time
}

// NewPickingService creates a new picking service over the given collaborators
func NewPickingService(
	catalog repositories.StockCatalogReader,
	batches repositories.BatchMetadataSource,
	topology repositories.WarehouseTopologySource,
	toggles repositories.FeatureToggles,
	store events.EventStore,
	logger *zap.Logger,
) *PickingService {
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := picking.NewEngineWithConfig(catalog, batches, topology, toggles, picking.EngineConfig{
		StageObserver: func(stage picking.Stage) {
			logger.Debug("picking stage", zap.Stringer("stage", stage))
		},
	})

	return &PickingService{
		engine: engine,
		events: store,
		logger: logger,
		now:    time.Now,
	}
}

// Pick calculates and routes a picking solution for request. A shortage is
// reported, not returned as an error.
func (s *PickingService) Pick(ctx context.Context, request entities.PickingRequest) (*dto.PickingReport, error) {
	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID))
	started := s.now()

	log.Info("Calculating picking solution",
		zap.Int("products", len(request.ProductsToPick)),
		zap.Stringer("area", request.SourceStockArea))

	result, err := s.engine.CalculatePickingSolution(ctx, request)
	if err != nil {
		log.Error("Picking calculation failed", zap.Error(err))
		return nil, fmt.Errorf("picking run %s: %w", runID, err)
	}

	aisleChanges, err := s.engine.Router().AisleChanges(ctx, result.Solution)
	if err != nil {
		return nil, fmt.Errorf("picking run %s: failed to count aisle changes: %w", runID, err)
	}

	report := dto.NewPickingReport(runID, request, result, aisleChanges, started, s.now().Sub(started))

	if err := s.publish(runID, request, result); err != nil {
		return nil, err
	}

	if result.HasShortage() {
		log.Warn("Picking solution is partial",
			zap.Int("picks", len(result.Solution)),
			zap.Int("shortages", len(result.Shortages)),
			zap.Strings("product_numbers", result.ProductNumbers()))
	} else {
		log.Info("Picking solution complete",
			zap.Int("picks", len(result.Solution)),
			zap.Int("locations", report.Locations),
			zap.Int("aisle_changes", aisleChanges))
	}

	return report, nil
}

func (s *PickingService) publish(runID string, request entities.PickingRequest, result *entities.PickingResult) error {
	if s.events == nil {
		return nil
	}

	calculated := events.NewEvent(events.PickingCalculatedEvent, runID, events.PickingCalculated{
		RunID:    runID,
		Request:  request.ProductsToPick,
		Area:     request.SourceStockArea.String(),
		Outcome:  result.Outcome.String(),
		Solution: result.Solution,
	})
	if err := s.events.AppendEvent(runID, calculated); err != nil {
		return fmt.Errorf("failed to record %s: %w", events.PickingCalculatedEvent, err)
	}

	if !result.HasShortage() {
		return nil
	}

	shortage := events.NewEvent(events.ShortageIdentifiedEvent, runID, events.ShortageIdentified{
		RunID:     runID,
		Shortages: result.Shortages,
	})
	if err := s.events.AppendEvent(runID, shortage); err != nil {
		return fmt.Errorf("failed to record %s: %w", events.ShortageIdentifiedEvent, err)
	}
	return nil
}
