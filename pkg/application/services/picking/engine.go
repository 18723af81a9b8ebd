package picking

import (
	"context"
	"fmt"
	"sort"

	"github.com/vsinha/picking/pkg/domain/entities"
	"github.com/vsinha/picking/pkg/domain/repositories"
)

// Stage is a step of a picking calculation
type Stage int

const (
	StageStart Stage = iota
	StageStockRead
	StagePartitioned
	StageSorted
	StageSelected
	StageRouted
	StageDone
	StagePartialWithShortage
)

// String method for Stage enum
func (s Stage) String() string {
	switch s {
	case StageStart:
		return "Start"
	case StageStockRead:
		return "StockRead"
	case StagePartitioned:
		return "Partitioned"
	case StageSorted:
		return "Sorted"
	case StageSelected:
		return "Selected"
	case StageRouted:
		return "Routed"
	case StageDone:
		return "Done"
	case StagePartialWithShortage:
		return "PartialWithShortage"
	default:
		return "Unknown"
	}
}

// EngineConfig holds optional hooks of the picking engine
type EngineConfig struct {
	// StageObserver, when set, is called on every stage transition
	StageObserver func(Stage)
}

// Engine computes picking solutions. It never mutates stock and keeps no
// state between calls, so one Engine may serve concurrent requests as long
// as its collaborators are safe for concurrent use.
type Engine struct {
	catalog  repositories.StockCatalogReader
	batches  repositories.BatchMetadataSource
	topology repositories.WarehouseTopologySource
	toggles  repositories.FeatureToggles
	router   *RouteSequencer
	config   EngineConfig
}

// NewEngine creates a new picking engine with default configuration
func NewEngine(
	catalog repositories.StockCatalogReader,
	batches repositories.BatchMetadataSource,
	topology repositories.WarehouseTopologySource,
	toggles repositories.FeatureToggles,
) *Engine {
	return NewEngineWithConfig(catalog, batches, topology, toggles, EngineConfig{})
}

// NewEngineWithConfig creates a new picking engine with custom configuration
func NewEngineWithConfig(
	catalog repositories.StockCatalogReader,
	batches repositories.BatchMetadataSource,
	topology repositories.WarehouseTopologySource,
	toggles repositories.FeatureToggles,
	config EngineConfig,
) *Engine {
	return &Engine{
		catalog:  catalog,
		batches:  batches,
		topology: topology,
		toggles:  toggles,
		router:   NewRouteSequencer(topology),
		config:   config,
	}
}

// Router exposes the route sequencer used by the engine
func (e *Engine) Router() *RouteSequencer {
	return e.router
}

// CalculatePickingSolution decides which stock rows satisfy request and in
// which order to visit them. Invalid requests are rejected with
// entities.ErrInvalidRequest before any collaborator is called. A stock
// shortage is not an error: the result then carries the routed partial
// solution and one StockShortage per under-fulfilled product.
func (e *Engine) CalculatePickingSolution(ctx context.Context, request entities.PickingRequest) (*entities.PickingResult, error) {
	e.enter(StageStart)
	if err := request.Validate(); err != nil {
		return nil, err
	}

	strategy, err := e.selectStrategy(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := strategy.ReadCandidates(ctx, request)
	if err != nil {
		return nil, err
	}
	demand := request.Demand()
	candidates = pickableCandidates(candidates, demand)
	e.enter(StageStockRead)

	preferred, remaining := Partition(candidates, demand)
	e.enter(StagePartitioned)

	compare, err := strategy.Comparator(ctx, candidates)
	if err != nil {
		return nil, err
	}
	sortRows(preferred, compare)
	sortRows(remaining, compare)
	prioritized := make([]entities.BatchQuantityLocation, 0, len(candidates))
	prioritized = append(prioritized, preferred...)
	prioritized = append(prioritized, remaining...)
	e.enter(StageSorted)

	selection := SelectLocationsToPickFrom(prioritized, request.ProductsToPick)
	e.enter(StageSelected)

	routed, err := e.router.Route(ctx, selection.Solution)
	if err != nil {
		return nil, fmt.Errorf("failed to route picking solution: %w", err)
	}
	e.enter(StageRouted)

	if len(selection.Shortages) == 0 {
		e.enter(StageDone)
		return &entities.PickingResult{
			Outcome:  entities.OutcomeComplete,
			Solution: routed,
		}, nil
	}

	shortages, err := e.resolveProductNumbers(ctx, selection.Shortages)
	if err != nil {
		return nil, err
	}
	e.enter(StagePartialWithShortage)

	return &entities.PickingResult{
		Outcome:   entities.OutcomePartialShortage,
		Solution:  routed,
		Shortages: shortages,
	}, nil
}

func (e *Engine) selectStrategy(ctx context.Context) (stockStrategy, error) {
	batchManagement, err := e.toggles.IsEnabled(ctx, repositories.FeatureBatchManagement)
	if err != nil {
		return nil, fmt.Errorf("failed to check feature %s: %w", repositories.FeatureBatchManagement, err)
	}

	if batchManagement {
		return &batchStockStrategy{catalog: e.catalog, batches: e.batches, topology: e.topology}, nil
	}
	return &plainStockStrategy{catalog: e.catalog, topology: e.topology}, nil
}

func (e *Engine) resolveProductNumbers(ctx context.Context, shortages []entities.StockShortage) ([]entities.StockShortage, error) {
	productIDs := make([]entities.ProductID, len(shortages))
	for i, shortage := range shortages {
		productIDs[i] = shortage.ProductID
	}

	numbers, err := e.catalog.GetProductNumbers(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product numbers: %w", err)
	}

	resolved := make([]entities.StockShortage, len(shortages))
	for i, shortage := range shortages {
		shortage.ProductNumber = numbers[shortage.ProductID]
		resolved[i] = shortage
	}
	return resolved, nil
}

func (e *Engine) enter(stage Stage) {
	if e.config.StageObserver != nil {
		e.config.StageObserver(stage)
	}
}

// pickableCandidates drops rows that can never be picked: non-positive
// quantities and products outside the request
func pickableCandidates(
	candidates []entities.BatchQuantityLocation,
	demand map[entities.ProductID]entities.Quantity,
) []entities.BatchQuantityLocation {
	pickable := make([]entities.BatchQuantityLocation, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Quantity > 0 && demand[candidate.ProductID] > 0 {
			pickable = append(pickable, candidate)
		}
	}
	return pickable
}

func sortRows(rows []entities.BatchQuantityLocation, compare rowComparator) {
	sort.SliceStable(rows, func(i, j int) bool {
		return compare(rows[i], rows[j]) < 0
	})
}
