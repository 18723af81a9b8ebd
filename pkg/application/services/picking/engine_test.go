package picking

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/picking/pkg/domain/entities"
	"github.com/vsinha/picking/pkg/domain/repositories"
)

func TestEngine_CalculatePickingSolution(t *testing.T) {
	tests := []struct {
		name              string
		stock             []entities.BatchQuantityLocation
		demand            []entities.ProductQuantity
		expectedOutcome   entities.Outcome
		expectedSolution  entities.PickingSolution
		expectedShortages []entities.StockShortage
	}{
		{
			name:             "prefers_single_bin_covering_demand",
			stock:            []entities.BatchQuantityLocation{row("A", 3, bin("X")), row("A", 10, bin("Y"))},
			demand:           demandOf("A", 5),
			expectedOutcome:  entities.OutcomeComplete,
			expectedSolution: entities.PickingSolution{row("A", 5, bin("Y"))},
		},
		{
			name:            "fragmented_stock_fills_exactly",
			stock:           []entities.BatchQuantityLocation{row("A", 5, bin("X")), row("A", 4, bin("Y")), row("A", 3, bin("Z"))},
			demand:          demandOf("A", 12),
			expectedOutcome: entities.OutcomeComplete,
			expectedSolution: entities.PickingSolution{
				row("A", 5, bin("X")),
				row("A", 4, bin("Y")),
				row("A", 3, bin("Z")),
			},
		},
		{
			name:              "insufficient_stock_returns_partial_solution",
			stock:             []entities.BatchQuantityLocation{row("A", 5, bin("X"))},
			demand:            demandOf("A", 12),
			expectedOutcome:   entities.OutcomePartialShortage,
			expectedSolution:  entities.PickingSolution{row("A", 5, bin("X"))},
			expectedShortages: []entities.StockShortage{{ProductID: "A", QuantityMissing: 7, ProductNumber: "SW-A"}},
		},
		{
			name:              "no_stock_for_product",
			stock:             []entities.BatchQuantityLocation{row("B", 5, bin("X"))},
			demand:            demandOf("A", 2, "B", 1),
			expectedOutcome:   entities.OutcomePartialShortage,
			expectedSolution:  entities.PickingSolution{row("B", 1, bin("X"))},
			expectedShortages: []entities.StockShortage{{ProductID: "A", QuantityMissing: 2, ProductNumber: "SW-A"}},
		},
		{
			name: "bins_before_unlocated_stock",
			stock: []entities.BatchQuantityLocation{
				row("A", 10, entities.UnknownLocation(testWarehouse)),
				row("A", 3, bin("X")),
			},
			demand:          demandOf("A", 5),
			expectedOutcome: entities.OutcomeComplete,
			expectedSolution: entities.PickingSolution{
				row("A", 3, bin("X")),
				row("A", 2, entities.UnknownLocation(testWarehouse)),
			},
		},
		{
			name: "stock_outside_area_is_ignored",
			stock: []entities.BatchQuantityLocation{
				row("A", 10, entities.BinLocation("WH2", "X")),
				row("A", 1, bin("Y")),
			},
			demand:            demandOf("A", 3),
			expectedOutcome:   entities.OutcomePartialShortage,
			expectedSolution:  entities.PickingSolution{row("A", 1, bin("Y"))},
			expectedShortages: []entities.StockShortage{{ProductID: "A", QuantityMissing: 2, ProductNumber: "SW-A"}},
		},
		{
			name: "batches_are_summed_per_location_without_batch_management",
			stock: []entities.BatchQuantityLocation{
				batchRow("A", 3, bin("X"), "B1"),
				batchRow("A", 3, bin("X"), "B2"),
				row("A", 5, bin("Y")),
			},
			demand:           demandOf("A", 6),
			expectedOutcome:  entities.OutcomeComplete,
			expectedSolution: entities.PickingSolution{row("A", 6, bin("X"))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newScenario(t, tt.stock...).engine()

			result, err := engine.CalculatePickingSolution(context.Background(), request(t, tt.demand))

			require.NoError(t, err)
			assert.Equal(t, tt.expectedOutcome, result.Outcome)
			assert.Equal(t, tt.expectedSolution, result.Solution)
			assert.Equal(t, tt.expectedShortages, result.Shortages)
		})
	}
}

func TestEngine_ShortageError(t *testing.T) {
	engine := newScenario(t, row("A", 5, bin("X"))).engine()

	result, err := engine.CalculatePickingSolution(context.Background(), request(t, demandOf("A", 12)))
	require.NoError(t, err)

	var shortageErr *entities.ShortageError
	require.ErrorAs(t, result.Err(), &shortageErr)
	assert.Equal(t, "insufficient stock: SW-A missing 7", shortageErr.Error())
	assert.Equal(t, []string{"SW-A"}, shortageErr.ProductNumbers)
	assert.Equal(t, result.Solution, shortageErr.PartialSolution)
}

func TestEngine_ShortageWithoutProductMasterData(t *testing.T) {
	engine := newScenario(t, row("A", 5, bin("X"))).engine()

	result, err := engine.CalculatePickingSolution(context.Background(), request(t, demandOf("A", 3, "NEW", 2)))
	require.NoError(t, err)

	assert.Equal(t, entities.OutcomePartialShortage, result.Outcome)
	assert.Equal(t, entities.PickingSolution{row("A", 3, bin("X"))}, result.Solution)
	assert.Equal(t, []entities.StockShortage{{ProductID: "NEW", QuantityMissing: 2}}, result.Shortages)
	assert.Equal(t, "insufficient stock: NEW missing 2", result.Err().Error())
}

func TestEngine_PriorityClasses(t *testing.T) {
	s := newScenario(t, row("A", 4, bin("X")), row("A", 4, bin("Y"))).
		withBin(t, "X", "B-1", entities.PriorityChaotic, "", 0).
		withBin(t, "Y", "B-2", entities.PriorityFixed, "", 0)

	result, err := s.engine().CalculatePickingSolution(context.Background(), request(t, demandOf("A", 6)))

	require.NoError(t, err)
	assert.ElementsMatch(t, entities.PickingSolution{row("A", 4, bin("Y")), row("A", 2, bin("X"))}, result.Solution)
}

func TestEngine_FirstExpiredFirstOut(t *testing.T) {
	stock := []entities.BatchQuantityLocation{
		batchRow("A", 5, bin("X"), "B-late"),
		batchRow("A", 5, bin("Y"), "B-early"),
		row("A", 5, bin("Z")),
	}

	tests := []struct {
		name     string
		demand   []entities.ProductQuantity
		expected entities.PickingSolution
	}{
		{
			name:   "earliest_batch_first",
			demand: demandOf("A", 7),
			expected: entities.PickingSolution{
				batchRow("A", 5, bin("Y"), "B-early"),
				batchRow("A", 2, bin("X"), "B-late"),
			},
		},
		{
			name:     "earliest_preferred_row",
			demand:   demandOf("A", 4),
			expected: entities.PickingSolution{batchRow("A", 4, bin("Y"), "B-early")},
		},
		{
			name:   "untracked_stock_last",
			demand: demandOf("A", 12),
			expected: entities.PickingSolution{
				batchRow("A", 5, bin("Y"), "B-early"),
				batchRow("A", 5, bin("X"), "B-late"),
				row("A", 2, bin("Z")),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScenario(t, stock...).
				withBatch(t, "B-late", "A", date(2027, time.March, 1)).
				withBatch(t, "B-early", "A", date(2026, time.December, 1))
			s.toggles.Set(repositories.FeatureBatchManagement, true)

			result, err := s.engine().CalculatePickingSolution(context.Background(), request(t, tt.demand))

			require.NoError(t, err)
			assert.Equal(t, entities.OutcomeComplete, result.Outcome)
			assert.ElementsMatch(t, tt.expected, result.Solution)
		})
	}
}

func TestEngine_InvalidRequestCallsNoCollaborator(t *testing.T) {
	catalog := &mockCatalog{}
	batches := &mockBatches{}
	topology := &mockTopology{}
	toggles := &mockToggles{}
	engine := NewEngine(catalog, batches, topology, toggles)

	requests := map[string]entities.PickingRequest{
		"empty":     {SourceStockArea: entities.AreaWarehouse(testWarehouse)},
		"zero":      {ProductsToPick: demandOf("A", 0), SourceStockArea: entities.AreaWarehouse(testWarehouse)},
		"negative":  {ProductsToPick: demandOf("A", -1), SourceStockArea: entities.AreaWarehouse(testWarehouse)},
		"duplicate": {ProductsToPick: demandOf("A", 1, "A", 2), SourceStockArea: entities.AreaWarehouse(testWarehouse)},
	}

	for name, req := range requests {
		t.Run(name, func(t *testing.T) {
			result, err := engine.CalculatePickingSolution(context.Background(), req)

			assert.Nil(t, result)
			assert.ErrorIs(t, err, entities.ErrInvalidRequest)
		})
	}

	toggles.AssertNotCalled(t, "IsEnabled", mock.Anything, mock.Anything)
	catalog.AssertNotCalled(t, "GetPickableStocks", mock.Anything, mock.Anything, mock.Anything)
	catalog.AssertNotCalled(t, "GetPickableBatchStocks", mock.Anything, mock.Anything, mock.Anything)
	topology.AssertNotCalled(t, "GetBinLocations", mock.Anything, mock.Anything)
	batches.AssertNotCalled(t, "GetBatches", mock.Anything, mock.Anything)
}

func TestEngine_PropagatesCollaboratorErrors(t *testing.T) {
	unavailable := errors.New("unavailable")
	stock := []entities.ProductQuantityLocation{{ProductID: "A", Quantity: 5, Location: bin("X")}}

	tests := []struct {
		name  string
		setup func(catalog *mockCatalog, topology *mockTopology, toggles *mockToggles)
	}{
		{
			name: "feature_toggles",
			setup: func(catalog *mockCatalog, topology *mockTopology, toggles *mockToggles) {
				toggles.On("IsEnabled", mock.Anything, repositories.FeatureBatchManagement).Return(false, unavailable)
			},
		},
		{
			name: "stock_catalog",
			setup: func(catalog *mockCatalog, topology *mockTopology, toggles *mockToggles) {
				toggles.On("IsEnabled", mock.Anything, mock.Anything).Return(false, nil)
				catalog.On("GetPickableStocks", mock.Anything, mock.Anything, mock.Anything).Return(nil, unavailable)
			},
		},
		{
			name: "topology",
			setup: func(catalog *mockCatalog, topology *mockTopology, toggles *mockToggles) {
				toggles.On("IsEnabled", mock.Anything, mock.Anything).Return(false, nil)
				catalog.On("GetPickableStocks", mock.Anything, mock.Anything, mock.Anything).Return(stock, nil)
				topology.On("GetBinLocations", mock.Anything, mock.Anything).Return(nil, unavailable)
			},
		},
		{
			name: "product_numbers",
			setup: func(catalog *mockCatalog, topology *mockTopology, toggles *mockToggles) {
				toggles.On("IsEnabled", mock.Anything, mock.Anything).Return(false, nil)
				catalog.On("GetPickableStocks", mock.Anything, mock.Anything, mock.Anything).Return(stock, nil)
				topology.On("GetBinLocations", mock.Anything, mock.Anything).
					Return(map[entities.BinLocationID]entities.BinLocationInfo{}, nil)
				catalog.On("GetProductNumbers", mock.Anything, mock.Anything).Return(nil, unavailable)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &mockCatalog{}
			topology := &mockTopology{}
			toggles := &mockToggles{}
			tt.setup(catalog, topology, toggles)
			engine := NewEngine(catalog, &mockBatches{}, topology, toggles)

			// demand 9 against 5 in stock forces the product number lookup
			result, err := engine.CalculatePickingSolution(context.Background(), request(t, demandOf("A", 9)))

			assert.Nil(t, result)
			assert.ErrorIs(t, err, unavailable)
		})
	}
}

func TestEngine_StageSequence(t *testing.T) {
	tests := []struct {
		name     string
		demand   []entities.ProductQuantity
		expected []Stage
	}{
		{
			name:   "complete",
			demand: demandOf("A", 2),
			expected: []Stage{
				StageStart, StageStockRead, StagePartitioned, StageSorted,
				StageSelected, StageRouted, StageDone,
			},
		},
		{
			name:   "shortage",
			demand: demandOf("A", 20),
			expected: []Stage{
				StageStart, StageStockRead, StagePartitioned, StageSorted,
				StageSelected, StageRouted, StagePartialWithShortage,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScenario(t, row("A", 5, bin("X")))
			var stages []Stage
			engine := NewEngineWithConfig(s.catalog, s.batches, s.topology, s.toggles, EngineConfig{
				StageObserver: func(stage Stage) { stages = append(stages, stage) },
			})

			_, err := engine.CalculatePickingSolution(context.Background(), request(t, tt.demand))

			require.NoError(t, err)
			assert.Equal(t, tt.expected, stages)
		})
	}
}

func TestEngine_DeterministicAcrossStockOrder(t *testing.T) {
	stock := []entities.BatchQuantityLocation{
		row("A", 2, bin("A-10")),
		row("A", 2, bin("A-2")),
		row("A", 2, entities.UnknownLocation(testWarehouse)),
		row("B", 7, bin("C-1")),
		row("B", 7, bin("C-0")),
		row("A", 1, entities.ProcessLocation(testWarehouse, "production", "P-1")),
	}
	req := demandOf("A", 8, "B", 5)

	var first *entities.PickingResult
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]entities.BatchQuantityLocation(nil), stock...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		result, err := newScenario(t, shuffled...).engine().CalculatePickingSolution(context.Background(), request(t, req))
		require.NoError(t, err)

		if first == nil {
			first = result
			continue
		}
		assert.Equal(t, first, result, "iteration %d", i)
	}

	assert.Equal(t, entities.OutcomePartialShortage, first.Outcome)
	assert.Equal(t, []entities.StockShortage{{ProductID: "A", QuantityMissing: 1, ProductNumber: "SW-A"}}, first.Shortages)
}

// TestEngine_ConservationProperties checks, over random stock, that picks
// never exceed stock, are positive and add up to demand minus shortage
func TestEngine_ConservationProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	products := []entities.ProductID{"A", "B", "C"}
	bins := []entities.BinLocationID{"X", "Y", "Z", "W"}

	for iteration := 0; iteration < 50; iteration++ {
		var stock []entities.BatchQuantityLocation
		available := make(map[entities.StockLocationReference]map[entities.ProductID]entities.Quantity)
		for _, binID := range bins {
			for _, product := range products {
				if rng.Intn(2) == 0 {
					continue
				}
				quantity := entities.Quantity(rng.Intn(10) + 1)
				location := bin(binID)
				stock = append(stock, row(product, quantity, location))
				if available[location] == nil {
					available[location] = make(map[entities.ProductID]entities.Quantity)
				}
				available[location][product] += quantity
			}
		}

		demand := demandOf("A", rng.Intn(20)+1, "B", rng.Intn(20)+1, "C", rng.Intn(20)+1)
		result, err := newScenario(t, stock...).engine().CalculatePickingSolution(context.Background(), request(t, demand))
		require.NoError(t, err)

		missing := make(map[entities.ProductID]entities.Quantity)
		for _, shortage := range result.Shortages {
			assert.Positive(t, shortage.QuantityMissing)
			missing[shortage.ProductID] = shortage.QuantityMissing
		}

		picked := make(map[entities.StockLocationReference]map[entities.ProductID]entities.Quantity)
		for _, pick := range result.Solution {
			assert.Positive(t, pick.Quantity)
			if picked[pick.Location] == nil {
				picked[pick.Location] = make(map[entities.ProductID]entities.Quantity)
			}
			picked[pick.Location][pick.ProductID] += pick.Quantity
		}
		for location, perProduct := range picked {
			for product, quantity := range perProduct {
				assert.LessOrEqual(t, quantity, available[location][product])
			}
		}

		for _, pq := range demand {
			assert.Equal(t, pq.Quantity, result.Solution.TotalFor(pq.ProductID)+missing[pq.ProductID],
				"iteration %d product %s", iteration, pq.ProductID)
		}
		assert.Equal(t, len(result.Shortages) > 0, result.HasShortage())
	}
}
