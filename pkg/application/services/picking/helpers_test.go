package picking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/picking/pkg/domain/entities"
	"github.com/vsinha/picking/pkg/infrastructure/repositories/memory"
)

const testWarehouse entities.WarehouseID = "WH1"

func bin(id entities.BinLocationID) entities.StockLocationReference {
	return entities.BinLocation(testWarehouse, id)
}

func row(product entities.ProductID, quantity entities.Quantity, location entities.StockLocationReference) entities.BatchQuantityLocation {
	return entities.ProductQuantityLocation{ProductID: product, Quantity: quantity, Location: location}.WithoutBatch()
}

func batchRow(product entities.ProductID, quantity entities.Quantity, location entities.StockLocationReference, batch entities.BatchID) entities.BatchQuantityLocation {
	r := row(product, quantity, location)
	r.BatchID = batch
	return r
}

func demandOf(pairs ...any) []entities.ProductQuantity {
	var demand []entities.ProductQuantity
	for i := 0; i+1 < len(pairs); i += 2 {
		demand = append(demand, entities.ProductQuantity{
			ProductID: entities.ProductID(pairs[i].(string)),
			Quantity:  entities.Quantity(pairs[i+1].(int)),
		})
	}
	return demand
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// scenario bundles the in-memory collaborators of an engine
type scenario struct {
	catalog  *memory.StockCatalog
	batches  *memory.BatchRepository
	topology *memory.WarehouseTopology
	toggles  *memory.FeatureToggles
}

func newScenario(t *testing.T, stocks ...entities.BatchQuantityLocation) *scenario {
	t.Helper()

	s := &scenario{
		catalog:  memory.NewStockCatalog(len(stocks)),
		batches:  memory.NewBatchRepository(4),
		topology: memory.NewWarehouseTopology(8),
		toggles:  memory.NewFeatureToggles(),
	}
	require.NoError(t, s.catalog.LoadStocks(stocks))
	require.NoError(t, s.catalog.LoadProducts([]*entities.Product{
		{ID: "A", Number: "SW-A"},
		{ID: "B", Number: "SW-B"},
		{ID: "C", Number: "SW-C"},
	}))
	return s
}

func (s *scenario) withBin(t *testing.T, id entities.BinLocationID, code string, priority entities.PriorityClass, aisle string, position int) *scenario {
	t.Helper()
	info, err := entities.NewBinLocationInfo(id, testWarehouse, code, priority, aisle, position)
	require.NoError(t, err)
	s.topology.AddBinLocation(*info)
	return s
}

func (s *scenario) withBatch(t *testing.T, id entities.BatchID, product entities.ProductID, expiration time.Time) *scenario {
	t.Helper()
	info, err := entities.NewBatchInfo(id, product, string(id), expiration)
	require.NoError(t, err)
	s.batches.AddBatch(*info)
	return s
}

func (s *scenario) engine() *Engine {
	return NewEngine(s.catalog, s.batches, s.topology, s.toggles)
}

func request(t *testing.T, demand []entities.ProductQuantity) entities.PickingRequest {
	t.Helper()
	req, err := entities.NewPickingRequest(demand, entities.AreaWarehouse(testWarehouse))
	require.NoError(t, err)
	return *req
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetPickableStocks(ctx context.Context, productIDs []entities.ProductID, area entities.StockArea) ([]entities.ProductQuantityLocation, error) {
	args := m.Called(ctx, productIDs, area)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ProductQuantityLocation), args.Error(1)
}

func (m *mockCatalog) GetPickableBatchStocks(ctx context.Context, productIDs []entities.ProductID, area entities.StockArea) ([]entities.BatchQuantityLocation, error) {
	args := m.Called(ctx, productIDs, area)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.BatchQuantityLocation), args.Error(1)
}

func (m *mockCatalog) GetProductNumbers(ctx context.Context, productIDs []entities.ProductID) (map[entities.ProductID]string, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entities.ProductID]string), args.Error(1)
}

type mockTopology struct {
	mock.Mock
}

func (m *mockTopology) GetBinLocations(ctx context.Context, binIDs []entities.BinLocationID) (map[entities.BinLocationID]entities.BinLocationInfo, error) {
	args := m.Called(ctx, binIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entities.BinLocationID]entities.BinLocationInfo), args.Error(1)
}

type mockBatches struct {
	mock.Mock
}

func (m *mockBatches) GetBatches(ctx context.Context, batchIDs []entities.BatchID) (map[entities.BatchID]entities.BatchInfo, error) {
	args := m.Called(ctx, batchIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entities.BatchID]entities.BatchInfo), args.Error(1)
}

type mockToggles struct {
	mock.Mock
}

func (m *mockToggles) IsEnabled(ctx context.Context, feature string) (bool, error) {
	args := m.Called(ctx, feature)
	return args.Bool(0), args.Error(1)
}
