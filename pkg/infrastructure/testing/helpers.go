package testing

import (
	"time"

	"github.com/vsinha/picking/pkg/domain/entities"
	"github.com/vsinha/picking/pkg/infrastructure/repositories/memory"
)

const (
	WarehouseMain entities.WarehouseID = "WH-MAIN"
	WarehouseEast entities.WarehouseID = "WH-EAST"

	ProductBolt    entities.ProductID = "P-BOLT"
	ProductWasher  entities.ProductID = "P-WASHER"
	ProductSealant entities.ProductID = "P-SEALANT"
	ProductGasket  entities.ProductID = "P-GASKET"
)

// WarehouseTestData bundles the in-memory collaborators of a test warehouse
type WarehouseTestData struct {
	Catalog  *memory.StockCatalog
	Batches  *memory.BatchRepository
	Topology *memory.WarehouseTopology
	Toggles  *memory.FeatureToggles
}

// BuildWarehouseTestData builds a small two-warehouse scenario:
// WH-MAIN has three aisles, an overflow bin without coordinates, bulk stock
// and stock bound to a goods receipt; WH-EAST holds a large bolt stock.
// Sealant is batch managed with two expiring lots and an untracked remainder.
func BuildWarehouseTestData() *WarehouseTestData {
	data := &WarehouseTestData{
		Catalog:  memory.NewStockCatalog(16),
		Batches:  memory.NewBatchRepository(2),
		Topology: memory.NewWarehouseTopology(8),
		Toggles:  memory.NewFeatureToggles(),
	}

	products := []*entities.Product{
		{ID: ProductBolt, Number: "SW-1000", Name: "Hex bolt M8"},
		{ID: ProductWasher, Number: "SW-2000", Name: "Washer M8"},
		{ID: ProductSealant, Number: "SW-3000", Name: "Thread sealant 50ml"},
		{ID: ProductGasket, Number: "SW-4000", Name: "Flange gasket DN50"},
	}
	if err := data.Catalog.LoadProducts(products); err != nil {
		panic(err)
	}

	bins := []*entities.BinLocationInfo{
		mustCreateBin("B-01-01", WarehouseMain, "01-01", entities.PriorityFixed, "01", 1),
		mustCreateBin("B-01-05", WarehouseMain, "01-05", entities.PriorityChaotic, "01", 5),
		mustCreateBin("B-02-02", WarehouseMain, "02-02", entities.PriorityChaotic, "02", 2),
		mustCreateBin("B-02-08", WarehouseMain, "02-08", entities.PriorityFixed, "02", 8),
		mustCreateBin("B-03-04", WarehouseMain, "03-04", entities.PriorityChaotic, "03", 4),
		mustCreateBin("B-OVF", WarehouseMain, "OVERFLOW-1", entities.PriorityChaotic, "", 0),
		mustCreateBin("E-01", WarehouseEast, "E-01", entities.PriorityFixed, "E", 1),
	}
	if err := data.Topology.LoadBinLocations(bins); err != nil {
		panic(err)
	}

	batches := []*entities.BatchInfo{
		mustCreateBatch("LOT-2026-11", ProductSealant, time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)),
		mustCreateBatch("LOT-2027-02", ProductSealant, time.Date(2027, 2, 28, 0, 0, 0, 0, time.UTC)),
	}
	if err := data.Batches.LoadBatches(batches); err != nil {
		panic(err)
	}

	inBin := func(warehouse entities.WarehouseID, bin entities.BinLocationID) entities.StockLocationReference {
		return entities.BinLocation(warehouse, bin)
	}
	stocks := []entities.BatchQuantityLocation{
		stock(ProductBolt, 40, inBin(WarehouseMain, "B-01-01"), ""),
		stock(ProductBolt, 100, inBin(WarehouseMain, "B-02-02"), ""),
		stock(ProductBolt, 25, entities.UnknownLocation(WarehouseMain), ""),
		stock(ProductBolt, 500, inBin(WarehouseEast, "E-01"), ""),
		stock(ProductWasher, 10, inBin(WarehouseMain, "B-01-05"), ""),
		stock(ProductWasher, 8, inBin(WarehouseMain, "B-03-04"), ""),
		stock(ProductSealant, 6, inBin(WarehouseMain, "B-02-08"), "LOT-2026-11"),
		stock(ProductSealant, 12, inBin(WarehouseMain, "B-01-05"), "LOT-2027-02"),
		stock(ProductSealant, 4, inBin(WarehouseMain, "B-OVF"), ""),
		stock(ProductGasket, 3, inBin(WarehouseMain, "B-03-04"), ""),
		stock(ProductGasket, 2, entities.ProcessLocation(WarehouseMain, "goods-receipt", "GR-17"), ""),
	}
	if err := data.Catalog.LoadStocks(stocks); err != nil {
		panic(err)
	}

	return data
}

// mustCreateBin is a helper for tests - panics on validation error
func mustCreateBin(
	id entities.BinLocationID,
	warehouse entities.WarehouseID,
	code string,
	priority entities.PriorityClass,
	aisle string,
	position int,
) *entities.BinLocationInfo {
	bin, err := entities.NewBinLocationInfo(id, warehouse, code, priority, aisle, position)
	if err != nil {
		panic(err)
	}
	return bin
}

// mustCreateBatch is a helper for tests - panics on validation error
func mustCreateBatch(id entities.BatchID, product entities.ProductID, expiration time.Time) *entities.BatchInfo {
	batch, err := entities.NewBatchInfo(id, product, string(id), expiration)
	if err != nil {
		panic(err)
	}
	return batch
}

func stock(
	product entities.ProductID,
	quantity entities.Quantity,
	location entities.StockLocationReference,
	batch entities.BatchID,
) entities.BatchQuantityLocation {
	row := entities.ProductQuantityLocation{ProductID: product, Quantity: quantity, Location: location}.WithoutBatch()
	row.BatchID = batch
	return row
}
