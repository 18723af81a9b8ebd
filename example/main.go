package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vsinha/picking/pkg/application/services/picking"
	"github.com/vsinha/picking/pkg/domain/entities"
	"github.com/vsinha/picking/pkg/domain/repositories"
	"github.com/vsinha/picking/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	catalog := memory.NewStockCatalog(8)
	batches := memory.NewBatchRepository(2)
	topology := memory.NewWarehouseTopology(4)
	toggles := memory.NewFeatureToggles(repositories.FeatureBatchManagement)

	if err := setupWarehouse(catalog, batches, topology); err != nil {
		fmt.Printf("❌ Setup failed: %v\n", err)
		return
	}

	engine := picking.NewEngine(catalog, batches, topology, toggles)

	request, err := entities.NewPickingRequest([]entities.ProductQuantity{
		{ProductID: "P-SEAL", Quantity: 9},
		{ProductID: "P-BOLT", Quantity: 30},
	}, entities.AreaWarehouse("WH1"))
	if err != nil {
		fmt.Printf("❌ Invalid request: %v\n", err)
		return
	}

	fmt.Println("📦 Picking 9 sealant and 30 bolts from WH1 (batch management on)...")
	fmt.Println()

	result, err := engine.CalculatePickingSolution(ctx, *request)
	if err != nil {
		fmt.Printf("❌ Picking failed: %v\n", err)
		return
	}

	fmt.Println("🧭 Pick list in walking order:")
	for i, pick := range result.Solution {
		batch := "-"
		if pick.HasBatch() {
			batch = string(pick.BatchID)
		}
		fmt.Printf("  %d. %-7s x%-3d at %-12s batch %s\n", i+1, pick.ProductID, pick.Quantity, pick.Location, batch)
	}
	fmt.Println()

	var shortage *entities.ShortageError
	if errors.As(result.Err(), &shortage) {
		fmt.Printf("⚠️  %v\n", shortage)
		return
	}
	fmt.Println("✅ Request can be picked in full")
}

func setupWarehouse(catalog *memory.StockCatalog, batches *memory.BatchRepository, topology *memory.WarehouseTopology) error {
	bins := []struct {
		id       entities.BinLocationID
		priority entities.PriorityClass
		aisle    string
		position int
	}{
		{"A-01", entities.PriorityFixed, "1", 1},
		{"A-07", entities.PriorityChaotic, "1", 7},
		{"B-03", entities.PriorityChaotic, "2", 3},
		{"C-02", entities.PriorityFixed, "3", 2},
	}
	for _, b := range bins {
		info, err := entities.NewBinLocationInfo(b.id, "WH1", string(b.id), b.priority, b.aisle, b.position)
		if err != nil {
			return err
		}
		topology.AddBinLocation(*info)
	}

	for _, lot := range []struct {
		id      entities.BatchID
		expires time.Time
	}{
		{"LOT-OLD", time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"LOT-NEW", time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)},
	} {
		info, err := entities.NewBatchInfo(lot.id, "P-SEAL", string(lot.id), lot.expires)
		if err != nil {
			return err
		}
		batches.AddBatch(*info)
	}

	if err := catalog.LoadProducts([]*entities.Product{
		{ID: "P-SEAL", Number: "SEAL-50", Name: "Thread sealant"},
		{ID: "P-BOLT", Number: "BOLT-M8", Name: "Hex bolt M8"},
	}); err != nil {
		return err
	}

	stock := func(product entities.ProductID, qty entities.Quantity, bin entities.BinLocationID, batch entities.BatchID) entities.BatchQuantityLocation {
		return entities.BatchQuantityLocation{
			ProductQuantityLocation: entities.ProductQuantityLocation{
				ProductID: product,
				Quantity:  qty,
				Location:  entities.BinLocation("WH1", bin),
			},
			BatchID: batch,
		}
	}

	return catalog.LoadStocks([]entities.BatchQuantityLocation{
		stock("P-SEAL", 5, "B-03", "LOT-OLD"),
		stock("P-SEAL", 20, "A-07", "LOT-NEW"),
		stock("P-BOLT", 12, "C-02", ""),
		stock("P-BOLT", 10, "A-01", ""),
	})
}
