package sql

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/picking/pkg/domain/entities"
)

func queryStore(driver string) *Store {
	return &Store{dialect: goqu.Dialect(driver)}
}

func TestStore_BatchStockQuery(t *testing.T) {
	tests := []struct {
		driver    string
		fragments []string
	}{
		{
			driver: "postgres",
			fragments: []string{
				`FROM "stock"`,
				`"product_id" IN ($1, $2)`,
				`"warehouse_id" IN ($3)`,
				`"quantity" > "reserved"`,
				`"batch_id"`,
				`ORDER BY "product_id" ASC`,
			},
		},
		{
			driver: "mysql",
			fragments: []string{
				"FROM `stock`",
				"`product_id` IN (?, ?)",
				"`warehouse_id` IN (?)",
				"`quantity` > `reserved`",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			query, args, err := queryStore(tt.driver).
				batchStockQuery([]entities.ProductID{"A", "B"}, entities.AreaWarehouse("WH1")).
				ToSQL()

			require.NoError(t, err)
			for _, fragment := range tt.fragments {
				assert.Contains(t, query, fragment)
			}
			assert.Equal(t, []interface{}{"A", "B", "WH1"}, args)
		})
	}
}

func TestStore_StockQuerySumsOverBatches(t *testing.T) {
	query, args, err := queryStore("postgres").
		stockQuery([]entities.ProductID{"A"}, entities.AreaEverywhere()).
		ToSQL()

	require.NoError(t, err)
	assert.Contains(t, query, "SUM(")
	assert.Contains(t, query, `GROUP BY "product_id", "location_kind", "warehouse_id", "bin_id", "process_type", "process_id"`)
	assert.NotContains(t, query, `"warehouse_id" IN`)
	assert.Equal(t, []interface{}{"A"}, args)
}

func TestStockRecords_MergesDuplicateKeys(t *testing.T) {
	location := entities.BinLocation("WH1", "X")
	row := func(quantity entities.Quantity, batch entities.BatchID) entities.BatchQuantityLocation {
		stock := entities.ProductQuantityLocation{ProductID: "A", Quantity: quantity, Location: location}.WithoutBatch()
		stock.BatchID = batch
		return stock
	}

	records := stockRecords([]entities.BatchQuantityLocation{row(2, "B1"), row(3, "B1"), row(4, "")})

	require.Len(t, records, 2)
	assert.Equal(t, int64(5), records[0].(goqu.Record)["quantity"])
	assert.Equal(t, "bin", records[0].(goqu.Record)["location_kind"])
	assert.Equal(t, "", records[1].(goqu.Record)["batch_id"])
}

func TestToStocks(t *testing.T) {
	stocks, err := toStocks([]stockRow{
		{ProductID: "A", Quantity: 4, LocationKind: "bin", WarehouseID: "WH1", BinID: "X", BatchID: "B1"},
		{ProductID: "A", Quantity: 2, LocationKind: "process", WarehouseID: "WH1", ProcessType: "goods-receipt", ProcessID: "GR-1"},
	})

	require.NoError(t, err)
	require.Len(t, stocks, 2)
	assert.Equal(t, entities.BinLocation("WH1", "X"), stocks[0].Location)
	assert.Equal(t, entities.BatchID("B1"), stocks[0].BatchID)
	assert.Equal(t, entities.ProcessLocation("WH1", "goods-receipt", "GR-1"), stocks[1].Location)

	_, err = toStocks([]stockRow{{ProductID: "A", Quantity: 1, LocationKind: "shelf"}})
	assert.Error(t, err)
}
