package sql

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/vsinha/picking/pkg/domain/entities"
)

// Seed replaces the catalog content with the given master data and stock in
// one transaction
func (s *Store) Seed(
	ctx context.Context,
	products []*entities.Product,
	bins []*entities.BinLocationInfo,
	batches []*entities.BatchInfo,
	stocks []entities.BatchQuantityLocation,
) error {
	return s.db.WithTx(func(tx *goqu.TxDatabase) error {
		for _, table := range []string{stockTable, batchesTable, binLocationsTable, productsTable} {
			if _, err := tx.Delete(table).Executor().ExecContext(ctx); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		if err := insertRows(ctx, tx, productsTable, productRecords(products)); err != nil {
			return err
		}
		if err := insertRows(ctx, tx, binLocationsTable, binRecords(bins)); err != nil {
			return err
		}
		if err := insertRows(ctx, tx, batchesTable, batchRecords(batches)); err != nil {
			return err
		}
		return insertRows(ctx, tx, stockTable, stockRecords(stocks))
	})
}

func insertRows(ctx context.Context, tx *goqu.TxDatabase, table string, records []interface{}) error {
	if len(records) == 0 {
		return nil
	}
	if _, err := tx.Insert(table).Rows(records...).Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to insert %s records: %w", table, err)
	}
	return nil
}

func productRecords(products []*entities.Product) []interface{} {
	records := make([]interface{}, len(products))
	for i, product := range products {
		records[i] = goqu.Record{
			"product_id":     string(product.ID),
			"product_number": product.Number,
			"name":           product.Name,
		}
	}
	return records
}

func binRecords(bins []*entities.BinLocationInfo) []interface{} {
	records := make([]interface{}, len(bins))
	for i, bin := range bins {
		records[i] = goqu.Record{
			"bin_id":       string(bin.ID),
			"warehouse_id": string(bin.WarehouseID),
			"code":         bin.Code,
			"priority":     bin.Priority.String(),
			"aisle":        bin.Aisle,
			"position":     bin.Position,
		}
	}
	return records
}

func batchRecords(batches []*entities.BatchInfo) []interface{} {
	records := make([]interface{}, len(batches))
	for i, batch := range batches {
		var expiration interface{}
		if batch.HasExpiration() {
			expiration = batch.ExpirationDate
		}
		records[i] = goqu.Record{
			"batch_id":        string(batch.ID),
			"product_id":      string(batch.ProductID),
			"batch_number":    batch.Number,
			"expiration_date": expiration,
		}
	}
	return records
}

// stockRecords merges rows sharing the same product, location and batch
// since those form the primary key of the stock table
func stockRecords(stocks []entities.BatchQuantityLocation) []interface{} {
	type stockKey struct {
		productID entities.ProductID
		location  entities.StockLocationReference
		batchID   entities.BatchID
	}

	index := make(map[stockKey]int)
	var merged []entities.BatchQuantityLocation
	for _, stock := range stocks {
		key := stockKey{productID: stock.ProductID, location: stock.Location, batchID: stock.BatchID}
		if i, ok := index[key]; ok {
			merged[i].Quantity += stock.Quantity
			continue
		}
		index[key] = len(merged)
		merged = append(merged, stock)
	}

	records := make([]interface{}, len(merged))
	for i, stock := range merged {
		records[i] = goqu.Record{
			"product_id":    string(stock.ProductID),
			"location_kind": stock.Location.Kind.String(),
			"warehouse_id":  string(stock.Location.WarehouseID),
			"bin_id":        string(stock.Location.BinID),
			"process_type":  stock.Location.ProcessType,
			"process_id":    stock.Location.ProcessID,
			"batch_id":      string(stock.BatchID),
			"quantity":      int64(stock.Quantity),
			"reserved":      0,
		}
	}
	return records
}
