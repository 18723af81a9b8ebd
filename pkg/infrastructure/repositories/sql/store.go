package sql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/vsinha/picking/pkg/domain/entities"
	"github.com/vsinha/picking/pkg/domain/repositories"
)

const (
	stockTable        = "stock"
	productsTable     = "products"
	batchesTable      = "batches"
	binLocationsTable = "bin_locations"
)

// Store reads the stock catalog, batch metadata and warehouse topology from
// a postgres or mysql database
type Store struct {
	db      *goqu.Database
	dialect goqu.DialectWrapper
}

var (
	_ repositories.StockCatalogReader      = (*Store)(nil)
	_ repositories.BatchMetadataSource     = (*Store)(nil)
	_ repositories.WarehouseTopologySource = (*Store)(nil)
)

// NewStore creates a store over db using the goqu dialect of driver
func NewStore(db *sql.DB, driver string) *Store {
	return &Store{
		db:      goqu.New(driver, db),
		dialect: goqu.Dialect(driver),
	}
}

type stockRow struct {
	ProductID    string `db:"product_id"`
	Quantity     int64  `db:"quantity"`
	LocationKind string `db:"location_kind"`
	WarehouseID  string `db:"warehouse_id"`
	BinID        string `db:"bin_id"`
	ProcessType  string `db:"process_type"`
	ProcessID    string `db:"process_id"`
	BatchID      string `db:"batch_id"`
}

type productRow struct {
	ProductID     string `db:"product_id"`
	ProductNumber string `db:"product_number"`
}

type batchRow struct {
	BatchID        string       `db:"batch_id"`
	ProductID      string       `db:"product_id"`
	BatchNumber    string       `db:"batch_number"`
	ExpirationDate sql.NullTime `db:"expiration_date"`
}

type binRow struct {
	BinID       string `db:"bin_id"`
	WarehouseID string `db:"warehouse_id"`
	Code        string `db:"code"`
	Priority    string `db:"priority"`
	Aisle       string `db:"aisle"`
	Position    int    `db:"position"`
}

var locationColumns = []interface{}{
	"location_kind", "warehouse_id", "bin_id", "process_type", "process_id",
}

// GetPickableBatchStocks returns stock rows net of reservations
func (s *Store) GetPickableBatchStocks(
	ctx context.Context,
	productIDs []entities.ProductID,
	area entities.StockArea,
) ([]entities.BatchQuantityLocation, error) {
	query, args, err := s.batchStockQuery(productIDs, area).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build stock query: %w", err)
	}

	var rows []stockRow
	if err := s.db.ScanStructsContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to read pickable stock: %w", err)
	}
	return toStocks(rows)
}

// GetPickableStocks returns stock net of reservations summed over batches
func (s *Store) GetPickableStocks(
	ctx context.Context,
	productIDs []entities.ProductID,
	area entities.StockArea,
) ([]entities.ProductQuantityLocation, error) {
	query, args, err := s.stockQuery(productIDs, area).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build stock query: %w", err)
	}

	var rows []stockRow
	if err := s.db.ScanStructsContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to read pickable stock: %w", err)
	}

	stocks, err := toStocks(rows)
	if err != nil {
		return nil, err
	}
	summed := make([]entities.ProductQuantityLocation, len(stocks))
	for i, stock := range stocks {
		summed[i] = stock.ProductQuantityLocation
	}
	return summed, nil
}

// GetProductNumbers returns the product numbers of the known products among productIDs
func (s *Store) GetProductNumbers(ctx context.Context, productIDs []entities.ProductID) (map[entities.ProductID]string, error) {
	query, args, err := s.dialect.From(productsTable).Prepared(true).
		Select("product_id", "product_number").
		Where(goqu.C("product_id").In(productIDStrings(productIDs))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build product query: %w", err)
	}

	var rows []productRow
	if err := s.db.ScanStructsContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to read product numbers: %w", err)
	}

	numbers := make(map[entities.ProductID]string, len(rows))
	for _, row := range rows {
		numbers[entities.ProductID(row.ProductID)] = row.ProductNumber
	}
	return numbers, nil
}

// GetBatches returns metadata of the known batches among batchIDs
func (s *Store) GetBatches(ctx context.Context, batchIDs []entities.BatchID) (map[entities.BatchID]entities.BatchInfo, error) {
	ids := make([]string, len(batchIDs))
	for i, id := range batchIDs {
		ids[i] = string(id)
	}

	query, args, err := s.dialect.From(batchesTable).Prepared(true).
		Select("batch_id", "product_id", "batch_number", "expiration_date").
		Where(goqu.C("batch_id").In(ids)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build batch query: %w", err)
	}

	var rows []batchRow
	if err := s.db.ScanStructsContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to read batches: %w", err)
	}

	batches := make(map[entities.BatchID]entities.BatchInfo, len(rows))
	for _, row := range rows {
		var expiration time.Time
		if row.ExpirationDate.Valid {
			expiration = row.ExpirationDate.Time
		}
		batches[entities.BatchID(row.BatchID)] = entities.BatchInfo{
			ID:             entities.BatchID(row.BatchID),
			ProductID:      entities.ProductID(row.ProductID),
			Number:         row.BatchNumber,
			ExpirationDate: expiration,
		}
	}
	return batches, nil
}

// GetBinLocations returns topology of the known bins among binIDs
func (s *Store) GetBinLocations(ctx context.Context, binIDs []entities.BinLocationID) (map[entities.BinLocationID]entities.BinLocationInfo, error) {
	ids := make([]string, len(binIDs))
	for i, id := range binIDs {
		ids[i] = string(id)
	}

	query, args, err := s.dialect.From(binLocationsTable).Prepared(true).
		Select("bin_id", "warehouse_id", "code", "priority", "aisle", "position").
		Where(goqu.C("bin_id").In(ids)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build bin location query: %w", err)
	}

	var rows []binRow
	if err := s.db.ScanStructsContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to read bin locations: %w", err)
	}

	bins := make(map[entities.BinLocationID]entities.BinLocationInfo, len(rows))
	for _, row := range rows {
		priority, err := entities.ParsePriorityClass(row.Priority)
		if err != nil {
			return nil, fmt.Errorf("bin %s: %w", row.BinID, err)
		}
		bin, err := entities.NewBinLocationInfo(
			entities.BinLocationID(row.BinID),
			entities.WarehouseID(row.WarehouseID),
			row.Code,
			priority,
			row.Aisle,
			row.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("bin %s: %w", row.BinID, err)
		}
		bins[bin.ID] = *bin
	}
	return bins, nil
}

func (s *Store) batchStockQuery(productIDs []entities.ProductID, area entities.StockArea) *goqu.SelectDataset {
	columns := append([]interface{}{
		"product_id",
		goqu.L(`? - ?`, goqu.C("quantity"), goqu.C("reserved")).As("quantity"),
	}, locationColumns...)
	columns = append(columns, "batch_id")

	return s.dialect.From(stockTable).Prepared(true).
		Select(columns...).
		Where(stockFilter(productIDs, area)...).
		Where(goqu.C("quantity").Gt(goqu.C("reserved"))).
		Order(orderColumns("batch_id")...)
}

func (s *Store) stockQuery(productIDs []entities.ProductID, area entities.StockArea) *goqu.SelectDataset {
	columns := append([]interface{}{
		"product_id",
		goqu.SUM(goqu.L(`? - ?`, goqu.C("quantity"), goqu.C("reserved"))).As("quantity"),
	}, locationColumns...)
	columns = append(columns, goqu.L("''").As("batch_id"))

	groupBy := append([]interface{}{"product_id"}, locationColumns...)

	return s.dialect.From(stockTable).Prepared(true).
		Select(columns...).
		Where(stockFilter(productIDs, area)...).
		Where(goqu.C("quantity").Gt(goqu.C("reserved"))).
		GroupBy(groupBy...).
		Order(orderColumns()...)
}

func stockFilter(productIDs []entities.ProductID, area entities.StockArea) []exp.Expression {
	filters := []exp.Expression{goqu.C("product_id").In(productIDStrings(productIDs))}
	if area.Kind != entities.AreaKindEverywhere {
		warehouses := make([]string, len(area.WarehouseIDs))
		for i, id := range area.WarehouseIDs {
			warehouses[i] = string(id)
		}
		filters = append(filters, goqu.C("warehouse_id").In(warehouses))
	}
	return filters
}

func orderColumns(extra ...string) []exp.OrderedExpression {
	names := append([]string{"product_id", "location_kind", "warehouse_id", "bin_id", "process_type", "process_id"}, extra...)
	ordered := make([]exp.OrderedExpression, len(names))
	for i, name := range names {
		ordered[i] = goqu.C(name).Asc()
	}
	return ordered
}

func productIDStrings(productIDs []entities.ProductID) []string {
	ids := make([]string, len(productIDs))
	for i, id := range productIDs {
		ids[i] = string(id)
	}
	return ids
}

func toStocks(rows []stockRow) ([]entities.BatchQuantityLocation, error) {
	stocks := make([]entities.BatchQuantityLocation, 0, len(rows))
	for _, row := range rows {
		kind, err := entities.ParseLocationKind(row.LocationKind)
		if err != nil {
			return nil, fmt.Errorf("stock of product %s: %w", row.ProductID, err)
		}
		location, err := entities.NewStockLocationReference(
			kind,
			entities.WarehouseID(row.WarehouseID),
			entities.BinLocationID(row.BinID),
			row.ProcessType,
			row.ProcessID,
		)
		if err != nil {
			return nil, fmt.Errorf("stock of product %s: %w", row.ProductID, err)
		}

		stock := entities.ProductQuantityLocation{
			ProductID: entities.ProductID(row.ProductID),
			Quantity:  entities.Quantity(row.Quantity),
			Location:  location,
		}.WithoutBatch()
		stock.BatchID = entities.BatchID(row.BatchID)
		stocks = append(stocks, stock)
	}
	return stocks, nil
}
