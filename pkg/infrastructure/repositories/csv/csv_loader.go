package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/picking/pkg/domain/entities"
)

// File names of a picking scenario directory
const (
	StockFile        = "stock.csv"
	BatchesFile      = "batches.csv"
	BinLocationsFile = "bin_locations.csv"
	ProductsFile     = "products.csv"
	RequestFile      = "request.csv"
)

const dateLayout = "2006-01-02"

var (
	stockHeader   = []string{"product_id", "quantity", "location_kind", "warehouse_id", "bin_id", "process_type", "process_id", "batch_id"}
	batchHeader   = []string{"batch_id", "product_id", "batch_number", "expiration_date"}
	binHeader     = []string{"bin_id", "warehouse_id", "code", "priority", "aisle", "position"}
	productHeader = []string{"product_id", "product_number", "name"}
	requestHeader = []string{"product_id", "quantity"}
)

// Loader handles loading picking data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// Scenario is the content of a scenario directory
type Scenario struct {
	Stocks       []entities.BatchQuantityLocation
	Batches      []*entities.BatchInfo
	BinLocations []*entities.BinLocationInfo
	Products     []*entities.Product
	Demand       []entities.ProductQuantity
}

// LoadScenario loads all files of dir. stock.csv, products.csv and
// request.csv are required; batches and bin locations are optional.
func (l *Loader) LoadScenario(dir string) (*Scenario, error) {
	var scenario Scenario
	var err error

	if scenario.Stocks, err = l.LoadStock(filepath.Join(dir, StockFile)); err != nil {
		return nil, err
	}
	if scenario.Products, err = l.LoadProducts(filepath.Join(dir, ProductsFile)); err != nil {
		return nil, err
	}
	if scenario.Demand, err = l.LoadRequest(filepath.Join(dir, RequestFile)); err != nil {
		return nil, err
	}

	if scenario.Batches, err = l.LoadBatches(filepath.Join(dir, BatchesFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if scenario.BinLocations, err = l.LoadBinLocations(filepath.Join(dir, BinLocationsFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	return &scenario, nil
}

// LoadStock loads stock rows from a CSV file
func (l *Loader) LoadStock(filename string) ([]entities.BatchQuantityLocation, error) {
	records, err := readRecords(filename, "stock", stockHeader)
	if err != nil {
		return nil, err
	}

	stocks := make([]entities.BatchQuantityLocation, 0, len(records))
	for i, record := range records {
		stock, err := parseStock(record)
		if err != nil {
			return nil, fmt.Errorf("stock CSV row %d: %w", i+2, err)
		}
		stocks = append(stocks, stock)
	}

	return stocks, nil
}

// LoadBatches loads batch metadata from a CSV file
func (l *Loader) LoadBatches(filename string) ([]*entities.BatchInfo, error) {
	records, err := readRecords(filename, "batches", batchHeader)
	if err != nil {
		return nil, err
	}

	batches := make([]*entities.BatchInfo, 0, len(records))
	for i, record := range records {
		var expiration time.Time
		if value := strings.TrimSpace(record[3]); value != "" {
			expiration, err = time.Parse(dateLayout, value)
			if err != nil {
				return nil, fmt.Errorf("batches CSV row %d: invalid expiration_date format: %s (expected YYYY-MM-DD)", i+2, record[3])
			}
		}

		batch, err := entities.NewBatchInfo(entities.BatchID(record[0]), entities.ProductID(record[1]), record[2], expiration)
		if err != nil {
			return nil, fmt.Errorf("batches CSV row %d: %w", i+2, err)
		}
		batches = append(batches, batch)
	}

	return batches, nil
}

// LoadBinLocations loads warehouse topology from a CSV file
func (l *Loader) LoadBinLocations(filename string) ([]*entities.BinLocationInfo, error) {
	records, err := readRecords(filename, "bin locations", binHeader)
	if err != nil {
		return nil, err
	}

	bins := make([]*entities.BinLocationInfo, 0, len(records))
	for i, record := range records {
		priority, err := entities.ParsePriorityClass(record[3])
		if err != nil {
			return nil, fmt.Errorf("bin locations CSV row %d: %w", i+2, err)
		}

		position := 0
		if value := strings.TrimSpace(record[5]); value != "" {
			position, err = strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("bin locations CSV row %d: invalid position: %s", i+2, record[5])
			}
		}

		bin, err := entities.NewBinLocationInfo(
			entities.BinLocationID(record[0]),
			entities.WarehouseID(record[1]),
			record[2],
			priority,
			strings.TrimSpace(record[4]),
			position,
		)
		if err != nil {
			return nil, fmt.Errorf("bin locations CSV row %d: %w", i+2, err)
		}
		bins = append(bins, bin)
	}

	return bins, nil
}

// LoadProducts loads product master data from a CSV file
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	records, err := readRecords(filename, "products", productHeader)
	if err != nil {
		return nil, err
	}

	products := make([]*entities.Product, 0, len(records))
	for i, record := range records {
		if record[0] == "" {
			return nil, fmt.Errorf("products CSV row %d: product_id cannot be empty", i+2)
		}
		products = append(products, &entities.Product{
			ID:     entities.ProductID(record[0]),
			Number: record[1],
			Name:   record[2],
		})
	}

	return products, nil
}

// LoadRequest loads the demand lines of a picking request from a CSV file.
// Lines are returned as written; validation happens when the request is built.
func (l *Loader) LoadRequest(filename string) ([]entities.ProductQuantity, error) {
	records, err := readRecords(filename, "request", requestHeader)
	if err != nil {
		return nil, err
	}

	demand := make([]entities.ProductQuantity, 0, len(records))
	for i, record := range records {
		quantity, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("request CSV row %d: invalid quantity: %s", i+2, record[1])
		}
		demand = append(demand, entities.ProductQuantity{
			ProductID: entities.ProductID(record[0]),
			Quantity:  entities.Quantity(quantity),
		})
	}

	return demand, nil
}

// readRecords opens filename, validates its header and column counts and
// returns the data rows
func readRecords(filename, name string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", name, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", name, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", name)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", name, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", name, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseStock(record []string) (entities.BatchQuantityLocation, error) {
	quantity, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
	if err != nil {
		return entities.BatchQuantityLocation{}, fmt.Errorf("invalid quantity: %s", record[1])
	}

	kind, err := entities.ParseLocationKind(record[2])
	if err != nil {
		return entities.BatchQuantityLocation{}, err
	}

	location, err := entities.NewStockLocationReference(
		kind,
		entities.WarehouseID(record[3]),
		entities.BinLocationID(record[4]),
		record[5],
		record[6],
	)
	if err != nil {
		return entities.BatchQuantityLocation{}, err
	}

	stock := entities.ProductQuantityLocation{
		ProductID: entities.ProductID(record[0]),
		Quantity:  entities.Quantity(quantity),
		Location:  location,
	}.WithoutBatch()
	stock.BatchID = entities.BatchID(record[7])
	return stock, nil
}
