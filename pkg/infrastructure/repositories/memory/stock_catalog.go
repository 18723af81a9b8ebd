package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/picking/pkg/domain/entities"
	"github.com/vsinha/picking/pkg/domain/repositories"
)

// StockCatalog provides in-memory stock storage. Stock is kept per batch;
// the plain view sums batches per product and location.
type StockCatalog struct {
	mutex    sync.RWMutex
	stocks   []entities.BatchQuantityLocation
	reserved map[stockKey]entities.Quantity
	products map[entities.ProductID]entities.Product
}

type stockKey struct {
	productID entities.ProductID
	location  entities.StockLocationReference
	batchID   entities.BatchID
}

// NewStockCatalog creates a new in-memory stock catalog
func NewStockCatalog(expectedRows int) *StockCatalog {
	return &StockCatalog{
		stocks:   make([]entities.BatchQuantityLocation, 0, expectedRows),
		reserved: make(map[stockKey]entities.Quantity),
		products: make(map[entities.ProductID]entities.Product),
	}
}

// Verify interface compliance
var _ repositories.StockCatalogReader = (*StockCatalog)(nil)

// LoadStocks loads stock rows into the catalog
func (c *StockCatalog) LoadStocks(stocks []entities.BatchQuantityLocation) error {
	for _, stock := range stocks {
		if err := c.AddStock(stock); err != nil {
			return err
		}
	}
	return nil
}

// AddStock adds a stock row to the catalog
func (c *StockCatalog) AddStock(stock entities.BatchQuantityLocation) error {
	if stock.ProductID == "" {
		return fmt.Errorf("product id cannot be empty")
	}
	if err := stock.Location.Validate(); err != nil {
		return fmt.Errorf("invalid location for product %s: %w", stock.ProductID, err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.stocks = append(c.stocks, stock)
	return nil
}

// LoadProducts loads product master data into the catalog
func (c *StockCatalog) LoadProducts(products []*entities.Product) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for _, product := range products {
		c.products[product.ID] = *product
	}
	return nil
}

// Reserve marks stock as committed elsewhere so it is no longer pickable
func (c *StockCatalog) Reserve(stock entities.BatchQuantityLocation) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.reserved[keyOf(stock)] += stock.Quantity
}

// GetPickableBatchStocks returns stock rows of the products inside area,
// net of reservations, in insertion order
func (c *StockCatalog) GetPickableBatchStocks(
	ctx context.Context,
	productIDs []entities.ProductID,
	area entities.StockArea,
) ([]entities.BatchQuantityLocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wanted := make(map[entities.ProductID]bool, len(productIDs))
	for _, productID := range productIDs {
		wanted[productID] = true
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var stocks []entities.BatchQuantityLocation
	for _, stock := range c.stocks {
		if !wanted[stock.ProductID] || !area.Contains(stock.Location.WarehouseID) {
			continue
		}
		stocks = append(stocks, stock.WithQuantity(stock.Quantity-c.reserved[keyOf(stock)]))
	}
	return stocks, nil
}

// GetPickableStocks returns pickable stock summed over batches per product
// and location, in order of first appearance
func (c *StockCatalog) GetPickableStocks(
	ctx context.Context,
	productIDs []entities.ProductID,
	area entities.StockArea,
) ([]entities.ProductQuantityLocation, error) {
	batchStocks, err := c.GetPickableBatchStocks(ctx, productIDs, area)
	if err != nil {
		return nil, err
	}

	type locationKey struct {
		productID entities.ProductID
		location  entities.StockLocationReference
	}
	index := make(map[locationKey]int)
	var stocks []entities.ProductQuantityLocation
	for _, stock := range batchStocks {
		key := locationKey{productID: stock.ProductID, location: stock.Location}
		if i, exists := index[key]; exists {
			stocks[i].Quantity += stock.Quantity
			continue
		}
		index[key] = len(stocks)
		stocks = append(stocks, stock.ProductQuantityLocation)
	}
	return stocks, nil
}

// GetProductNumbers returns the product numbers of the known products among productIDs
func (c *StockCatalog) GetProductNumbers(
	ctx context.Context,
	productIDs []entities.ProductID,
) (map[entities.ProductID]string, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	numbers := make(map[entities.ProductID]string, len(productIDs))
	for _, productID := range productIDs {
		if product, exists := c.products[productID]; exists {
			numbers[productID] = product.Number
		}
	}
	return numbers, nil
}

// GetAvailableQuantity returns the total pickable quantity of a product in area
func (c *StockCatalog) GetAvailableQuantity(productID entities.ProductID, area entities.StockArea) entities.Quantity {
	stocks, _ := c.GetPickableBatchStocks(context.Background(), []entities.ProductID{productID}, area)

	var total entities.Quantity
	for _, stock := range stocks {
		if stock.Quantity > 0 {
			total += stock.Quantity
		}
	}
	return total
}

func keyOf(stock entities.BatchQuantityLocation) stockKey {
	return stockKey{productID: stock.ProductID, location: stock.Location, batchID: stock.BatchID}
}
