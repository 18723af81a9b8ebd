package entities

// BatchID identifies a batch (lot) of a product
type BatchID string

// ProductQuantityLocation is one row of available stock. Quantity may be
// negative in source data; such rows are never pickable.
type ProductQuantityLocation struct {
	ProductID ProductID
	Quantity  Quantity
	Location  StockLocationReference
}

// WithQuantity returns a copy carrying a different quantity
func (p ProductQuantityLocation) WithQuantity(quantity Quantity) ProductQuantityLocation {
	p.Quantity = quantity
	return p
}

// WithoutBatch lifts the row into the batch-aware representation with no batch
func (p ProductQuantityLocation) WithoutBatch() BatchQuantityLocation {
	return BatchQuantityLocation{ProductQuantityLocation: p}
}

// BatchQuantityLocation is a stock row with per-batch granularity.
// An empty BatchID marks untracked stock.
type BatchQuantityLocation struct {
	ProductQuantityLocation
	BatchID BatchID
}

// WithQuantity returns a copy carrying a different quantity
func (b BatchQuantityLocation) WithQuantity(quantity Quantity) BatchQuantityLocation {
	b.Quantity = quantity
	return b
}

// HasBatch reports whether the row is tied to a batch
func (b BatchQuantityLocation) HasBatch() bool {
	return b.BatchID != ""
}
