package entities

import "fmt"

// ProductID represents a unique product identifier
type ProductID string

// Quantity represents an integer quantity of discrete stock units
type Quantity int64

// ProductQuantity represents a demand or a supply amount for one product
type ProductQuantity struct {
	ProductID ProductID
	Quantity  Quantity
}

// NewProductQuantity creates a validated ProductQuantity
func NewProductQuantity(productID ProductID, quantity Quantity) (ProductQuantity, error) {
	if productID == "" {
		return ProductQuantity{}, fmt.Errorf("product id cannot be empty")
	}
	if quantity < 0 {
		return ProductQuantity{}, fmt.Errorf("quantity cannot be negative, got %d", quantity)
	}

	return ProductQuantity{ProductID: productID, Quantity: quantity}, nil
}

// Product holds catalog data used for diagnostics
type Product struct {
	ID     ProductID
	Number string
	Name   string
}
