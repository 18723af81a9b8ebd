package entities

import (
	"fmt"
	"sort"
	"strings"
)

// AreaKind selects the scope of a StockArea
type AreaKind int

const (
	AreaKindWarehouse AreaKind = iota
	AreaKindWarehouses
	AreaKindEverywhere
)

// String method for AreaKind enum
func (k AreaKind) String() string {
	switch k {
	case AreaKindWarehouse:
		return "warehouse"
	case AreaKindWarehouses:
		return "warehouses"
	case AreaKindEverywhere:
		return "everywhere"
	default:
		return "Unknown"
	}
}

// StockArea defines the scope the stock catalog is queried in
type StockArea struct {
	Kind         AreaKind
	WarehouseIDs []WarehouseID
}

// AreaWarehouse scopes stock to a single warehouse
func AreaWarehouse(id WarehouseID) StockArea {
	return StockArea{Kind: AreaKindWarehouse, WarehouseIDs: []WarehouseID{id}}
}

// AreaWarehouses scopes stock to a set of warehouses
func AreaWarehouses(ids ...WarehouseID) StockArea {
	return StockArea{Kind: AreaKindWarehouses, WarehouseIDs: ids}
}

// AreaEverywhere scopes stock to all warehouses
func AreaEverywhere() StockArea {
	return StockArea{Kind: AreaKindEverywhere}
}

// Validate checks that the scope can be resolved
func (a StockArea) Validate() error {
	switch a.Kind {
	case AreaKindWarehouse:
		if len(a.WarehouseIDs) != 1 || a.WarehouseIDs[0] == "" {
			return fmt.Errorf("warehouse stock area requires exactly one warehouse id")
		}
	case AreaKindWarehouses:
		if len(a.WarehouseIDs) == 0 {
			return fmt.Errorf("warehouses stock area requires at least one warehouse id")
		}
		for _, id := range a.WarehouseIDs {
			if id == "" {
				return fmt.Errorf("warehouses stock area contains an empty warehouse id")
			}
		}
	case AreaKindEverywhere:
	default:
		return fmt.Errorf("invalid stock area kind %d", int(a.Kind))
	}
	return nil
}

// Contains reports whether stock of the warehouse is inside the area
func (a StockArea) Contains(id WarehouseID) bool {
	if a.Kind == AreaKindEverywhere {
		return true
	}
	for _, candidate := range a.WarehouseIDs {
		if candidate == id {
			return true
		}
	}
	return false
}

func (a StockArea) String() string {
	if a.Kind == AreaKindEverywhere {
		return a.Kind.String()
	}
	ids := make([]string, len(a.WarehouseIDs))
	for i, id := range a.WarehouseIDs {
		ids[i] = string(id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("%s(%s)", a.Kind, strings.Join(ids, ","))
}

// PickingRequest is the demand side of the picking engine
type PickingRequest struct {
	ProductsToPick  []ProductQuantity
	SourceStockArea StockArea
}

// NewPickingRequest creates a validated PickingRequest
func NewPickingRequest(productsToPick []ProductQuantity, area StockArea) (*PickingRequest, error) {
	request := &PickingRequest{
		ProductsToPick:  append([]ProductQuantity(nil), productsToPick...),
		SourceStockArea: area,
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	return request, nil
}

// Validate rejects empty requests, non-positive quantities, duplicate products
// and unresolvable stock areas
func (r PickingRequest) Validate() error {
	if len(r.ProductsToPick) == 0 {
		return fmt.Errorf("%w: no products to pick", ErrInvalidRequest)
	}

	seen := make(map[ProductID]bool, len(r.ProductsToPick))
	for _, pq := range r.ProductsToPick {
		if pq.ProductID == "" {
			return fmt.Errorf("%w: product id cannot be empty", ErrInvalidRequest)
		}
		if pq.Quantity <= 0 {
			return fmt.Errorf("%w: quantity for product %s must be positive, got %d",
				ErrInvalidRequest, pq.ProductID, pq.Quantity)
		}
		if seen[pq.ProductID] {
			return fmt.Errorf("%w: product %s requested more than once", ErrInvalidRequest, pq.ProductID)
		}
		seen[pq.ProductID] = true
	}

	if err := r.SourceStockArea.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// ProductIDs returns the requested product ids in request order
func (r PickingRequest) ProductIDs() []ProductID {
	ids := make([]ProductID, len(r.ProductsToPick))
	for i, pq := range r.ProductsToPick {
		ids[i] = pq.ProductID
	}
	return ids
}

// Demand returns the requested quantity per product
func (r PickingRequest) Demand() map[ProductID]Quantity {
	demand := make(map[ProductID]Quantity, len(r.ProductsToPick))
	for _, pq := range r.ProductsToPick {
		demand[pq.ProductID] += pq.Quantity
	}
	return demand
}
