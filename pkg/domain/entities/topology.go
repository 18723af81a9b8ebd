package entities

import (
	"fmt"
	"strings"
)

// PriorityClass ranks bins for picking; lower values are visited first
type PriorityClass int

const (
	// PriorityFixed marks designated fixed/primary bins of a product
	PriorityFixed PriorityClass = iota
	// PriorityChaotic marks flexible bins of chaotic storage
	PriorityChaotic
)

// String method for PriorityClass enum
func (p PriorityClass) String() string {
	switch p {
	case PriorityFixed:
		return "fixed"
	case PriorityChaotic:
		return "chaotic"
	default:
		return "Unknown"
	}
}

// ParsePriorityClass converts the textual form used in files and databases
func ParsePriorityClass(s string) (PriorityClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "primary":
		return PriorityFixed, nil
	case "chaotic", "flexible", "":
		return PriorityChaotic, nil
	default:
		return 0, fmt.Errorf("invalid priority class: %q", s)
	}
}

// BinLocationInfo describes a bin in the warehouse topology
type BinLocationInfo struct {
	ID             BinLocationID
	WarehouseID    WarehouseID
	Code           string
	Priority       PriorityClass
	Aisle          string
	Position       int
	HasCoordinates bool
}

// NewBinLocationInfo creates a validated BinLocationInfo; an empty aisle means
// the bin has no known coordinates
func NewBinLocationInfo(id BinLocationID, warehouseID WarehouseID, code string, priority PriorityClass, aisle string, position int) (*BinLocationInfo, error) {
	if id == "" {
		return nil, fmt.Errorf("bin location id cannot be empty")
	}
	if warehouseID == "" {
		return nil, fmt.Errorf("warehouse id cannot be empty")
	}
	if code == "" {
		return nil, fmt.Errorf("bin location code cannot be empty")
	}
	if position < 0 {
		return nil, fmt.Errorf("position cannot be negative, got %d", position)
	}

	return &BinLocationInfo{
		ID:             id,
		WarehouseID:    warehouseID,
		Code:           code,
		Priority:       priority,
		Aisle:          aisle,
		Position:       position,
		HasCoordinates: aisle != "",
	}, nil
}

// Reference returns the stock location reference of the bin
func (b BinLocationInfo) Reference() StockLocationReference {
	return BinLocation(b.WarehouseID, b.ID)
}
