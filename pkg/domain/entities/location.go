package entities

import (
	"fmt"
	"strings"
)

// WarehouseID identifies a warehouse
type WarehouseID string

// BinLocationID identifies a bin location inside a warehouse
type BinLocationID string

// LocationKind tags the variant held by a StockLocationReference
type LocationKind int

const (
	// KindBin is a discrete, addressable storage slot
	KindBin LocationKind = iota
	// KindUnknown is stock somewhere in a warehouse without a bin
	KindUnknown
	// KindProcess is stock bound to a process such as a goods receipt or an order
	KindProcess
	// KindWarehouse is the warehouse-scoped marker
	KindWarehouse
)

// String method for LocationKind enum
func (k LocationKind) String() string {
	switch k {
	case KindBin:
		return "bin"
	case KindUnknown:
		return "unknown"
	case KindProcess:
		return "process"
	case KindWarehouse:
		return "warehouse"
	default:
		return "invalid"
	}
}

// ParseLocationKind converts the textual form used in files and databases
func ParseLocationKind(s string) (LocationKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bin":
		return KindBin, nil
	case "unknown", "bulk":
		return KindUnknown, nil
	case "process":
		return KindProcess, nil
	case "warehouse":
		return KindWarehouse, nil
	default:
		return 0, fmt.Errorf("invalid location kind: %q", s)
	}
}

// StockLocationReference points at the place a stock row lives in.
// Only the fields belonging to Kind are set; the struct is comparable and
// can be used as a map key.
type StockLocationReference struct {
	Kind        LocationKind
	WarehouseID WarehouseID
	BinID       BinLocationID
	ProcessType string
	ProcessID   string
}

// BinLocation references a bin location of a warehouse
func BinLocation(warehouseID WarehouseID, binID BinLocationID) StockLocationReference {
	return StockLocationReference{Kind: KindBin, WarehouseID: warehouseID, BinID: binID}
}

// UnknownLocation references stock somewhere in a warehouse
func UnknownLocation(warehouseID WarehouseID) StockLocationReference {
	return StockLocationReference{Kind: KindUnknown, WarehouseID: warehouseID}
}

// ProcessLocation references stock bound to a process (e.g. "goods_receipt",
// "order"). warehouseID may be empty for processes outside any warehouse.
func ProcessLocation(warehouseID WarehouseID, processType, processID string) StockLocationReference {
	return StockLocationReference{
		Kind:        KindProcess,
		WarehouseID: warehouseID,
		ProcessType: processType,
		ProcessID:   processID,
	}
}

// WarehouseLocation references a warehouse as a whole
func WarehouseLocation(warehouseID WarehouseID) StockLocationReference {
	return StockLocationReference{Kind: KindWarehouse, WarehouseID: warehouseID}
}

// IsBinLocation reports whether exact quantities can be picked from the location
func (r StockLocationReference) IsBinLocation() bool {
	return r.Kind == KindBin
}

// Key returns a stable identity used for grouping and tie-breaking
func (r StockLocationReference) Key() string {
	switch r.Kind {
	case KindBin:
		return "bin:" + string(r.BinID)
	case KindUnknown:
		return "unknown:" + string(r.WarehouseID)
	case KindProcess:
		return "process:" + r.ProcessType + ":" + r.ProcessID
	case KindWarehouse:
		return "warehouse:" + string(r.WarehouseID)
	default:
		return "invalid"
	}
}

// Compare orders references field by field. It returns 0 only for equal references.
func (r StockLocationReference) Compare(other StockLocationReference) int {
	switch {
	case r.Kind < other.Kind:
		return -1
	case r.Kind > other.Kind:
		return 1
	}
	for _, pair := range [][2]string{
		{string(r.WarehouseID), string(other.WarehouseID)},
		{string(r.BinID), string(other.BinID)},
		{r.ProcessType, other.ProcessType},
		{r.ProcessID, other.ProcessID},
	} {
		if result := strings.Compare(pair[0], pair[1]); result != 0 {
			return result
		}
	}
	return 0
}

// Validate checks that the fields required by Kind are present
func (r StockLocationReference) Validate() error {
	switch r.Kind {
	case KindBin:
		if r.BinID == "" {
			return fmt.Errorf("bin location requires a bin id")
		}
		if r.WarehouseID == "" {
			return fmt.Errorf("bin location %s requires a warehouse id", r.BinID)
		}
	case KindUnknown, KindWarehouse:
		if r.WarehouseID == "" {
			return fmt.Errorf("%s location requires a warehouse id", r.Kind)
		}
	case KindProcess:
		if r.ProcessType == "" || r.ProcessID == "" {
			return fmt.Errorf("process location requires a process type and id")
		}
	default:
		return fmt.Errorf("invalid location kind %d", int(r.Kind))
	}
	return nil
}

func (r StockLocationReference) String() string {
	return r.Key()
}

// NewStockLocationReference assembles a reference from its flat column form,
// keeping only the fields that belong to kind
func NewStockLocationReference(kind LocationKind, warehouseID WarehouseID, binID BinLocationID, processType, processID string) (StockLocationReference, error) {
	var ref StockLocationReference
	switch kind {
	case KindBin:
		ref = BinLocation(warehouseID, binID)
	case KindUnknown:
		ref = UnknownLocation(warehouseID)
	case KindProcess:
		ref = ProcessLocation(warehouseID, processType, processID)
	case KindWarehouse:
		ref = WarehouseLocation(warehouseID)
	default:
		return StockLocationReference{}, fmt.Errorf("invalid location kind %d", int(kind))
	}
	if err := ref.Validate(); err != nil {
		return StockLocationReference{}, err
	}
	return ref, nil
}
