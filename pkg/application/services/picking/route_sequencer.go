package picking

import (
	"context"
	"sort"
	"strings"

	"github.com/vsinha/picking/pkg/domain/entities"
	"github.com/vsinha/picking/pkg/domain/repositories"
	"github.com/vsinha/picking/pkg/domain/services"
)

// routeGroup orders the coarse sections of a walk inside one warehouse
type routeGroup int

const (
	groupMappedBins   routeGroup = iota // bins with aisle coordinates
	groupUnmappedBins                   // bins without coordinates or unknown to the topology
	groupUnlocated                      // bulk/unknown and warehouse-scoped stock
	groupProcess                        // process-bound stock, visited after all warehouses
)

// RouteSequencer reorders picks into an S-shape walk through the warehouse:
// aisles in natural order, alternating direction per aisle, unmapped bins
// afterwards and locations without a bin last.
type RouteSequencer struct {
	topology repositories.WarehouseTopologySource
	codes    *services.LocationCodeComparator
}

// NewRouteSequencer creates a new route sequencer
func NewRouteSequencer(topology repositories.WarehouseTopologySource) *RouteSequencer {
	return &RouteSequencer{
		topology: topology,
		codes:    services.NewLocationCodeComparator(),
	}
}

// routeStop is a pick annotated with its sort keys
type routeStop struct {
	pick      entities.BatchQuantityLocation
	warehouse string
	group     routeGroup
	aisleRank int
	position  int
	code      string
}

// Route returns the picks of solution in walking order. Entries and
// quantities are unchanged; routing a routed solution yields the same order.
func (s *RouteSequencer) Route(ctx context.Context, solution entities.PickingSolution) (entities.PickingSolution, error) {
	if len(solution) < 2 {
		return solution.Clone(), nil
	}

	stops, err := s.buildStops(ctx, solution)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(stops, func(i, j int) bool {
		return s.compareStops(stops[i], stops[j]) < 0
	})

	routed := make(entities.PickingSolution, len(stops))
	for i, stop := range stops {
		routed[i] = stop.pick
	}
	return routed, nil
}

// AisleChanges counts how often a walk over solution, in its current order,
// moves from one aisle to another
func (s *RouteSequencer) AisleChanges(ctx context.Context, solution entities.PickingSolution) (int, error) {
	bins, err := loadBinLocations(ctx, s.topology, solutionLocations(solution))
	if err != nil {
		return 0, err
	}

	changes := 0
	previous := ""
	for _, pick := range solution {
		info, ok := bins[pick.Location.BinID]
		if !pick.Location.IsBinLocation() || !ok || !info.HasCoordinates {
			continue
		}
		aisle := string(info.WarehouseID) + "/" + info.Aisle
		if previous != "" && aisle != previous {
			changes++
		}
		previous = aisle
	}
	return changes, nil
}

func (s *RouteSequencer) buildStops(ctx context.Context, solution entities.PickingSolution) ([]routeStop, error) {
	bins, err := loadBinLocations(ctx, s.topology, solutionLocations(solution))
	if err != nil {
		return nil, err
	}

	stops := make([]routeStop, len(solution))
	aislesByWarehouse := make(map[string]map[string]bool)

	for i, pick := range solution {
		stop := routeStop{pick: pick, warehouse: string(pick.Location.WarehouseID)}

		switch pick.Location.Kind {
		case entities.KindBin:
			info, known := bins[pick.Location.BinID]
			stop.code = binCode(pick.Location, info, known)
			if known && info.HasCoordinates {
				stop.group = groupMappedBins
				stop.position = info.Position
				stop.code = info.Aisle
				if aislesByWarehouse[stop.warehouse] == nil {
					aislesByWarehouse[stop.warehouse] = make(map[string]bool)
				}
				aislesByWarehouse[stop.warehouse][info.Aisle] = true
			} else {
				stop.group = groupUnmappedBins
			}
		case entities.KindUnknown, entities.KindWarehouse:
			stop.group = groupUnlocated
			stop.code = pick.Location.Key()
		case entities.KindProcess:
			stop.group = groupProcess
			stop.warehouse = ""
			stop.code = pick.Location.Key()
		default:
			stop.group = groupProcess
			stop.code = pick.Location.Key()
		}

		stops[i] = stop
	}

	// Aisle ranks depend only on the set of aisles visited, which keeps routing idempotent
	aisleRanks := make(map[string]map[string]int, len(aislesByWarehouse))
	for warehouse, aisleSet := range aislesByWarehouse {
		aisles := make([]string, 0, len(aisleSet))
		for aisle := range aisleSet {
			aisles = append(aisles, aisle)
		}
		sort.Slice(aisles, func(i, j int) bool {
			return s.codes.Less(aisles[i], aisles[j])
		})
		ranks := make(map[string]int, len(aisles))
		for rank, aisle := range aisles {
			ranks[aisle] = rank
		}
		aisleRanks[warehouse] = ranks
	}

	for i := range stops {
		if stops[i].group == groupMappedBins {
			stops[i].aisleRank = aisleRanks[stops[i].warehouse][stops[i].code]
		}
	}

	return stops, nil
}

func (s *RouteSequencer) compareStops(a, b routeStop) int {
	// Process-bound stock is visited after every warehouse
	if processA, processB := a.group == groupProcess, b.group == groupProcess; processA != processB {
		if processA {
			return 1
		}
		return -1
	}
	if result := strings.Compare(a.warehouse, b.warehouse); result != 0 {
		return result
	}
	if result := compareInts(int(a.group), int(b.group)); result != 0 {
		return result
	}

	if a.group == groupMappedBins {
		if result := compareInts(a.aisleRank, b.aisleRank); result != 0 {
			return result
		}
		// S-shape: walk even-ranked aisles forward and odd-ranked aisles backward
		if a.aisleRank%2 == 0 {
			if result := compareInts(a.position, b.position); result != 0 {
				return result
			}
		} else if result := compareInts(b.position, a.position); result != 0 {
			return result
		}
	} else if result := s.codes.Compare(a.code, b.code); result != 0 {
		return result
	}

	return comparePicks(a.pick, b.pick)
}

// comparePicks is the final tie-break that makes the route a total order
func comparePicks(a, b entities.BatchQuantityLocation) int {
	if result := a.Location.Compare(b.Location); result != 0 {
		return result
	}
	if result := strings.Compare(string(a.ProductID), string(b.ProductID)); result != 0 {
		return result
	}
	if result := strings.Compare(string(a.BatchID), string(b.BatchID)); result != 0 {
		return result
	}
	return compareInts(int(a.Quantity), int(b.Quantity))
}

func solutionLocations(solution entities.PickingSolution) []entities.StockLocationReference {
	locations := make([]entities.StockLocationReference, len(solution))
	for i, pick := range solution {
		locations[i] = pick.Location
	}
	return locations
}
