package picking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/picking/pkg/domain/entities"
)

func routingScenario(t *testing.T) *scenario {
	return newScenario(t).
		withBin(t, "A1", "01-01", entities.PriorityChaotic, "1", 1).
		withBin(t, "A3", "01-03", entities.PriorityChaotic, "1", 3).
		withBin(t, "B1", "02-01", entities.PriorityChaotic, "2", 1).
		withBin(t, "B3", "02-03", entities.PriorityChaotic, "2", 3).
		withBin(t, "C5", "10-05", entities.PriorityChaotic, "10", 5).
		withBin(t, "U", "OVERFLOW", entities.PriorityChaotic, "", 0)
}

func TestRouteSequencer_SShape(t *testing.T) {
	router := NewRouteSequencer(routingScenario(t).topology)

	process := row("A", 1, entities.ProcessLocation(testWarehouse, "production", "P-1"))
	unknown := row("A", 1, entities.UnknownLocation(testWarehouse))
	solution := entities.PickingSolution{
		process,
		row("A", 1, bin("B1")),
		row("A", 1, bin("U")),
		row("A", 1, bin("C5")),
		row("A", 1, bin("A3")),
		unknown,
		row("A", 1, bin("B3")),
		row("B", 2, bin("A1")),
	}

	routed, err := router.Route(context.Background(), solution)
	require.NoError(t, err)

	expected := entities.PickingSolution{
		row("B", 2, bin("A1")),
		row("A", 1, bin("A3")),
		row("A", 1, bin("B3")),
		row("A", 1, bin("B1")),
		row("A", 1, bin("C5")),
		row("A", 1, bin("U")),
		unknown,
		process,
	}
	assert.Equal(t, expected, routed)

	changes, err := router.AisleChanges(context.Background(), routed)
	require.NoError(t, err)
	assert.Equal(t, 2, changes)
}

func TestRouteSequencer_Idempotent(t *testing.T) {
	router := NewRouteSequencer(routingScenario(t).topology)
	solution := entities.PickingSolution{
		row("A", 1, bin("C5")),
		row("A", 2, bin("A3")),
		row("B", 1, bin("A3")),
		row("A", 1, bin("B1")),
		batchRow("C", 1, bin("B1"), "B2"),
		batchRow("C", 1, bin("B1"), "B1"),
		row("A", 1, entities.UnknownLocation(testWarehouse)),
	}

	once, err := router.Route(context.Background(), solution)
	require.NoError(t, err)
	twice, err := router.Route(context.Background(), once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.ElementsMatch(t, solution, once)
}

func TestRouteSequencer_ProcessLocationsWithSeparatorInIDs(t *testing.T) {
	router := NewRouteSequencer(routingScenario(t).topology)
	typed := row("A", 1, entities.ProcessLocation(testWarehouse, "order:1", "x"))
	numbered := row("A", 1, entities.ProcessLocation(testWarehouse, "order", "1:x"))

	forward, err := router.Route(context.Background(), entities.PickingSolution{typed, numbered})
	require.NoError(t, err)
	backward, err := router.Route(context.Background(), entities.PickingSolution{numbered, typed})
	require.NoError(t, err)

	assert.Equal(t, forward, backward)
}

func TestRouteSequencer_IndependentOfInputOrder(t *testing.T) {
	router := NewRouteSequencer(routingScenario(t).topology)
	solution := entities.PickingSolution{
		row("A", 1, bin("A1")),
		row("A", 1, bin("B3")),
		row("A", 1, entities.WarehouseLocation(testWarehouse)),
		row("A", 1, bin("C5")),
		row("A", 1, bin("unmapped")),
	}
	reversed := make(entities.PickingSolution, len(solution))
	for i, pick := range solution {
		reversed[len(solution)-1-i] = pick
	}

	forward, err := router.Route(context.Background(), solution)
	require.NoError(t, err)
	backward, err := router.Route(context.Background(), reversed)
	require.NoError(t, err)

	assert.Equal(t, forward, backward)
}

func TestRouteSequencer_SmallSolutions(t *testing.T) {
	router := NewRouteSequencer(&mockTopology{})

	routed, err := router.Route(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, routed)

	single := entities.PickingSolution{row("A", 1, bin("X"))}
	routed, err = router.Route(context.Background(), single)
	require.NoError(t, err)
	assert.Equal(t, single, routed)
}

func TestRouteSequencer_GroupsByWarehouse(t *testing.T) {
	router := NewRouteSequencer(routingScenario(t).topology)
	other := row("A", 1, entities.UnknownLocation("WH0"))
	solution := entities.PickingSolution{
		row("A", 1, bin("A1")),
		other,
	}

	routed, err := router.Route(context.Background(), solution)
	require.NoError(t, err)

	assert.Equal(t, entities.PickingSolution{other, row("A", 1, bin("A1"))}, routed)
}
