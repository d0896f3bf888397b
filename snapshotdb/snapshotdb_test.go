package snapshotdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holoholo-transit/planner/internal/transit"
)

func testSnapshot(t *testing.T) *transit.Snapshot {
	t.Helper()
	snap, err := transit.NewSnapshot(
		[]transit.Stop{
			{ID: "S1", Name: "Harbor", Lat: 21.30, Lon: -157.86},
			{ID: "S2", Name: "Market", Lat: 21.31, Lon: -157.86},
		},
		[]transit.Route{
			{ID: "R1", ShortName: "1", LongName: "Line One"},
			{ID: "R2", ShortName: "2", LongName: "Line Two"},
		},
		map[string][]string{"S1": {"R1", "R2"}, "S2": {"R1"}},
	)
	require.NoError(t, err)
	return snap
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	client, err := Open(":memory:")
	require.NoError(t, err)
	defer client.Close() // nolint:errcheck

	ctx := context.Background()
	require.NoError(t, client.SaveSnapshot(ctx, testSnapshot(t)))

	loaded, err := client.LoadSnapshot(ctx)
	require.NoError(t, err)

	assert.Len(t, loaded.Stops(), 2)
	assert.Len(t, loaded.Routes(), 2)

	st, ok := loaded.StopByID("S1")
	require.True(t, ok)
	assert.Equal(t, "Harbor", st.Name)
	assert.InDelta(t, 21.30, st.Lat, 1e-9)

	routes := loaded.RoutesForStop("S1")
	require.Len(t, routes, 2)
	assert.Equal(t, "R1", routes[0].ID)
	assert.Equal(t, "R2", routes[1].ID)

	savedAt, err := client.SavedAt(ctx)
	require.NoError(t, err)
	assert.False(t, savedAt.IsZero())
}

func TestSaveReplacesPrevious(t *testing.T) {
	client, err := Open(":memory:")
	require.NoError(t, err)
	defer client.Close() // nolint:errcheck

	ctx := context.Background()
	require.NoError(t, client.SaveSnapshot(ctx, testSnapshot(t)))

	smaller, err := transit.NewSnapshot(
		[]transit.Stop{{ID: "S9", Name: "Solo", Lat: 21.4, Lon: -157.9}},
		[]transit.Route{{ID: "R9", ShortName: "9", LongName: "Line Nine"}},
		map[string][]string{"S9": {"R9"}},
	)
	require.NoError(t, err)
	require.NoError(t, client.SaveSnapshot(ctx, smaller))

	loaded, err := client.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Stops(), 1)
	_, ok := loaded.StopByID("S1")
	assert.False(t, ok)
}

func TestLoadEmptyStore(t *testing.T) {
	client, err := Open(":memory:")
	require.NoError(t, err)
	defer client.Close() // nolint:errcheck

	ctx := context.Background()
	_, err = client.LoadSnapshot(ctx)
	assert.ErrorContains(t, err, "empty")

	savedAt, err := client.SavedAt(ctx)
	require.NoError(t, err)
	assert.True(t, savedAt.IsZero())
}
