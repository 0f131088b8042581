package identified_test

import (
	"testing"

	"github.com/on-the-ground/reduct_ive_go/shared/identified"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id   string
	rank int
}

func keyOf(r row) string { return r.id }

func TestArray_PreservesInsertionOrder(t *testing.T) {
	a := identified.NewArray(keyOf,
		row{id: "c", rank: 3},
		row{id: "a", rank: 1},
		row{id: "b", rank: 2},
	)

	assert.Equal(t, []string{"c", "a", "b"}, a.Keys())
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, "a", a.At(1).id)
}

func TestArray_KeysAreUnique(t *testing.T) {
	a := identified.NewArray(keyOf,
		row{id: "a", rank: 1},
		row{id: "a", rank: 99},
	)

	require.Equal(t, 1, a.Len())
	got, ok := a.Get("a")
	require.True(t, ok)
	// First occurrence wins.
	assert.Equal(t, 1, got.rank)

	assert.False(t, a.Append(row{id: "a", rank: 5}))
	assert.Equal(t, 1, a.Len())
}

func TestArray_UpdateKeepsPosition(t *testing.T) {
	a := identified.NewArray(keyOf,
		row{id: "a", rank: 1},
		row{id: "b", rank: 2},
		row{id: "c", rank: 3},
	)

	require.True(t, a.Update("b", row{id: "b", rank: 20}))
	assert.Equal(t, []string{"a", "b", "c"}, a.Keys())
	got, _ := a.Get("b")
	assert.Equal(t, 20, got.rank)

	assert.False(t, a.Update("missing", row{id: "missing"}))
	assert.False(t, a.Update("a", row{id: "zzz"}), "mismatched key must be rejected")
}

func TestArray_Remove(t *testing.T) {
	a := identified.NewArray(keyOf,
		row{id: "a"},
		row{id: "b"},
		row{id: "c"},
	)

	require.True(t, a.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, a.Keys())
	assert.False(t, a.Remove("b"))
}

func TestArray_SnapshotsAreStable(t *testing.T) {
	a := identified.NewArray(keyOf, row{id: "a", rank: 1})
	snapshot := a

	require.True(t, a.Update("a", row{id: "a", rank: 2}))

	got, ok := snapshot.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, got.rank, "snapshot must not observe later mutation")
}
