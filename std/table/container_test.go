package table

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordContainerAllocatesIdsFrom1(t *testing.T) {
	c := NewRecordContainer[string]()
	id1 := c.Insert("a")
	id2 := c.Insert("b")
	require.Equal(t, uint64(1), id1)
	require.Equal(t, uint64(2), id2)
}

func TestRecordContainerGetErase(t *testing.T) {
	c := NewRecordContainer[string]()
	id := c.Insert("a")

	v, ok := c.Get(id)
	require.True(t, ok)
	require.Equal(t, "a", v)

	c.Erase(id)
	_, ok = c.Get(id)
	require.False(t, ok)

	// Erasing an absent id is a no-op, not a panic.
	c.Erase(id)
	c.Erase(999)
}

func TestRecordContainerIdsNeverReused(t *testing.T) {
	c := NewRecordContainer[string]()
	id1 := c.Insert("a")
	c.Erase(id1)
	id2 := c.Insert("b")
	require.NotEqual(t, id1, id2)
	require.Greater(t, id2, id1)
}

func TestRecordContainerReserveIDThenInsertAt(t *testing.T) {
	c := NewRecordContainer[string]()
	id := c.ReserveID()
	_, ok := c.Get(id)
	require.False(t, ok, "a reserved id must not be visible until InsertAt")

	c.InsertAt(id, "late")
	v, ok := c.Get(id)
	require.True(t, ok)
	require.Equal(t, "late", v)
}

func TestRecordContainerOnEmptyFiresOncePerTransition(t *testing.T) {
	c := NewRecordContainer[string]()
	fires := 0
	c.OnEmpty(func() { fires++ })

	id1 := c.Insert("a")
	id2 := c.Insert("b")
	require.Equal(t, 0, fires)

	c.Erase(id1)
	require.Equal(t, 0, fires, "must not fire while a record remains")

	c.Erase(id2)
	require.Equal(t, 1, fires, "must fire exactly once on the 1->0 transition")

	// Re-populate and empty again: fires a second time, not suppressed.
	id3 := c.Insert("c")
	c.Erase(id3)
	require.Equal(t, 2, fires)
}

func TestRecordContainerOnEmptyCancel(t *testing.T) {
	c := NewRecordContainer[string]()
	fires := 0
	cancel := c.OnEmpty(func() { fires++ })
	cancel()

	id := c.Insert("a")
	c.Erase(id)
	require.Equal(t, 0, fires)
}

func TestRecordContainerRemoveIfStableUnderSelfRemoval(t *testing.T) {
	c := NewRecordContainer[int]()
	var ids []uint64
	for i := 0; i < 5; i++ {
		ids = append(ids, c.Insert(i))
	}

	var seen []int
	c.RemoveIf(func(id uint64, v int) bool {
		seen = append(seen, v)
		// Every even record additionally erases its own neighbor,
		// exercising mutation of the container from inside the predicate.
		if v%2 == 0 && v+1 < 5 {
			c.Erase(ids[v+1])
		}
		return v%2 == 0
	})

	require.ElementsMatch(t, []int{0, 1, 2, 3, 4}, seen, "predicate must see every record present at call time exactly once")
	require.Equal(t, 0, c.Len())
}

func TestRecordContainerRemoveIfSurvivesInsertDuringIteration(t *testing.T) {
	c := NewRecordContainer[int]()
	id := c.Insert(1)

	var inserted uint64
	c.RemoveIf(func(got uint64, v int) bool {
		if got == id {
			inserted = c.Insert(2)
		}
		return false
	})

	require.Equal(t, 2, c.Len())
	v, ok := c.Get(inserted)
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestRecordContainerForEachSnapshotsBeforeMutation(t *testing.T) {
	c := NewRecordContainer[int]()
	idA := c.Insert(1)
	c.Insert(2)

	visited := 0
	c.ForEach(func(id uint64, v int) {
		visited++
		if id == idA {
			c.Erase(idA)
		}
	})
	require.Equal(t, 2, visited, "erasing the current entry must not shrink the walk")
	require.Equal(t, 1, c.Len())
}

func TestRecordContainerLen(t *testing.T) {
	c := NewRecordContainer[int]()
	require.Equal(t, 0, c.Len())
	id := c.Insert(1)
	require.Equal(t, 1, c.Len())
	c.Erase(id)
	require.Equal(t, 0, c.Len())
}
