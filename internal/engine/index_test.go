package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segnalibro/internal/domain"
)

func TestUpsertMergePreservesCachedChildren(t *testing.T) {
	ix := NewIndex()
	folder := ix.Upsert(&domain.Node{
		ID:       "f",
		Title:    "Folder",
		Children: []*domain.Node{{ID: "a", ParentID: "f", Title: "A"}},
	})
	require.Len(t, folder.Children, 1)

	// A shallow re-fetch of the same folder carries no children; merging
	// it must not erase what the cache already knows.
	merged := ix.Upsert(&domain.Node{ID: "f", Title: "Renamed"})
	assert.Same(t, folder, merged)
	assert.Equal(t, "Renamed", merged.Title)
	require.Len(t, merged.Children, 1)
	assert.Equal(t, "a", merged.Children[0].ID)
}

func TestUpsertReplacesChildrenWhenIncomingNonNil(t *testing.T) {
	ix := NewIndex()
	ix.Upsert(&domain.Node{
		ID:       "f",
		Children: []*domain.Node{{ID: "a", ParentID: "f"}},
	})

	merged := ix.Upsert(&domain.Node{ID: "f", Children: []*domain.Node{}})
	require.NotNil(t, merged.Children)
	assert.Empty(t, merged.Children)
}

func TestUpsertKeepsDateAddedWhenIncomingZero(t *testing.T) {
	ix := NewIndex()
	added := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ix.Upsert(&domain.Node{ID: "b", Title: "B", DateAdded: added})

	merged := ix.Upsert(&domain.Node{ID: "b", Title: "B2"})
	assert.Equal(t, added, merged.DateAdded)
}

func TestSetChildrenMarksFolderConfirmedEmpty(t *testing.T) {
	ix := NewIndex()
	ix.Upsert(&domain.Node{ID: "f", Title: "Folder"})

	before, _ := ix.Get("f")
	assert.False(t, before.ChildrenKnown())

	folder := ix.SetChildren("f", []*domain.Node{})
	assert.True(t, folder.ChildrenKnown())
	assert.Empty(t, folder.Children)
}

func TestSetChildrenReusesCachedNodes(t *testing.T) {
	ix := NewIndex()
	cached := ix.Upsert(&domain.Node{
		ID:       "a",
		ParentID: "f",
		Title:    "A",
		Children: []*domain.Node{{ID: "a1", ParentID: "a"}},
	})

	// The listing names "a" again, shallow. The folder must end up
	// pointing at the cached node, deeper children intact.
	folder := ix.SetChildren("f", []*domain.Node{
		{ID: "a", ParentID: "f", Title: "A"},
		{ID: "b", ParentID: "f", Title: "B"},
	})
	require.Len(t, folder.Children, 2)
	assert.Same(t, cached, folder.Children[0])
	require.Len(t, folder.Children[0].Children, 1)
}

func TestRemoveDropsSubtreeAndDanglingReferences(t *testing.T) {
	ix := NewIndex()
	sub := &domain.Node{ID: "sub", ParentID: "f", Children: []*domain.Node{
		{ID: "x", ParentID: "sub"},
		{ID: "y", ParentID: "sub"},
	}}
	ix.SetChildren("sub", sub.Children)
	folder := ix.SetChildren("f", []*domain.Node{sub, {ID: "keep", ParentID: "f"}})
	require.Equal(t, 5, ix.Len()) // f, sub, x, y, keep

	ix.Remove([]string{"sub", "x", "y"})

	assert.Equal(t, 2, ix.Len())
	_, ok := ix.Get("sub")
	assert.False(t, ok)
	require.Len(t, folder.Children, 1)
	assert.Equal(t, "keep", folder.Children[0].ID)
}

func TestMarkCompleteIsOneWay(t *testing.T) {
	ix := NewIndex()
	assert.False(t, ix.Complete())
	ix.MarkComplete()
	assert.True(t, ix.Complete())

	// Later partial writes never demote the index.
	ix.Upsert(&domain.Node{ID: "late"})
	ix.SetChildren("late", []*domain.Node{})
	ix.Remove([]string{"late"})
	assert.True(t, ix.Complete())
}
