package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segnalibro/internal/domain"
)

func TestResolvePathJoinsAncestorTitles(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, seedStore(), newFakeState())

	path, err := e.ResolvePath(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "Bookmarks / Dev / GitHub", path)

	path, err = e.ResolvePath(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Bookmarks", path)
}

func TestResolvePathMemoizes(t *testing.T) {
	ctx := context.Background()
	fs := seedStore()
	e := newTestEngine(t, fs, newFakeState())

	_, err := e.ResolvePath(ctx, "100")
	require.NoError(t, err)
	fs.mu.Lock()
	after := fs.nodeCalls
	fs.mu.Unlock()

	_, err = e.ResolvePath(ctx, "100")
	require.NoError(t, err)
	fs.mu.Lock()
	again := fs.nodeCalls
	fs.mu.Unlock()
	assert.Equal(t, after, again)
}

func TestChangeEventInvalidatesPathMemo(t *testing.T) {
	ctx := context.Background()
	fs := seedStore()
	e := newTestEngine(t, fs, newFakeState())

	path, err := e.ResolvePath(ctx, "100")
	require.NoError(t, err)
	require.Equal(t, "Bookmarks / Dev / GitHub", path)

	require.NoError(t, e.Rename(ctx, "10", "Code"))
	waitFor(t, func() bool {
		return findEntry(t, e.VisibleItems(), "10").Title == "Code"
	}, "rename applied")

	path, err = e.ResolvePath(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "Bookmarks / Code / GitHub", path)
}

func TestResolvePathUnknownNodeFails(t *testing.T) {
	e := newTestEngine(t, seedStore(), newFakeState())

	_, err := e.ResolvePath(context.Background(), "404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolvePathBoundsCorruptParentChains(t *testing.T) {
	e := newTestEngine(t, seedStore(), newFakeState())

	// Two nodes pointing at each other would walk forever without the
	// depth bound.
	e.mu.Lock()
	e.idx.Upsert(&domain.Node{ID: "loop-a", ParentID: "loop-b", Title: "A"})
	e.idx.Upsert(&domain.Node{ID: "loop-b", ParentID: "loop-a", Title: "B"})
	e.mu.Unlock()

	path, err := e.ResolvePath(context.Background(), "loop-a")
	require.NoError(t, err)
	segments := strings.Split(path, " / ")
	assert.Len(t, segments, maxChainDepth)
}
