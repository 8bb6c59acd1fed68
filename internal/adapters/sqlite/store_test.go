package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segnalibro/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bookmarks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func childIDs(t *testing.T, s *Store, folderID string) []string {
	t.Helper()
	children, err := s.Children(context.Background(), folderID)
	require.NoError(t, err)
	ids := make([]string, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.ID)
	}
	return ids
}

func readEvent(t *testing.T, ch <-chan domain.Event) domain.Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("event channel closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return domain.Event{}
}

func TestOpenSeedsRootAndPrimary(t *testing.T) {
	s := openTestStore(t)

	assert.Equal(t, []string{PrimaryID}, childIDs(t, s, RootID))

	primary, err := s.Node(context.Background(), PrimaryID)
	require.NoError(t, err)
	assert.Equal(t, "Bookmarks", primary.Title)
	assert.True(t, primary.IsFolder())
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "bookmarks.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Create(ctx, PrimaryID, "Example", "https://example.com")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, []string{PrimaryID}, childIDs(t, s, RootID))
	children, err := s.Children(ctx, PrimaryID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Example", children[0].Title)
}

func TestCreateAppendsInOrder(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	a, err := s.Create(ctx, PrimaryID, "A", "https://a.example")
	require.NoError(t, err)
	b, err := s.Create(ctx, PrimaryID, "B", "https://b.example")
	require.NoError(t, err)
	folder, err := s.Create(ctx, PrimaryID, "F", "")
	require.NoError(t, err)

	children, err := s.Children(ctx, PrimaryID)
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, []string{a, b, folder}, []string{children[0].ID, children[1].ID, children[2].ID})
	for i, child := range children {
		assert.Equal(t, i, child.Position)
	}
	assert.True(t, children[2].IsFolder())
	assert.False(t, children[2].ChildrenKnown())
}

func TestCreateRejectsBadParents(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	bm, err := s.Create(ctx, PrimaryID, "A", "https://a.example")
	require.NoError(t, err)

	_, err = s.Create(ctx, "missing", "B", "https://b.example")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Create(ctx, bm, "B", "https://b.example")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestNodeNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Node(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChildrenOfMissingFolder(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Children(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChildrenOfEmptyFolderIsConfirmedEmpty(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	folder, err := s.Create(ctx, PrimaryID, "Empty", "")
	require.NoError(t, err)

	children, err := s.Children(ctx, folder)
	require.NoError(t, err)
	assert.NotNil(t, children)
	assert.Empty(t, children)
}

func TestUpdatePatchesScalars(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.Create(ctx, PrimaryID, "Old", "https://old.example")
	require.NoError(t, err)

	title := "New"
	require.NoError(t, s.Update(ctx, id, domain.Change{Title: &title}))
	n, err := s.Node(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New", n.Title)
	assert.Equal(t, "https://old.example", n.URL)

	url := "https://new.example"
	require.NoError(t, s.Update(ctx, id, domain.Change{URL: &url}))
	n, err = s.Node(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://new.example", n.URL)

	require.NoError(t, s.Update(ctx, id, domain.Change{}))

	assert.ErrorIs(t, s.Update(ctx, "missing", domain.Change{Title: &title}), domain.ErrNotFound)
}

func TestFullTreePopulatesEveryLevel(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	dev, err := s.Create(ctx, PrimaryID, "Dev", "")
	require.NoError(t, err)
	gh, err := s.Create(ctx, dev, "GitHub", "https://github.com")
	require.NoError(t, err)

	root, err := s.FullTree(ctx)
	require.NoError(t, err)
	assert.Equal(t, RootID, root.ID)
	require.Len(t, root.Children, 1)

	primary := root.Children[0]
	assert.Equal(t, PrimaryID, primary.ID)
	require.Len(t, primary.Children, 1)
	devNode := primary.Children[0]
	assert.Equal(t, dev, devNode.ID)
	require.Len(t, devNode.Children, 1)
	assert.Equal(t, gh, devNode.Children[0].ID)
	assert.Nil(t, devNode.Children[0].Children)
}

func TestRemoveDeletesSubtreeAndCompacts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	a, err := s.Create(ctx, PrimaryID, "A", "https://a.example")
	require.NoError(t, err)
	dev, err := s.Create(ctx, PrimaryID, "Dev", "")
	require.NoError(t, err)
	_, err = s.Create(ctx, dev, "GitHub", "https://github.com")
	require.NoError(t, err)
	c, err := s.Create(ctx, PrimaryID, "C", "https://c.example")
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, dev))

	children, err := s.Children(ctx, PrimaryID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, []string{a, c}, []string{children[0].ID, children[1].ID})
	assert.Equal(t, 0, children[0].Position)
	assert.Equal(t, 1, children[1].Position)

	_, err = s.Node(ctx, dev)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, s.Remove(ctx, "missing"), domain.ErrNotFound)
	assert.Error(t, s.Remove(ctx, RootID))
}

func TestRemovedEventCarriesSubtreeSnapshot(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	dev, err := s.Create(ctx, PrimaryID, "Dev", "")
	require.NoError(t, err)
	gh, err := s.Create(ctx, dev, "GitHub", "https://github.com")
	require.NoError(t, err)

	events, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.Remove(ctx, dev))

	ev := readEvent(t, events)
	assert.Equal(t, domain.EventRemoved, ev.Kind)
	assert.Equal(t, dev, ev.ID)
	require.NotNil(t, ev.Node)
	require.Len(t, ev.Node.Children, 1)
	assert.Equal(t, gh, ev.Node.Children[0].ID)
	assert.ElementsMatch(t, []string{dev, gh}, domain.SubtreeIDs(ev.Node))
}

func TestMoveReordersWithinFolder(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	a, _ := s.Create(ctx, PrimaryID, "A", "https://a.example")
	b, _ := s.Create(ctx, PrimaryID, "B", "https://b.example")
	c, _ := s.Create(ctx, PrimaryID, "C", "https://c.example")

	require.NoError(t, s.Move(ctx, c, PrimaryID, 0))
	assert.Equal(t, []string{c, a, b}, childIDs(t, s, PrimaryID))

	// Past-end and negative indices clamp to the end.
	require.NoError(t, s.Move(ctx, c, PrimaryID, 99))
	assert.Equal(t, []string{a, b, c}, childIDs(t, s, PrimaryID))
	require.NoError(t, s.Move(ctx, a, PrimaryID, -1))
	assert.Equal(t, []string{b, c, a}, childIDs(t, s, PrimaryID))

	// Moving to the current position changes nothing.
	require.NoError(t, s.Move(ctx, c, PrimaryID, 1))
	assert.Equal(t, []string{b, c, a}, childIDs(t, s, PrimaryID))
}

func TestMoveAcrossFolders(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	dev, _ := s.Create(ctx, PrimaryID, "Dev", "")
	a, _ := s.Create(ctx, PrimaryID, "A", "https://a.example")
	gh, _ := s.Create(ctx, dev, "GitHub", "https://github.com")

	events, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.Move(ctx, a, dev, 0))

	assert.Equal(t, []string{dev}, childIDs(t, s, PrimaryID))
	assert.Equal(t, []string{a, gh}, childIDs(t, s, dev))

	ev := readEvent(t, events)
	assert.Equal(t, domain.EventMoved, ev.Kind)
	assert.Equal(t, a, ev.ID)
	assert.Equal(t, PrimaryID, ev.Move.OldParentID)
	assert.Equal(t, dev, ev.Move.NewParentID)
	assert.Equal(t, 1, ev.Move.OldIndex)
	assert.Equal(t, 0, ev.Move.NewIndex)
}

func TestMoveRejectsOwnSubtree(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	dev, _ := s.Create(ctx, PrimaryID, "Dev", "")
	sub, _ := s.Create(ctx, dev, "Sub", "")

	assert.Error(t, s.Move(ctx, dev, sub, 0))
	assert.Error(t, s.Move(ctx, dev, dev, 0))

	// Nothing changed.
	assert.Equal(t, []string{sub}, childIDs(t, s, dev))
	assert.Equal(t, []string{dev}, childIDs(t, s, PrimaryID))
}

func TestSearchMatchesTitleAndURL(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	gh, _ := s.Create(ctx, PrimaryID, "GitHub", "https://github.com")
	_, _ = s.Create(ctx, PrimaryID, "Weather", "https://weather.example")
	news, _ := s.Create(ctx, PrimaryID, "News", "https://news.ycombinator.com")

	found, err := s.Search(ctx, "github")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, gh, found[0].ID)

	// Prefixes match.
	found, err = s.Search(ctx, "ycomb")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, news, found[0].ID)

	found, err = s.Search(ctx, "nothing-here")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSearchSurvivesHostileQueries(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Create(ctx, PrimaryID, `He said "hi" (loudly)`, "https://quotes.example")
	require.NoError(t, err)

	for _, query := range []string{`"hi"`, "(loudly)", "AND", "NEAR", "   "} {
		_, err := s.Search(ctx, query)
		assert.NoError(t, err, "query %q", query)
	}
}

func TestStateRoundTrip(t *testing.T) {
	s := openTestStore(t)
	state := s.State()

	_, ok, err := state.Get("lastFolderId")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, state.Set("lastFolderId", "42"))
	value, ok, err := state.Get("lastFolderId")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "42", value)

	require.NoError(t, state.Set("lastFolderId", "43"))
	value, _, err = state.Get("lastFolderId")
	require.NoError(t, err)
	assert.Equal(t, "43", value)
}

func TestFeedDeliversInOrderToEverySubscriber(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first, cancelFirst := s.Subscribe()
	second, cancelSecond := s.Subscribe()
	defer cancelSecond()

	a, err := s.Create(ctx, PrimaryID, "A", "https://a.example")
	require.NoError(t, err)
	b, err := s.Create(ctx, PrimaryID, "B", "https://b.example")
	require.NoError(t, err)

	for _, events := range []<-chan domain.Event{first, second} {
		ev := readEvent(t, events)
		assert.Equal(t, domain.EventCreated, ev.Kind)
		assert.Equal(t, a, ev.ID)
		ev = readEvent(t, events)
		assert.Equal(t, b, ev.ID)
	}

	// A cancelled subscriber's channel closes and receives nothing more.
	cancelFirst()
	_, err = s.Create(ctx, PrimaryID, "C", "https://c.example")
	require.NoError(t, err)
	ev := readEvent(t, second)
	assert.Equal(t, domain.EventCreated, ev.Kind)
	for range first {
	}
}
