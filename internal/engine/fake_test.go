package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"segnalibro/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fakeStore is an in-memory BookmarkStore with a change feed. It hands out
// clones, never its own pointers, and records calls so tests can assert on
// fetch counts and dispatched queries.
type fakeStore struct {
	mu     sync.Mutex
	nodes  map[string]*domain.Node
	nextID int
	subs   []chan domain.Event

	nodeCalls     int
	childrenCalls int
	searchCalls   []string

	searchDelay  map[string]time.Duration
	failChildren map[string]error
	failNode     map[string]error
	failSearch   error
	failTree     error
}

func newFakeStore() *fakeStore {
	root := &domain.Node{ID: "0", Title: "", Children: []*domain.Node{}}
	return &fakeStore{
		nodes:        map[string]*domain.Node{"0": root},
		nextID:       1000,
		searchDelay:  map[string]time.Duration{},
		failChildren: map[string]error{},
		failNode:     map[string]error{},
	}
}

// seedStore builds the tree most tests run against:
//
//	0
//	├── 1 "Bookmarks"
//	│   ├── 10 "Dev"
//	│   │   ├── 100 "GitHub"
//	│   │   └── 101 "Go"
//	│   └── 11 "News"
//	└── 2 "Other"
//	    └── 20 "Weather"
func seedStore() *fakeStore {
	fs := newFakeStore()
	fs.addFolder("0", "1", "Bookmarks")
	fs.addFolder("1", "10", "Dev")
	fs.addBookmark("10", "100", "GitHub", "https://github.com")
	fs.addBookmark("10", "101", "Go", "https://go.dev")
	fs.addBookmark("1", "11", "News", "https://news.ycombinator.com")
	fs.addFolder("0", "2", "Other")
	fs.addBookmark("2", "20", "Weather", "https://weather.example")
	return fs
}

func (fs *fakeStore) addFolder(parentID, id, title string) {
	fs.attach(parentID, &domain.Node{ID: id, ParentID: parentID, Title: title, Children: []*domain.Node{}})
}

func (fs *fakeStore) addBookmark(parentID, id, title, url string) {
	fs.attach(parentID, &domain.Node{ID: id, ParentID: parentID, Title: title, URL: url})
}

func (fs *fakeStore) attach(parentID string, n *domain.Node) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	parent := fs.nodes[n.ParentID]
	if parent == nil {
		panic(fmt.Sprintf("attach under unknown parent %q", parentID))
	}
	n.Position = len(parent.Children)
	parent.Children = append(parent.Children, n)
	fs.nodes[n.ID] = n
}

func (fs *fakeStore) Children(ctx context.Context, folderID string) ([]*domain.Node, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.childrenCalls++
	if err := fs.failChildren[folderID]; err != nil {
		return nil, err
	}
	folder, ok := fs.nodes[folderID]
	if !ok || folder.Children == nil {
		return nil, domain.ErrNotFound
	}
	out := make([]*domain.Node, 0, len(folder.Children))
	for _, child := range folder.Children {
		out = append(out, cloneShallow(child))
	}
	return out, nil
}

func (fs *fakeStore) Node(ctx context.Context, id string) (*domain.Node, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.nodeCalls++
	if err := fs.failNode[id]; err != nil {
		return nil, err
	}
	n, ok := fs.nodes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneShallow(n), nil
}

func (fs *fakeStore) FullTree(ctx context.Context) (*domain.Node, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.failTree != nil {
		return nil, fs.failTree
	}
	return cloneDeep(fs.nodes["0"]), nil
}

func (fs *fakeStore) Search(ctx context.Context, query string) ([]*domain.Node, error) {
	fs.mu.Lock()
	fs.searchCalls = append(fs.searchCalls, query)
	delay := fs.searchDelay[query]
	failSearch := fs.failSearch
	fs.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if failSearch != nil {
		return nil, failSearch
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	needle := strings.ToLower(query)
	var out []*domain.Node
	for _, n := range fs.nodes {
		if n.ID == "0" {
			continue
		}
		if strings.Contains(strings.ToLower(n.Title), needle) ||
			strings.Contains(strings.ToLower(n.URL), needle) {
			out = append(out, cloneShallow(n))
		}
	}
	return out, nil
}

func (fs *fakeStore) Create(ctx context.Context, parentID, title, url string) (string, error) {
	fs.mu.Lock()
	parent, ok := fs.nodes[parentID]
	if !ok || parent.Children == nil {
		fs.mu.Unlock()
		return "", domain.ErrNotFound
	}
	fs.nextID++
	n := &domain.Node{
		ID:       fmt.Sprintf("n%d", fs.nextID),
		ParentID: parentID,
		Title:    title,
		URL:      url,
		Position: len(parent.Children),
	}
	if url == "" {
		n.Children = []*domain.Node{}
	}
	parent.Children = append(parent.Children, n)
	fs.nodes[n.ID] = n
	ev := domain.Event{Kind: domain.EventCreated, ID: n.ID, Node: cloneShallow(n)}
	fs.mu.Unlock()

	fs.emit(ev)
	return n.ID, nil
}

func (fs *fakeStore) Update(ctx context.Context, id string, change domain.Change) error {
	fs.mu.Lock()
	n, ok := fs.nodes[id]
	if !ok {
		fs.mu.Unlock()
		return domain.ErrNotFound
	}
	n.Apply(change)
	ev := domain.Event{Kind: domain.EventChanged, ID: id, Change: change}
	fs.mu.Unlock()

	fs.emit(ev)
	return nil
}

func (fs *fakeStore) Remove(ctx context.Context, id string) error {
	fs.mu.Lock()
	n, ok := fs.nodes[id]
	if !ok {
		fs.mu.Unlock()
		return domain.ErrNotFound
	}
	snapshot := cloneDeep(n)
	for _, gone := range domain.SubtreeIDs(n) {
		delete(fs.nodes, gone)
	}
	if parent, ok := fs.nodes[n.ParentID]; ok {
		parent.Children = spliceOut(parent.Children, id)
	}
	ev := domain.Event{Kind: domain.EventRemoved, ID: id, Node: snapshot}
	fs.mu.Unlock()

	fs.emit(ev)
	return nil
}

func (fs *fakeStore) Move(ctx context.Context, id, newParentID string, newIndex int) error {
	fs.mu.Lock()
	n, ok := fs.nodes[id]
	if !ok {
		fs.mu.Unlock()
		return domain.ErrNotFound
	}
	newParent, ok := fs.nodes[newParentID]
	if !ok || newParent.Children == nil {
		fs.mu.Unlock()
		return domain.ErrNotFound
	}
	oldParent := fs.nodes[n.ParentID]
	oldIndex := indexOf(oldParent.Children, id)
	oldParent.Children = spliceOut(oldParent.Children, id)
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(newParent.Children) {
		newIndex = len(newParent.Children)
	}
	newParent.Children = append(newParent.Children, nil)
	copy(newParent.Children[newIndex+1:], newParent.Children[newIndex:])
	newParent.Children[newIndex] = n
	mv := domain.Move{OldParentID: n.ParentID, NewParentID: newParentID, OldIndex: oldIndex, NewIndex: newIndex}
	n.ParentID = newParentID
	for i, child := range oldParent.Children {
		child.Position = i
	}
	for i, child := range newParent.Children {
		child.Position = i
	}
	ev := domain.Event{Kind: domain.EventMoved, ID: id, Move: mv}
	fs.mu.Unlock()

	fs.emit(ev)
	return nil
}

func (fs *fakeStore) Subscribe() (<-chan domain.Event, func()) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	ch := make(chan domain.Event, 256)
	fs.subs = append(fs.subs, ch)
	return ch, func() {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		for i, sub := range fs.subs {
			if sub == ch {
				fs.subs = append(fs.subs[:i], fs.subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
}

// emit delivers an event to every subscriber. Tests also call it directly
// to simulate changes made by another client of the store.
func (fs *fakeStore) emit(ev domain.Event) {
	fs.mu.Lock()
	subs := append([]chan domain.Event(nil), fs.subs...)
	fs.mu.Unlock()
	for _, ch := range subs {
		ch <- ev
	}
}

func (fs *fakeStore) searchCount() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.searchCalls)
}

func (fs *fakeStore) lastSearch() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.searchCalls) == 0 {
		return ""
	}
	return fs.searchCalls[len(fs.searchCalls)-1]
}

func cloneShallow(n *domain.Node) *domain.Node {
	c := *n
	c.Children = nil
	return &c
}

func cloneDeep(n *domain.Node) *domain.Node {
	c := *n
	if n.Children != nil {
		c.Children = make([]*domain.Node, 0, len(n.Children))
		for _, child := range n.Children {
			c.Children = append(c.Children, cloneDeep(child))
		}
	}
	return &c
}

func spliceOut(nodes []*domain.Node, id string) []*domain.Node {
	for i, n := range nodes {
		if n.ID == id {
			return append(nodes[:i], nodes[i+1:]...)
		}
	}
	return nodes
}

func indexOf(nodes []*domain.Node, id string) int {
	for i, n := range nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// fakeState is an in-memory StateStore.
type fakeState struct {
	mu sync.Mutex
	m  map[string]string
}

func newFakeState() *fakeState {
	return &fakeState{m: map[string]string{}}
}

func (s *fakeState) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *fakeState) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *fakeState) get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[key]
}

// waitFor polls cond until it holds or the test deadline expires. Event
// application and debounced dispatch are asynchronous, so assertions on
// their outcome go through here.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

// newTestEngine starts an engine against fs with fast debounce and the
// background build pushed out of the way.
func newTestEngine(t *testing.T, fs *fakeStore, state *fakeState) *Engine {
	t.Helper()
	return newTestEngineWith(t, fs, state, Config{})
}

func newTestEngineWith(t *testing.T, fs *fakeStore, state *fakeState, cfg Config) *Engine {
	t.Helper()
	if cfg.SearchDebounce == 0 {
		cfg.SearchDebounce = 10 * time.Millisecond
	}
	if cfg.IndexBuildDelay == 0 {
		cfg.IndexBuildDelay = time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = discardLogger()
	}
	e := New(fs, state, cfg)
	t.Cleanup(e.Close)
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	return e
}

// visibleIDs projects the visible list to ids for order assertions.
func visibleIDs(e *Engine) []string {
	return entryIDs(e.VisibleItems())
}

func findEntry(t *testing.T, entries []domain.Entry, id string) domain.Entry {
	t.Helper()
	for _, entry := range entries {
		if entry.ID == id {
			return entry
		}
	}
	t.Fatalf("entry %q not found", id)
	return domain.Entry{}
}

func entryIDs(entries []domain.Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	return ids
}
