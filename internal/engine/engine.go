// Package engine maintains a client-side materialized view of a bookmark
// tree owned by a backing store. It loads lazily in two phases, serves
// navigation and debounced search from an in-memory index, and converges
// the index with the store by applying change events in delivery order.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"segnalibro/internal/domain"
	"segnalibro/internal/ports"
)

var (
	// ErrClosed is returned by operations invoked after Close.
	ErrClosed = errors.New("engine closed")
	// ErrNotFolder is returned when a navigation target is a bookmark.
	ErrNotFolder = errors.New("not a folder")
	// ErrEmptyRoot is returned by Start when the store has no top-level nodes.
	ErrEmptyRoot = errors.New("no folders under the root")
)

// lastFolderKey is the state-store key holding the last visited folder id.
const lastFolderKey = "lastFolderId"

// Config tunes an Engine. The zero value is usable; unset fields take the
// defaults below.
type Config struct {
	// RootID is the id of the synthetic root folder. Default "0".
	RootID string
	// PrimaryID is the id of the preferred top-level folder. Default "1".
	// When no top-level folder carries this id the first folder child of
	// the root is used instead, falling back to the first child.
	PrimaryID string
	// SearchDebounce is how long a query must rest before it is sent to
	// the store. Default 250ms.
	SearchDebounce time.Duration
	// IndexBuildDelay postpones the background full-tree build so it does
	// not compete with interactive startup. Default 3s.
	IndexBuildDelay time.Duration
	// Logger receives engine diagnostics. Default slog.Default().
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.RootID == "" {
		c.RootID = "0"
	}
	if c.PrimaryID == "" {
		c.PrimaryID = "1"
	}
	if c.SearchDebounce <= 0 {
		c.SearchDebounce = 250 * time.Millisecond
	}
	if c.IndexBuildDelay <= 0 {
		c.IndexBuildDelay = 3 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Engine is the synchronization core. All exported methods are safe for
// concurrent use. Accessors return value snapshots, never internal
// pointers, so callers may retain them across events.
type Engine struct {
	store ports.BookmarkStore
	state ports.StateStore
	cfg   Config
	log   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	updates chan struct{}

	mu      sync.Mutex
	closed  bool
	started bool
	loading bool

	idx     *Index
	primary *domain.Node

	current *domain.Node
	crumbs  []*domain.Node
	visible []*domain.Node
	lastErr error

	query        string
	searchActive bool
	results      []*domain.Node
	seq          uint64
	debounce     *time.Timer

	buildTimer    *time.Timer
	indexBuilt    bool
	indexBuilding bool

	pathMemo map[string]string

	unsubscribe func()
}

// New wires an engine to its store. state may be nil, in which case the
// last visited folder is not persisted or restored. Call Start to load.
func New(store ports.BookmarkStore, state ports.StateStore, cfg Config) *Engine {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		store:   store,
		state:   state,
		cfg:     cfg,
		log:     cfg.Logger,
		ctx:     ctx,
		cancel:  cancel,
		updates: make(chan struct{}, 1),
		loading: true,
		idx:     NewIndex(),
	}
}

// Updates returns a channel that receives a signal whenever the engine's
// observable state changes. Signals are coalesced; after draining one the
// caller should re-read every accessor it renders from.
func (e *Engine) Updates() <-chan struct{} {
	return e.updates
}

// notifyLocked wakes Updates listeners. Callers hold e.mu.
func (e *Engine) notifyLocked() {
	select {
	case e.updates <- struct{}{}:
	default:
	}
}

// Close stops timers, detaches from the change feed and cancels background
// work. It is idempotent and safe to call concurrently with anything.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	if e.debounce != nil {
		e.debounce.Stop()
	}
	if e.buildTimer != nil {
		e.buildTimer.Stop()
	}
	unsubscribe := e.unsubscribe
	e.mu.Unlock()

	e.cancel()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Loading reports whether the initial quick start is still in flight.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// IndexComplete reports whether the background build has ingested the
// whole tree.
func (e *Engine) IndexComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.idx.Complete()
}

// LastError returns the most recent user-facing failure, or nil. It is
// cleared by the next operation that succeeds.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// CurrentFolder returns the folder navigation currently points at. ok is
// false before Start has finished selecting one.
func (e *Engine) CurrentFolder() (domain.Entry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f := e.effectiveFolderLocked()
	if f == nil {
		return domain.Entry{}, false
	}
	return f.Snapshot(), true
}

// VisibleItems returns the children of the current folder, in order.
func (e *Engine) VisibleItems() []domain.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshotAll(e.visible)
}

// Breadcrumb returns the ancestor trail from the top-level folder down to
// the current folder, inclusive. The root is never part of it.
func (e *Engine) Breadcrumb() []domain.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshotAll(e.crumbs)
}

// Searching reports whether a search is active, meaning a non-empty query
// has been typed and results (possibly still empty or in flight) own the
// list view.
func (e *Engine) Searching() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searchActive
}

// Query returns the current search input.
func (e *Engine) Query() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.query
}

// SearchResults returns the results of the last completed search. Folder
// entries carry child counts when the index already knows their children.
func (e *Engine) SearchResults() []domain.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshotAll(e.results)
}

// effectiveFolderLocked resolves the folder navigation points at: the
// explicit current folder, else the primary folder. Callers hold e.mu.
func (e *Engine) effectiveFolderLocked() *domain.Node {
	if e.current != nil {
		return e.current
	}
	return e.primary
}

func snapshotAll(nodes []*domain.Node) []domain.Entry {
	if nodes == nil {
		return nil
	}
	entries := make([]domain.Entry, 0, len(nodes))
	for _, n := range nodes {
		entries = append(entries, n.Snapshot())
	}
	return entries
}

// CreateBookmark adds a bookmark under parentID and returns its id. The
// engine's own view converges through the change feed, not through the
// return value.
func (e *Engine) CreateBookmark(ctx context.Context, parentID, title, url string) (string, error) {
	return e.store.Create(ctx, parentID, title, url)
}

// CreateFolder adds an empty folder under parentID and returns its id.
func (e *Engine) CreateFolder(ctx context.Context, parentID, title string) (string, error) {
	return e.store.Create(ctx, parentID, title, "")
}

// Rename changes a node's title.
func (e *Engine) Rename(ctx context.Context, id, title string) error {
	return e.store.Update(ctx, id, domain.Change{Title: &title})
}

// SetURL changes a bookmark's URL.
func (e *Engine) SetURL(ctx context.Context, id, url string) error {
	return e.store.Update(ctx, id, domain.Change{URL: &url})
}

// Remove deletes a node and, for folders, everything beneath it.
func (e *Engine) Remove(ctx context.Context, id string) error {
	return e.store.Remove(ctx, id)
}

// Move reparents or reorders a node. newIndex addresses the target
// position among the new parent's children after the node is taken out.
func (e *Engine) Move(ctx context.Context, id, newParentID string, newIndex int) error {
	return e.store.Move(ctx, id, newParentID, newIndex)
}
