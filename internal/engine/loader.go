package engine

import (
	"context"
	"fmt"
	"time"

	"segnalibro/internal/domain"
	"segnalibro/internal/ports"
)

// Start performs the quick start: it subscribes to the store's change feed
// when one is offered, loads the root's children, selects the primary
// folder, restores the last visited folder from the state store and fills
// the visible list. It also schedules the background full-tree build.
// Start is a no-op when called twice.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.started {
		e.mu.Unlock()
		return nil
	}
	e.started = true
	e.mu.Unlock()

	// Events that race the initial load are absorbed by the merge rule,
	// so subscribing before the first fetch loses nothing and misses
	// nothing.
	if notifier, ok := e.store.(ports.Notifier); ok {
		events, cancel := notifier.Subscribe()
		e.mu.Lock()
		e.unsubscribe = cancel
		e.mu.Unlock()
		go e.runFeed(events)
	} else {
		e.log.Debug("store offers no change feed, engine will not self-update")
	}

	roots, err := e.store.Children(ctx, e.cfg.RootID)
	if err != nil {
		e.mu.Lock()
		e.loading = false
		e.lastErr = err
		e.notifyLocked()
		e.mu.Unlock()
		return fmt.Errorf("load root folders: %w", err)
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.idx.SetChildren(e.cfg.RootID, roots)
	primary := e.pickPrimaryLocked()
	if primary == nil {
		e.loading = false
		e.lastErr = ErrEmptyRoot
		e.notifyLocked()
		e.mu.Unlock()
		return ErrEmptyRoot
	}
	e.primary = primary
	e.current = primary
	e.crumbs = []*domain.Node{primary}
	e.loading = false
	e.scheduleIndexBuildLocked()
	e.notifyLocked()
	e.mu.Unlock()

	e.restoreLastFolder(ctx)
	return e.refreshVisible(ctx, false)
}

// pickPrimaryLocked chooses the folder navigation lands in on a fresh
// start: the root child with the configured primary id, else the first
// folder child, else the first child. Callers hold e.mu.
func (e *Engine) pickPrimaryLocked() *domain.Node {
	root, ok := e.idx.Get(e.cfg.RootID)
	if !ok || len(root.Children) == 0 {
		return nil
	}
	for _, child := range root.Children {
		if child.ID == e.cfg.PrimaryID {
			return child
		}
	}
	for _, child := range root.Children {
		if child.IsFolder() {
			return child
		}
	}
	return root.Children[0]
}

// restoreLastFolder moves navigation to the folder recorded by a previous
// session, when there is one and it still resolves to a folder. Failures
// leave navigation at the primary folder; a vanished folder is not an
// error.
func (e *Engine) restoreLastFolder(ctx context.Context) {
	if e.state == nil {
		return
	}
	id, ok, err := e.state.Get(lastFolderKey)
	if err != nil {
		e.log.Debug("read last folder", "err", err)
		return
	}
	if !ok || id == "" || id == e.cfg.RootID {
		return
	}
	e.mu.Lock()
	primaryID := ""
	if e.primary != nil {
		primaryID = e.primary.ID
	}
	e.mu.Unlock()
	if id == primaryID {
		return
	}

	chain, err := e.ascendChain(ctx, id)
	if err != nil {
		e.log.Debug("restore last folder", "id", id, "err", err)
		return
	}
	if len(chain) == 0 || !chain[len(chain)-1].IsFolder() {
		return
	}
	e.mu.Lock()
	if !e.closed {
		e.crumbs = chain
		e.current = chain[len(chain)-1]
		e.notifyLocked()
	}
	e.mu.Unlock()
}

// scheduleIndexBuildLocked arms the delayed background build. Callers hold
// e.mu.
func (e *Engine) scheduleIndexBuildLocked() {
	e.buildTimer = time.AfterFunc(e.cfg.IndexBuildDelay, e.buildIndex)
}

// buildIndex fetches the entire tree and ingests it, promoting the index
// to complete. It runs at most once; a failure is logged and the engine
// keeps working from the partial index.
func (e *Engine) buildIndex() {
	e.mu.Lock()
	if e.closed || e.indexBuilt || e.indexBuilding {
		e.mu.Unlock()
		return
	}
	e.indexBuilding = true
	e.mu.Unlock()

	started := time.Now()
	root, err := e.store.FullTree(e.ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.indexBuilding = false
	if e.closed {
		return
	}
	if err != nil {
		e.log.Warn("background index build failed", "err", err)
		return
	}
	e.ingestLocked(root)
	e.idx.MarkComplete()
	e.indexBuilt = true
	e.log.Debug("index built",
		"nodes", e.idx.Len(),
		"took", time.Since(started))
	e.notifyLocked()
}

// ingestLocked merges a fully populated subtree into the index, level by
// level so every parent ends up pointing at cached children. Callers hold
// e.mu.
func (e *Engine) ingestLocked(n *domain.Node) {
	if n == nil {
		return
	}
	if n.Children == nil {
		e.idx.Upsert(n)
		return
	}
	children := n.Children
	e.idx.SetChildren(n.ID, children)
	for _, child := range children {
		e.ingestLocked(child)
	}
}
