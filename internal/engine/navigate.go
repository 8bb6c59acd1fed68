package engine

import (
	"context"
	"fmt"

	"segnalibro/internal/domain"
)

// EnterFolder makes id the current folder and loads its children. Entering
// a child of the current folder extends the breadcrumb trail; entering a
// folder from anywhere else, such as a search result, rebuilds the trail
// from the top. Any active search is dismissed first.
func (e *Engine) EnterFolder(ctx context.Context, id string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.clearSearchLocked()
	target := findByID(e.visible, id)
	if target == nil {
		if n, ok := e.idx.Get(id); ok {
			target = n
		}
	}
	e.mu.Unlock()

	if target == nil {
		fetched, err := e.store.Node(ctx, id)
		if err != nil {
			e.setLastErr(err)
			return fmt.Errorf("enter folder %q: %w", id, err)
		}
		e.mu.Lock()
		if e.closed {
			e.mu.Unlock()
			return ErrClosed
		}
		target = e.idx.Upsert(fetched)
		e.mu.Unlock()
	}
	if !target.IsFolder() {
		return fmt.Errorf("enter folder %q: %w", id, ErrNotFolder)
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.current != nil && target.ParentID == e.current.ID {
		e.enterLocked(append(e.crumbs, target), target)
		e.mu.Unlock()
		return e.refreshVisible(ctx, false)
	}
	e.mu.Unlock()

	chain, err := e.ascendChain(ctx, id)
	if err != nil {
		e.setLastErr(err)
		return fmt.Errorf("enter folder %q: %w", id, err)
	}
	if len(chain) == 0 {
		chain = []*domain.Node{target}
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.enterLocked(chain, target)
	e.mu.Unlock()

	return e.refreshVisible(ctx, false)
}

// enterLocked commits a navigation change. Callers hold e.mu.
func (e *Engine) enterLocked(crumbs []*domain.Node, target *domain.Node) {
	e.crumbs = crumbs
	e.current = target
	e.lastErr = nil
	e.persistLastFolderLocked(target.ID)
	e.notifyLocked()
}

// GoBack pops one level off the breadcrumb trail. When the trail runs out
// it settles on the primary folder, so backing out of the top level stays
// there. Any active search is dismissed first.
func (e *Engine) GoBack(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.clearSearchLocked()
	if len(e.crumbs) > 0 {
		e.crumbs = e.crumbs[:len(e.crumbs)-1]
	}
	if len(e.crumbs) == 0 && e.primary != nil {
		e.crumbs = []*domain.Node{e.primary}
	}
	if len(e.crumbs) > 0 {
		e.current = e.crumbs[len(e.crumbs)-1]
	} else {
		e.current = nil
	}
	if e.current != nil {
		e.persistLastFolderLocked(e.current.ID)
	}
	e.notifyLocked()
	e.mu.Unlock()

	return e.refreshVisible(ctx, false)
}

// refreshVisible fills the visible list for the current folder, straight
// from the index when its children are cached and from the store
// otherwise. A fetch that completes after navigation has moved elsewhere
// is discarded. With silent set, failures are logged instead of being
// surfaced; background repairs use that mode.
func (e *Engine) refreshVisible(ctx context.Context, silent bool) error {
	e.mu.Lock()
	folder := e.effectiveFolderLocked()
	if folder == nil {
		e.mu.Unlock()
		return nil
	}
	id := folder.ID
	if folder.ChildrenKnown() {
		cached := e.idx.SetChildren(id, folder.Children)
		e.visible = append([]*domain.Node(nil), cached.Children...)
		if !silent {
			e.lastErr = nil
		}
		e.notifyLocked()
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	children, err := e.store.Children(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if f := e.effectiveFolderLocked(); f == nil || f.ID != id {
		// Navigation moved on while the fetch was in flight.
		return nil
	}
	if err != nil {
		e.visible = []*domain.Node{}
		if silent {
			e.log.Debug("refresh folder", "id", id, "err", err)
			e.notifyLocked()
			return nil
		}
		e.lastErr = err
		e.notifyLocked()
		return fmt.Errorf("load folder %q: %w", id, err)
	}
	cached := e.idx.SetChildren(id, children)
	e.visible = append([]*domain.Node(nil), cached.Children...)
	if !silent {
		e.lastErr = nil
	}
	e.notifyLocked()
	return nil
}

// persistLastFolderLocked records the folder for the next session. Writes
// are fire-and-forget and an empty id is never written, so a slow write
// can at worst leave the previous folder in place. Callers hold e.mu.
func (e *Engine) persistLastFolderLocked(id string) {
	if e.state == nil || id == "" {
		return
	}
	go func() {
		if err := e.state.Set(lastFolderKey, id); err != nil {
			e.log.Debug("persist last folder", "id", id, "err", err)
		}
	}()
}

func (e *Engine) setLastErr(err error) {
	e.mu.Lock()
	if !e.closed {
		e.lastErr = err
		e.notifyLocked()
	}
	e.mu.Unlock()
}
