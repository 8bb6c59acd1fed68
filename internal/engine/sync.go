package engine

import (
	"slices"

	"segnalibro/internal/domain"
)

// runFeed consumes the store's change feed until it closes. Events are
// applied one at a time on this goroutine, which preserves the store's
// delivery order and keeps each application atomic with respect to the
// engine lock.
func (e *Engine) runFeed(events <-chan domain.Event) {
	for ev := range events {
		e.apply(ev)
	}
	e.log.Debug("change feed closed")
}

// apply folds one event into the index and every active view. The handlers
// never assume the index is complete; an id the index has not met yet
// degrades to a best-effort update instead of failing. The path memo is
// dropped wholesale since any event may retitle or reparent an ancestor.
func (e *Engine) apply(ev domain.Event) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.invalidatePathsLocked()

	repair := false
	switch ev.Kind {
	case domain.EventCreated:
		e.applyCreatedLocked(ev)
	case domain.EventChanged:
		e.applyChangedLocked(ev)
	case domain.EventRemoved:
		repair = e.applyRemovedLocked(ev)
	case domain.EventMoved:
		if !e.applyMovedLocked(ev) {
			e.mu.Unlock()
			e.resolveAndApplyMove(ev)
			return
		}
	default:
		e.log.Warn("unknown event kind", "kind", int(ev.Kind), "id", ev.ID)
	}
	e.notifyLocked()
	e.mu.Unlock()

	if repair {
		// Navigation was pulled out from under the user; reload the
		// fallback folder without surfacing an error.
		if err := e.refreshVisible(e.ctx, true); err != nil {
			e.log.Debug("refresh after removal", "err", err)
		}
	}
}

// applyCreatedLocked inserts the new node. The parent's cached children
// and the visible list are spliced at the event position. A created folder
// starts with a confirmed-empty child list, not children-unknown: it was
// just created, so it has none. Callers hold e.mu.
func (e *Engine) applyCreatedLocked(ev domain.Event) {
	if ev.Node == nil {
		e.log.Warn("created event without node", "id", ev.ID)
		return
	}
	n := e.idx.Upsert(ev.Node)
	if n.IsFolder() && !n.ChildrenKnown() {
		n.Children = []*domain.Node{}
	}
	if parent, ok := e.idx.Get(n.ParentID); ok && parent.ChildrenKnown() {
		parent.Children = insertAt(removeByID(parent.Children, n.ID), n, n.Position)
		renumber(parent.Children)
	}
	if f := e.effectiveFolderLocked(); f != nil && f.ID == n.ParentID {
		e.visible = insertAt(removeByID(e.visible, n.ID), n, n.Position)
	}
}

// applyChangedLocked patches scalar fields in place. The visible list,
// breadcrumb trail and search results all alias the cached node, so one
// patch updates every view at once. An id the index does not know is
// skipped. Callers hold e.mu.
func (e *Engine) applyChangedLocked(ev domain.Event) {
	n, ok := e.idx.Get(ev.ID)
	if !ok {
		return
	}
	n.Apply(ev.Change)
}

// applyRemovedLocked tears down the removed subtree: the id set is the
// union of the event payload's snapshot and whatever descendants the index
// has cached. When an ancestor of the current folder is among the removed,
// navigation falls back to the deepest surviving ancestor, or the primary
// folder, and the caller reloads it. Callers hold e.mu.
func (e *Engine) applyRemovedLocked(ev domain.Event) (repair bool) {
	ids := mergeIDs(domain.SubtreeIDs(ev.Node), e.cachedSubtreeLocked(ev.ID))
	if len(ids) == 0 {
		ids = []string{ev.ID}
	}
	gone := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}

	e.idx.Remove(ids)
	e.visible = filterOut(e.visible, gone)
	if e.results != nil {
		e.results = filterOut(e.results, gone)
	}
	if e.primary != nil {
		if _, lost := gone[e.primary.ID]; lost {
			e.primary = e.pickPrimaryLocked()
		}
	}

	cut := -1
	for i, crumb := range e.crumbs {
		if _, lost := gone[crumb.ID]; lost {
			cut = i
			break
		}
	}
	if cut < 0 {
		return false
	}
	e.clearSearchLocked()
	e.crumbs = e.crumbs[:cut]
	if len(e.crumbs) == 0 && e.primary != nil {
		e.crumbs = []*domain.Node{e.primary}
	}
	if len(e.crumbs) > 0 {
		e.current = e.crumbs[len(e.crumbs)-1]
	} else {
		e.current = nil
	}
	e.visible = nil
	if e.current != nil {
		e.persistLastFolderLocked(e.current.ID)
	}
	return true
}

// applyMovedLocked reseats the node under its new parent and mirrors the
// splice into the visible list. Returns false when the index has never met
// the node, in which case the caller resolves it first. Callers hold e.mu.
func (e *Engine) applyMovedLocked(ev domain.Event) bool {
	mv := ev.Move
	n, ok := e.idx.Get(ev.ID)
	if !ok {
		return false
	}
	n.ParentID = mv.NewParentID
	n.Position = mv.NewIndex
	if old, ok := e.idx.Get(mv.OldParentID); ok && old.ChildrenKnown() && mv.OldParentID != mv.NewParentID {
		old.Children = removeByID(old.Children, n.ID)
		renumber(old.Children)
	}
	if next, ok := e.idx.Get(mv.NewParentID); ok && next.ChildrenKnown() {
		next.Children = insertAt(removeByID(next.Children, n.ID), n, mv.NewIndex)
		renumber(next.Children)
	}
	if f := e.effectiveFolderLocked(); f != nil {
		switch f.ID {
		case mv.NewParentID:
			e.visible = insertAt(removeByID(e.visible, n.ID), n, mv.NewIndex)
		case mv.OldParentID:
			e.visible = removeByID(e.visible, n.ID)
		}
	}
	return true
}

// resolveAndApplyMove handles a move of a node the index has not cached:
// it fetches the node, then replays the move. When even the fetch fails
// the move degrades to dropping the id from the old parent and forgetting
// the new parent's children so the next visit refetches them.
func (e *Engine) resolveAndApplyMove(ev domain.Event) {
	fetched, err := e.store.Node(e.ctx, ev.ID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if err == nil {
		e.idx.Upsert(fetched)
		e.applyMovedLocked(ev)
		e.notifyLocked()
		return
	}
	e.log.Debug("resolve moved node", "id", ev.ID, "err", err)
	mv := ev.Move
	if old, ok := e.idx.Get(mv.OldParentID); ok && old.ChildrenKnown() {
		old.Children = removeByID(old.Children, ev.ID)
		renumber(old.Children)
	}
	if next, ok := e.idx.Get(mv.NewParentID); ok && next.ChildrenKnown() {
		next.Children = nil
	}
	e.visible = removeByID(e.visible, ev.ID)
	e.notifyLocked()
}

// cachedSubtreeLocked lists id plus every descendant reachable through
// cached children. Callers hold e.mu.
func (e *Engine) cachedSubtreeLocked(id string) []string {
	n, ok := e.idx.Get(id)
	if !ok {
		return []string{id}
	}
	return domain.SubtreeIDs(n)
}

// mergeIDs unions two id lists, dropping duplicates and preserving
// first-seen order.
func mergeIDs(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	merged := make([]string, 0, len(a)+len(b))
	for _, ids := range [][]string{a, b} {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	return merged
}

func findByID(nodes []*domain.Node, id string) *domain.Node {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func removeByID(nodes []*domain.Node, id string) []*domain.Node {
	for i, n := range nodes {
		if n.ID == id {
			return slices.Delete(nodes, i, i+1)
		}
	}
	return nodes
}

// insertAt splices n into nodes at position at, clamped to the valid
// range.
func insertAt(nodes []*domain.Node, n *domain.Node, at int) []*domain.Node {
	if at < 0 {
		at = 0
	}
	if at > len(nodes) {
		at = len(nodes)
	}
	return slices.Insert(nodes, at, n)
}

func filterOut(nodes []*domain.Node, gone map[string]struct{}) []*domain.Node {
	if nodes == nil {
		return nil
	}
	kept := nodes[:0]
	for _, n := range nodes {
		if _, lost := gone[n.ID]; !lost {
			kept = append(kept, n)
		}
	}
	return kept
}

// renumber re-derives sibling positions after a splice.
func renumber(nodes []*domain.Node) {
	for i, n := range nodes {
		n.Position = i
	}
}
