package engine

import (
	"segnalibro/internal/domain"
)

// Index is the engine's id→node cache. It starts partial (only nodes touched
// by navigation and search) and may be promoted to complete once the
// background build has ingested the full tree. All operations are
// synchronous and perform no I/O; the engine's lock guards concurrent use.
type Index struct {
	nodes    map[string]*domain.Node
	complete bool
}

// NewIndex returns an empty, partial index.
func NewIndex() *Index {
	return &Index{nodes: make(map[string]*domain.Node)}
}

// Get returns the cached node for id, if any.
func (ix *Index) Get(id string) (*domain.Node, bool) {
	n, ok := ix.nodes[id]
	return n, ok
}

// Len returns the number of cached nodes.
func (ix *Index) Len() int {
	return len(ix.nodes)
}

// Complete reports whether the whole tree has been ingested.
func (ix *Index) Complete() bool {
	return ix.complete
}

// MarkComplete promotes the index to complete. The transition is one-way.
func (ix *Index) MarkComplete() {
	ix.complete = true
}

// Upsert merges n into the index and returns the cached node, which keeps
// its identity across upserts so views holding the pointer stay current.
//
// Merge rule: scalar fields overwrite the cached values; Children is
// replaced only when the incoming slice is non-nil, so a shallow fetch can
// never erase a deeper cached subtree. A zero DateAdded is treated as
// "field absent" rather than overwriting a known timestamp.
func (ix *Index) Upsert(n *domain.Node) *domain.Node {
	existing, ok := ix.nodes[n.ID]
	if !ok {
		ix.nodes[n.ID] = n
		return n
	}
	existing.ParentID = n.ParentID
	existing.Title = n.Title
	existing.URL = n.URL
	existing.Position = n.Position
	if !n.DateAdded.IsZero() {
		existing.DateAdded = n.DateAdded
	}
	if n.Children != nil {
		existing.Children = n.Children
	}
	return existing
}

// SetChildren records the fetched direct children of a folder, upserting
// each child and the folder itself. Passing an empty (non-nil) slice marks
// the folder as confirmed empty. Returns the cached folder node.
func (ix *Index) SetChildren(folderID string, children []*domain.Node) *domain.Node {
	merged := make([]*domain.Node, 0, len(children))
	for _, child := range children {
		merged = append(merged, ix.Upsert(child))
	}
	folder, ok := ix.nodes[folderID]
	if !ok {
		// The store just answered for this folder, so it exists even if
		// no fetch has described it yet.
		folder = &domain.Node{ID: folderID}
		ix.nodes[folderID] = folder
	}
	folder.Children = merged
	return folder
}

// Remove deletes the given ids and drops dangling references to them from
// every surviving folder's cached children. Used for subtree teardown.
func (ix *Index) Remove(ids []string) {
	if len(ids) == 0 {
		return
	}
	removed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		removed[id] = struct{}{}
		delete(ix.nodes, id)
	}
	for _, n := range ix.nodes {
		if n.Children == nil {
			continue
		}
		kept := n.Children[:0]
		changed := false
		for _, child := range n.Children {
			if _, gone := removed[child.ID]; gone {
				changed = true
				continue
			}
			kept = append(kept, child)
		}
		if changed {
			n.Children = kept
		}
	}
}
