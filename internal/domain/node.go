package domain

import (
	"errors"
	"slices"
	"time"
)

// ErrNotFound is returned by stores and lookups when no node has the given id.
var ErrNotFound = errors.New("node not found")

// Node represents one entry in the bookmark tree: a folder or a bookmark.
type Node struct {
	ID        string
	ParentID  string // empty at the root
	Title     string
	URL       string // empty iff this node is a folder
	Position  int    // sibling order index
	DateAdded time.Time

	// Children holds the folder's direct children in sibling order.
	// nil means "not fetched yet"; an allocated empty slice means the
	// folder is known to be empty. The two must never be conflated.
	Children []*Node
}

// IsFolder reports whether the node is a folder (no URL).
func (n *Node) IsFolder() bool {
	return n.URL == ""
}

// ChildrenKnown reports whether this folder's direct children have been
// fetched at least once.
func (n *Node) ChildrenKnown() bool {
	return n.Children != nil
}

// Apply patches the node's scalar fields in place. Only fields present in
// the change are touched, so "url absent" and "url cleared" stay distinct.
func (n *Node) Apply(c Change) {
	if c.Title != nil {
		n.Title = *c.Title
	}
	if c.URL != nil {
		n.URL = *c.URL
	}
}

// Snapshot returns a flat, immutable view of the node for rendering.
func (n *Node) Snapshot() Entry {
	count := -1
	if n.Children != nil {
		count = len(n.Children)
	}
	return Entry{
		ID:         n.ID,
		ParentID:   n.ParentID,
		Title:      n.Title,
		URL:        n.URL,
		IsFolder:   n.IsFolder(),
		Position:   n.Position,
		ChildCount: count,
	}
}

// Entry is a read-only projection of a Node handed to presentation code.
// ChildCount is -1 when the folder's children have not been cached.
type Entry struct {
	ID         string
	ParentID   string
	Title      string
	URL        string
	IsFolder   bool
	Position   int
	ChildCount int
}

// Change is a partial update to a node's scalar fields. Nil pointers mean
// "leave unchanged".
type Change struct {
	Title *string
	URL   *string
}

// Empty reports whether the change would touch nothing.
func (c Change) Empty() bool {
	return c.Title == nil && c.URL == nil
}

// SortSiblings orders nodes by position, breaking ties by date added and id
// so the order is stable across stores that reuse positions.
func SortSiblings(nodes []*Node) {
	slices.SortStableFunc(nodes, func(a, b *Node) int {
		if a.Position != b.Position {
			return a.Position - b.Position
		}
		if !a.DateAdded.Equal(b.DateAdded) {
			if a.DateAdded.Before(b.DateAdded) {
				return -1
			}
			return 1
		}
		return compareIDs(a.ID, b.ID)
	})
}

func compareIDs(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SubtreeIDs collects the ids of the node and every descendant reachable
// through cached children. Used to compute removal cascades.
func SubtreeIDs(n *Node) []string {
	if n == nil {
		return nil
	}
	ids := []string{n.ID}
	for _, child := range n.Children {
		ids = append(ids, SubtreeIDs(child)...)
	}
	return ids
}
