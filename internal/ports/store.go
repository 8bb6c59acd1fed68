package ports

import (
	"context"

	"segnalibro/internal/domain"
)

// BookmarkStore defines the interface to the hierarchical store that owns
// the bookmark tree. The engine never mutates its own view of the tree in
// response to the write calls below; it converges only through the store's
// notification feed (see Notifier).
type BookmarkStore interface {
	// Children returns the direct children of a folder, one level deep,
	// in sibling order. An empty folder yields an allocated empty slice.
	Children(ctx context.Context, folderID string) ([]*domain.Node, error)

	// Node returns a single node by id, without children.
	// Returns domain.ErrNotFound when the id does not exist.
	Node(ctx context.Context, id string) (*domain.Node, error)

	// FullTree returns the root node with children populated at every
	// depth. Used by the background index build only.
	FullTree(ctx context.Context) (*domain.Node, error)

	// Search returns nodes matching the query. Ordering follows the
	// store's own relevance semantics; the caller imposes no contract.
	Search(ctx context.Context, query string) ([]*domain.Node, error)

	// Create adds a bookmark (url non-empty) or folder (url empty) as the
	// last child of parentID and returns the new id.
	Create(ctx context.Context, parentID, title, url string) (string, error)

	// Update applies a scalar patch to a node.
	Update(ctx context.Context, id string, change domain.Change) error

	// Remove deletes a node and, for folders, its entire subtree.
	Remove(ctx context.Context, id string) error

	// Move reparents and/or reorders a node. newIndex is the target
	// position among the new parent's children after removal from the old
	// position; values past the end clamp to "last".
	Move(ctx context.Context, id, newParentID string, newIndex int) error
}

// Notifier is the optional change-notification feed of a BookmarkStore.
// Stores that cannot push changes simply do not implement it; consumers
// degrade by skipping subscription.
type Notifier interface {
	// Subscribe registers a listener and returns its event channel plus a
	// cancel function. Events arrive in the order the store applied them;
	// the channel is closed after cancel or when the store shuts down.
	Subscribe() (<-chan domain.Event, func())
}
