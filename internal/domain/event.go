package domain

// EventKind identifies the kind of change a store reported.
type EventKind int

const (
	EventCreated EventKind = iota
	EventChanged
	EventRemoved
	EventMoved
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventChanged:
		return "changed"
	case EventRemoved:
		return "removed"
	case EventMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// Move describes a moved event: where the node was and where it went.
type Move struct {
	OldParentID string
	NewParentID string
	OldIndex    int
	NewIndex    int
}

// Event is one entry of a store's change-notification feed.
//
// The payload depends on Kind:
//   - EventCreated: Node is the freshly created node (Position set).
//   - EventChanged: Change carries the scalar patch.
//   - EventRemoved: Node is a snapshot of the removed subtree, children
//     populated at every depth so consumers can compute the full cascade.
//   - EventMoved: Move carries old/new parent and index.
type Event struct {
	Kind   EventKind
	ID     string
	Node   *Node
	Change Change
	Move   Move
}
