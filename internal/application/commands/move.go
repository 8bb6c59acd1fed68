package commands

import (
	"context"
	"fmt"

	"segnalibro/internal/application"
	"segnalibro/internal/ports"
)

// maxAncestorWalk bounds the parent-chain walk used by the cycle check.
const maxAncestorWalk = 64

// MoveResult contains the result of a move operation
type MoveResult struct {
	MovedID     string
	NewParentID string
	Message     string
}

// MoveCommand moves a node into another folder, or reorders it inside the
// one it is in. Index addresses the position among the destination's
// children after the node is taken out; negative means append.
type MoveCommand struct {
	store         ports.BookmarkStore
	ID            string
	DestinationID string
	Index         int
}

// NewMoveCommand creates a new MoveCommand
func NewMoveCommand(store ports.BookmarkStore, id, destinationID string, index int) *MoveCommand {
	return &MoveCommand{
		store:         store,
		ID:            id,
		DestinationID: destinationID,
		Index:         index,
	}
}

// Validate checks if the move operation is valid
func (c *MoveCommand) Validate() error {
	if err := application.ValidateRequired("sourceID", c.ID); err != nil {
		return err
	}
	if err := application.ValidateRequired("destinationID", c.DestinationID); err != nil {
		return err
	}
	if c.ID == c.DestinationID {
		return &application.MoveError{
			SourceID: c.ID,
			DestID:   c.DestinationID,
			Reason:   "cannot move a folder into itself",
		}
	}
	return nil
}

// Execute runs the move command. Moving a folder into its own subtree is
// rejected before the store is touched.
func (c *MoveCommand) Execute(ctx context.Context) (*MoveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	inside, err := isWithinSubtree(ctx, c.store, c.ID, c.DestinationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check destination: %w", err)
	}
	if inside {
		return nil, &application.MoveError{
			SourceID: c.ID,
			DestID:   c.DestinationID,
			Reason:   "destination is inside the moved folder",
		}
	}

	if err := c.store.Move(ctx, c.ID, c.DestinationID, c.Index); err != nil {
		return nil, fmt.Errorf("failed to move %s: %w", c.ID, err)
	}

	return &MoveResult{
		MovedID:     c.ID,
		NewParentID: c.DestinationID,
		Message:     fmt.Sprintf("Moved %s to %s", c.ID, c.DestinationID),
	}, nil
}

// isWithinSubtree reports whether nodeID sits below rootID, walking parent
// links through the store. The walk is depth-bounded, so a corrupt chain
// ends it rather than looping.
func isWithinSubtree(ctx context.Context, store ports.BookmarkStore, rootID, nodeID string) (bool, error) {
	cur := nodeID
	for depth := 0; depth < maxAncestorWalk; depth++ {
		if cur == "" {
			return false, nil
		}
		if cur == rootID {
			return true, nil
		}
		n, err := store.Node(ctx, cur)
		if err != nil {
			return false, err
		}
		cur = n.ParentID
	}
	return false, nil
}
