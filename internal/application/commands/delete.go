package commands

import (
	"context"
	"fmt"

	"segnalibro/internal/application"
	"segnalibro/internal/ports"
)

// DeleteResult contains the result of a delete operation
type DeleteResult struct {
	DeletedID string
	Message   string
}

// DeleteCommand deletes a bookmark, or a folder together with everything
// beneath it
type DeleteCommand struct {
	store ports.BookmarkStore
	ID    string
}

// NewDeleteCommand creates a new DeleteCommand
func NewDeleteCommand(store ports.BookmarkStore, id string) *DeleteCommand {
	return &DeleteCommand{
		store: store,
		ID:    id,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteCommand) Validate() error {
	return application.ValidateRequired("id", c.ID)
}

// Execute runs the delete command
func (c *DeleteCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.store.Remove(ctx, c.ID); err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", c.ID, err)
	}

	return &DeleteResult{
		DeletedID: c.ID,
		Message:   fmt.Sprintf("Deleted %s", c.ID),
	}, nil
}
