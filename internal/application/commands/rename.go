package commands

import (
	"context"
	"fmt"
	"strings"

	"segnalibro/internal/application"
	"segnalibro/internal/domain"
	"segnalibro/internal/ports"
)

// RenameResult contains the result of a rename operation
type RenameResult struct {
	RenamedID string
	NewTitle  string
	Message   string
}

// RenameCommand changes the title of a bookmark or folder
type RenameCommand struct {
	store    ports.BookmarkStore
	ID       string
	NewTitle string
}

// NewRenameCommand creates a new RenameCommand
func NewRenameCommand(store ports.BookmarkStore, id, newTitle string) *RenameCommand {
	return &RenameCommand{
		store:    store,
		ID:       id,
		NewTitle: newTitle,
	}
}

// Validate checks if the rename operation is valid
func (c *RenameCommand) Validate() error {
	if err := application.ValidateRequired("id", c.ID); err != nil {
		return err
	}
	return application.ValidateRequired("title", c.NewTitle)
}

// Execute runs the rename command
func (c *RenameCommand) Execute(ctx context.Context) (*RenameResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	newTitle := strings.TrimSpace(c.NewTitle)
	if err := c.store.Update(ctx, c.ID, domain.Change{Title: &newTitle}); err != nil {
		return nil, fmt.Errorf("failed to rename: %w", err)
	}

	return &RenameResult{
		RenamedID: c.ID,
		NewTitle:  newTitle,
		Message:   fmt.Sprintf("Renamed %s to %s", c.ID, newTitle),
	}, nil
}

// SetURLResult contains the result of changing a bookmark's URL
type SetURLResult struct {
	UpdatedID string
	NewURL    string
	Message   string
}

// SetURLCommand changes the URL of a bookmark
type SetURLCommand struct {
	store ports.BookmarkStore
	ID    string
	URL   string
}

// NewSetURLCommand creates a new SetURLCommand
func NewSetURLCommand(store ports.BookmarkStore, id, url string) *SetURLCommand {
	return &SetURLCommand{
		store: store,
		ID:    id,
		URL:   url,
	}
}

// Validate checks if the URL change is valid
func (c *SetURLCommand) Validate() error {
	if err := application.ValidateRequired("id", c.ID); err != nil {
		return err
	}
	if err := application.ValidateRequired("url", c.URL); err != nil {
		return err
	}
	return application.ValidateURL("url", c.URL)
}

// Execute runs the set URL command
func (c *SetURLCommand) Execute(ctx context.Context) (*SetURLResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.store.Update(ctx, c.ID, domain.Change{URL: &c.URL}); err != nil {
		return nil, fmt.Errorf("failed to change URL: %w", err)
	}

	return &SetURLResult{
		UpdatedID: c.ID,
		NewURL:    c.URL,
		Message:   fmt.Sprintf("Changed URL of %s to %s", c.ID, c.URL),
	}, nil
}
