package commands

import (
	"context"
	"fmt"

	"segnalibro/internal/application"
	"segnalibro/internal/ports"
)

// CreateBookmarkResult contains the result of creating a bookmark
type CreateBookmarkResult struct {
	ID      string
	Message string
}

// CreateBookmarkCommand creates a bookmark inside a folder
type CreateBookmarkCommand struct {
	store    ports.BookmarkStore
	ParentID string
	Title    string
	URL      string
}

// NewCreateBookmarkCommand creates a new CreateBookmarkCommand
func NewCreateBookmarkCommand(store ports.BookmarkStore, parentID, title, url string) *CreateBookmarkCommand {
	return &CreateBookmarkCommand{
		store:    store,
		ParentID: parentID,
		Title:    title,
		URL:      url,
	}
}

// Validate checks if the create operation is valid
func (c *CreateBookmarkCommand) Validate() error {
	if err := application.ValidateRequired("parentID", c.ParentID); err != nil {
		return err
	}
	if err := application.ValidateRequired("title", c.Title); err != nil {
		return err
	}
	if err := application.ValidateRequired("url", c.URL); err != nil {
		return err
	}
	return application.ValidateURL("url", c.URL)
}

// Execute runs the create bookmark command
func (c *CreateBookmarkCommand) Execute(ctx context.Context) (*CreateBookmarkResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	id, err := c.store.Create(ctx, c.ParentID, c.Title, c.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create bookmark: %w", err)
	}

	return &CreateBookmarkResult{
		ID:      id,
		Message: fmt.Sprintf("Created bookmark %s: %s", id, c.Title),
	}, nil
}

// CreateFolderResult contains the result of creating a folder
type CreateFolderResult struct {
	ID      string
	Message string
}

// CreateFolderCommand creates an empty folder inside another folder
type CreateFolderCommand struct {
	store    ports.BookmarkStore
	ParentID string
	Title    string
}

// NewCreateFolderCommand creates a new CreateFolderCommand
func NewCreateFolderCommand(store ports.BookmarkStore, parentID, title string) *CreateFolderCommand {
	return &CreateFolderCommand{
		store:    store,
		ParentID: parentID,
		Title:    title,
	}
}

// Validate checks if the create operation is valid
func (c *CreateFolderCommand) Validate() error {
	if err := application.ValidateRequired("parentID", c.ParentID); err != nil {
		return err
	}
	return application.ValidateRequired("title", c.Title)
}

// Execute runs the create folder command
func (c *CreateFolderCommand) Execute(ctx context.Context) (*CreateFolderResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	id, err := c.store.Create(ctx, c.ParentID, c.Title, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return &CreateFolderResult{
		ID:      id,
		Message: fmt.Sprintf("Created folder %s: %s", id, c.Title),
	}, nil
}
