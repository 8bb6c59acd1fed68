package commands

import (
	"context"
	"fmt"

	"segnalibro/internal/application"
	"segnalibro/internal/domain"
	"segnalibro/internal/ports"
)

// ListResult contains the direct children of a folder
type ListResult struct {
	FolderID string
	Entries  []domain.Entry
}

// ListCommand lists the children of a folder in display order
type ListCommand struct {
	store    ports.BookmarkStore
	FolderID string
}

// NewListCommand creates a new ListCommand
func NewListCommand(store ports.BookmarkStore, folderID string) *ListCommand {
	return &ListCommand{
		store:    store,
		FolderID: folderID,
	}
}

// Validate checks if the list operation is valid
func (c *ListCommand) Validate() error {
	return application.ValidateRequired("folderID", c.FolderID)
}

// Execute runs the list command
func (c *ListCommand) Execute(ctx context.Context) (*ListResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	children, err := c.store.Children(ctx, c.FolderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.FolderID, err)
	}

	entries := make([]domain.Entry, 0, len(children))
	for _, child := range children {
		entries = append(entries, child.Snapshot())
	}
	return &ListResult{
		FolderID: c.FolderID,
		Entries:  entries,
	}, nil
}

// TreeResult contains a fully populated subtree
type TreeResult struct {
	Root *domain.Node
}

// TreeCommand fetches the whole tree, or the subtree below FolderID when
// one is given
type TreeCommand struct {
	store    ports.BookmarkStore
	FolderID string
}

// NewTreeCommand creates a new TreeCommand
func NewTreeCommand(store ports.BookmarkStore, folderID string) *TreeCommand {
	return &TreeCommand{
		store:    store,
		FolderID: folderID,
	}
}

// Execute runs the tree command
func (c *TreeCommand) Execute(ctx context.Context) (*TreeResult, error) {
	root, err := c.store.FullTree(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tree: %w", err)
	}

	if c.FolderID == "" || c.FolderID == root.ID {
		return &TreeResult{Root: root}, nil
	}
	sub := findInTree(root, c.FolderID)
	if sub == nil {
		return nil, fmt.Errorf("failed to load tree: %w", domain.ErrNotFound)
	}
	return &TreeResult{Root: sub}, nil
}

func findInTree(n *domain.Node, id string) *domain.Node {
	if n.ID == id {
		return n
	}
	for _, child := range n.Children {
		if found := findInTree(child, id); found != nil {
			return found
		}
	}
	return nil
}
