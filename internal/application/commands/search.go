package commands

import (
	"context"
	"fmt"

	"segnalibro/internal/application"
	"segnalibro/internal/domain"
	"segnalibro/internal/ports"
)

// SearchResult contains the matches for a query
type SearchResult struct {
	Query   string
	Entries []domain.Entry
	Message string
}

// SearchCommand finds bookmarks and folders matching a query
type SearchCommand struct {
	store ports.BookmarkStore
	Query string
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(store ports.BookmarkStore, query string) *SearchCommand {
	return &SearchCommand{
		store: store,
		Query: query,
	}
}

// Validate checks if the search operation is valid
func (c *SearchCommand) Validate() error {
	return application.ValidateRequired("query", c.Query)
}

// Execute runs the search command
func (c *SearchCommand) Execute(ctx context.Context) (*SearchResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	found, err := c.store.Search(ctx, c.Query)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	entries := make([]domain.Entry, 0, len(found))
	for _, n := range found {
		entries = append(entries, n.Snapshot())
	}
	return &SearchResult{
		Query:   c.Query,
		Entries: entries,
		Message: fmt.Sprintf("Found %d matches for %q", len(entries), c.Query),
	}, nil
}
