package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"segnalibro/internal/application"
	"segnalibro/internal/ports"
)

// PathResult contains the resolved location of a node
type PathResult struct {
	ID   string
	Path string
}

// PathCommand resolves where a node lives, as the titles from its
// top-level folder down to the node itself joined by " / ". The root
// folder never appears in the path.
type PathCommand struct {
	store  ports.BookmarkStore
	RootID string
	ID     string
}

// NewPathCommand creates a new PathCommand
func NewPathCommand(store ports.BookmarkStore, rootID, id string) *PathCommand {
	return &PathCommand{
		store:  store,
		RootID: rootID,
		ID:     id,
	}
}

// Validate checks if the path operation is valid
func (c *PathCommand) Validate() error {
	return application.ValidateRequired("id", c.ID)
}

// Execute runs the path command
func (c *PathCommand) Execute(ctx context.Context) (*PathResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var titles []string
	cur := c.ID
	for depth := 0; depth < maxAncestorWalk; depth++ {
		if cur == "" || cur == c.RootID {
			break
		}
		n, err := c.store.Node(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path of %s: %w", c.ID, err)
		}
		titles = append(titles, n.Title)
		cur = n.ParentID
	}
	slices.Reverse(titles)

	return &PathResult{
		ID:   c.ID,
		Path: strings.Join(titles, " / "),
	}, nil
}
