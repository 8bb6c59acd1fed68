package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"segnalibro/internal/domain"
)

// Create appends a node as the last child of parentID and returns its id.
// An empty url makes it a folder. The created event is emitted after the
// transaction commits.
func (s *Store) Create(ctx context.Context, parentID, title, url string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create: %w", err)
	}
	defer tx.Rollback()

	if err := folderExists(ctx, tx, parentID); err != nil {
		return "", err
	}
	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes WHERE parent_id = ?`, parentID).Scan(&count); err != nil {
		return "", fmt.Errorf("failed to create: %w", err)
	}

	id := uuid.NewString()
	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO nodes (id, parent_id, title, url, position, date_added)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, parentID, title, url, count, now.UnixMilli())
	if err != nil {
		return "", fmt.Errorf("failed to create: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to create: %w", err)
	}

	s.feed.emit(domain.Event{
		Kind: domain.EventCreated,
		ID:   id,
		Node: &domain.Node{
			ID:        id,
			ParentID:  parentID,
			Title:     title,
			URL:       url,
			Position:  count,
			DateAdded: now,
		},
	})
	return id, nil
}

// Update patches a node's scalar fields. An empty change is a no-op.
func (s *Store) Update(ctx context.Context, id string, change domain.Change) error {
	if change.Empty() {
		return nil
	}

	set := ""
	args := []any{}
	if change.Title != nil {
		set = "title = ?"
		args = append(args, *change.Title)
	}
	if change.URL != nil {
		if set != "" {
			set += ", "
		}
		set += "url = ?"
		args = append(args, *change.URL)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, `UPDATE nodes SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.feed.emit(domain.Event{Kind: domain.EventChanged, ID: id, Change: change})
	return nil
}

// Remove deletes a node and, for folders, the whole subtree beneath it.
// The removed event carries a snapshot of everything that was deleted.
func (s *Store) Remove(ctx context.Context, id string) error {
	if id == RootID {
		return fmt.Errorf("cannot remove the root folder")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", id, err)
	}
	defer tx.Rollback()

	snapshot, err := subtreeSnapshot(ctx, tx, id)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		WITH RECURSIVE subtree(id) AS (
			SELECT id FROM nodes WHERE id = ?
			UNION ALL
			SELECT n.id FROM nodes n JOIN subtree s ON n.parent_id = s.id
		)
		DELETE FROM nodes WHERE id IN (SELECT id FROM subtree)
	`, id)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", id, err)
	}
	// Close the gap among the former siblings.
	_, err = tx.ExecContext(ctx, `
		UPDATE nodes SET position = position - 1 WHERE parent_id = ? AND position > ?
	`, snapshot.ParentID, snapshot.Position)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to remove %s: %w", id, err)
	}

	s.feed.emit(domain.Event{Kind: domain.EventRemoved, ID: id, Node: snapshot})
	return nil
}

// Move reparents or reorders a node. newIndex addresses the position among
// the destination's children after the node is taken out; negative or
// past-end indices clamp to the end. Moving a folder into its own subtree
// fails without touching anything.
func (s *Store) Move(ctx context.Context, id, newParentID string, newIndex int) error {
	if id == RootID {
		return fmt.Errorf("cannot move the root folder")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to move %s: %w", id, err)
	}
	defer tx.Rollback()

	var oldParentID string
	var oldPos int
	err = tx.QueryRowContext(ctx, `SELECT parent_id, position FROM nodes WHERE id = ?`, id).Scan(&oldParentID, &oldPos)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to move %s: %w", id, err)
	}
	if err := folderExists(ctx, tx, newParentID); err != nil {
		return err
	}

	// The destination must not sit inside the moved subtree.
	var inSubtree int
	err = tx.QueryRowContext(ctx, `
		WITH RECURSIVE anc(id) AS (
			SELECT id FROM nodes WHERE id = ?
			UNION ALL
			SELECT n.parent_id FROM nodes n JOIN anc a ON n.id = a.id
		)
		SELECT COUNT(*) FROM anc WHERE id = ?
	`, newParentID, id).Scan(&inSubtree)
	if err != nil {
		return fmt.Errorf("failed to move %s: %w", id, err)
	}
	if inSubtree > 0 {
		return fmt.Errorf("cannot move %s into its own subtree", id)
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes WHERE parent_id = ?`, newParentID).Scan(&count); err != nil {
		return fmt.Errorf("failed to move %s: %w", id, err)
	}
	// Positions are computed as if the node were already taken out.
	if oldParentID == newParentID {
		count--
	}
	idx := newIndex
	if idx < 0 || idx > count {
		idx = count
	}

	// Close the gap at the source, open one at the destination, then
	// drop the node in. The moved node itself is excluded from both
	// shifts.
	_, err = tx.ExecContext(ctx, `
		UPDATE nodes SET position = position - 1
		WHERE parent_id = ? AND position > ? AND id != ?
	`, oldParentID, oldPos, id)
	if err != nil {
		return fmt.Errorf("failed to move %s: %w", id, err)
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE nodes SET position = position + 1
		WHERE parent_id = ? AND position >= ? AND id != ?
	`, newParentID, idx, id)
	if err != nil {
		return fmt.Errorf("failed to move %s: %w", id, err)
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE nodes SET parent_id = ?, position = ? WHERE id = ?
	`, newParentID, idx, id)
	if err != nil {
		return fmt.Errorf("failed to move %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to move %s: %w", id, err)
	}

	s.feed.emit(domain.Event{
		Kind: domain.EventMoved,
		ID:   id,
		Move: domain.Move{
			OldParentID: oldParentID,
			NewParentID: newParentID,
			OldIndex:    oldPos,
			NewIndex:    idx,
		},
	})
	return nil
}

// folderExists fails with ErrNotFound when id is missing and with a plain
// error when it names a bookmark.
func folderExists(ctx context.Context, tx *sql.Tx, id string) error {
	var url string
	err := tx.QueryRowContext(ctx, `SELECT url FROM nodes WHERE id = ?`, id).Scan(&url)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load folder %s: %w", id, err)
	}
	if url != "" {
		return fmt.Errorf("%s is not a folder", id)
	}
	return nil
}

// subtreeSnapshot assembles the tree rooted at id, children populated at
// every depth. Used for removed event payloads.
func subtreeSnapshot(ctx context.Context, tx *sql.Tx, id string) (*domain.Node, error) {
	rows, err := tx.QueryContext(ctx, `
		WITH RECURSIVE subtree(id) AS (
			SELECT id FROM nodes WHERE id = ?
			UNION ALL
			SELECT n.id FROM nodes n JOIN subtree s ON n.parent_id = s.id
		)
		SELECT `+nodeColumns+` FROM nodes
		WHERE id IN (SELECT id FROM subtree)
		ORDER BY parent_id, position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot %s: %w", id, err)
	}
	defer rows.Close()

	byID := make(map[string]*domain.Node)
	var all []*domain.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		if n.IsFolder() {
			n.Children = []*domain.Node{}
		}
		byID[n.ID] = n
		all = append(all, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	root, ok := byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for _, n := range all {
		if n.ID == id {
			continue
		}
		if parent, ok := byID[n.ParentID]; ok {
			parent.Children = append(parent.Children, n)
		}
	}
	return root, nil
}
