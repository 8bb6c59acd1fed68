package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"segnalibro/internal/domain"
)

// maxChainDepth bounds every ancestor walk so a corrupt parent link can
// never loop forever. Trees deeper than this are truncated, not failed.
const maxChainDepth = 64

// pathSeparator joins the titles of a resolved path.
const pathSeparator = " / "

// ResolvePath returns the titles from the top-level folder down to the
// node itself, joined by " / ". The root folder is never part of the path.
// Results are memoized until the next change event arrives from the store.
func (e *Engine) ResolvePath(ctx context.Context, id string) (string, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return "", ErrClosed
	}
	if path, ok := e.pathMemo[id]; ok {
		e.mu.Unlock()
		return path, nil
	}
	e.mu.Unlock()

	chain, err := e.ascendChain(ctx, id)
	if err != nil {
		return "", fmt.Errorf("resolve path for %q: %w", id, err)
	}
	titles := make([]string, 0, len(chain))
	for _, n := range chain {
		titles = append(titles, n.Title)
	}
	path := strings.Join(titles, pathSeparator)

	e.mu.Lock()
	if !e.closed {
		if e.pathMemo == nil {
			e.pathMemo = make(map[string]string)
		}
		e.pathMemo[id] = path
	}
	e.mu.Unlock()
	return path, nil
}

// invalidatePathsLocked drops the whole memo. Per-entry invalidation is not
// worth the bookkeeping; any change may reparent or retitle an ancestor.
// Callers hold e.mu.
func (e *Engine) invalidatePathsLocked() {
	e.pathMemo = nil
}

// ascendChain walks parent links from id up to (but excluding) the root
// and returns the chain top-down, every node merged into the index. Nodes
// missing from the index are fetched one at a time from the store. The
// walk stops quietly at maxChainDepth.
func (e *Engine) ascendChain(ctx context.Context, id string) ([]*domain.Node, error) {
	var chain []*domain.Node
	cur := id
	for depth := 0; depth < maxChainDepth; depth++ {
		if cur == "" || cur == e.cfg.RootID {
			break
		}
		e.mu.Lock()
		n, ok := e.idx.Get(cur)
		e.mu.Unlock()
		if !ok {
			fetched, err := e.store.Node(ctx, cur)
			if err != nil {
				return nil, err
			}
			e.mu.Lock()
			if e.closed {
				e.mu.Unlock()
				return nil, ErrClosed
			}
			n = e.idx.Upsert(fetched)
			e.mu.Unlock()
		}
		chain = append(chain, n)
		cur = n.ParentID
	}
	slices.Reverse(chain)
	return chain, nil
}
