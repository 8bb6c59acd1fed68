package engine

import (
	"time"

	"segnalibro/internal/domain"
)

// Search updates the query and arms the debounce timer. Nothing reaches
// the store until the query has rested for the configured debounce window;
// typing before it fires restarts the wait, so a burst of keystrokes costs
// one store round-trip. An empty query dismisses the search immediately
// and invalidates whatever is still in flight.
func (e *Engine) Search(query string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if e.debounce != nil {
		e.debounce.Stop()
		e.debounce = nil
	}
	e.query = query
	if query == "" {
		e.seq++
		e.searchActive = false
		e.results = nil
		e.notifyLocked()
		return
	}
	e.searchActive = true
	e.notifyLocked()
	e.debounce = time.AfterFunc(e.cfg.SearchDebounce, func() {
		e.dispatchSearch(query)
	})
}

// ClearSearch dismisses the search view and invalidates in-flight queries.
func (e *Engine) ClearSearch() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.clearSearchLocked()
	e.notifyLocked()
}

// clearSearchLocked resets search state and bumps the sequence so stale
// completions are dropped. Callers hold e.mu.
func (e *Engine) clearSearchLocked() {
	if e.debounce != nil {
		e.debounce.Stop()
		e.debounce = nil
	}
	e.seq++
	e.query = ""
	e.searchActive = false
	e.results = nil
}

// dispatchSearch runs a debounced query against the store. Each dispatch
// takes a fresh sequence token; a completion whose token is no longer
// current belongs to a superseded query and is discarded, so the displayed
// results always match the last dispatched query no matter in which order
// the store answers.
func (e *Engine) dispatchSearch(query string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.seq++
	token := e.seq
	e.mu.Unlock()

	found, err := e.store.Search(e.ctx, query)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || token != e.seq {
		return
	}
	if err != nil {
		e.results = []*domain.Node{}
		e.lastErr = err
		e.notifyLocked()
		return
	}
	// Merging results into the index enriches cached folders with their
	// known children and keeps every view aliased to one node per id, so
	// later change events patch results in place.
	merged := make([]*domain.Node, 0, len(found))
	for _, n := range found {
		merged = append(merged, e.idx.Upsert(n))
	}
	e.results = merged
	e.lastErr = nil
	e.notifyLocked()
}
