package roster

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/remnaops/vless-gateway/internal/identity"
)

// Source is any tabular backend that can produce the ordered column of
// raw authorization tokens.
type Source interface {
	ColumnValues(ctx context.Context) ([]string, error)
}

// Roster holds a process-wide snapshot of the authorization column,
// shared read-only across requests and refreshed when it goes stale or
// on explicit demand.
type Roster struct {
	source   Source
	startRow int
	ttl      time.Duration

	mu        sync.RWMutex
	entries   []string
	fetchedAt time.Time
}

// New loads the initial snapshot. A failure here is a startup
// configuration error, not something to defer to request time.
func New(ctx context.Context, source Source, startRow int, ttl time.Duration) (*Roster, error) {
	r := &Roster{
		source:   source,
		startRow: startRow,
		ttl:      ttl,
	}
	if _, err := r.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("initial roster load: %w", err)
	}
	return r, nil
}

// Refresh re-fetches the snapshot and returns the new entry count.
func (r *Roster) Refresh(ctx context.Context) (int, error) {
	values, err := r.source.ColumnValues(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch roster column: %w", err)
	}

	r.mu.Lock()
	r.entries = values
	r.fetchedAt = time.Now()
	r.mu.Unlock()

	slog.Info("Roster refreshed", "entries", len(values), "start_row", r.startRow)
	return len(values), nil
}

// Contains reports whether the normalized identity appears in the
// roster. Rows before the configured start offset are header/reserved
// and never match; empty rows are skipped; first match wins.
func (r *Roster) Contains(ctx context.Context, mac string) (bool, error) {
	if err := r.ensureFresh(ctx); err != nil {
		return false, err
	}

	target := identity.Normalize(mac)
	if target == "" {
		return false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.startRow >= len(r.entries) {
		return false, nil
	}
	for _, entry := range r.entries[r.startRow:] {
		if entry == "" {
			continue
		}
		if identity.Normalize(entry) == target {
			return true, nil
		}
	}
	return false, nil
}

func (r *Roster) ensureFresh(ctx context.Context) error {
	if r.ttl <= 0 {
		return nil
	}

	r.mu.RLock()
	stale := time.Since(r.fetchedAt) > r.ttl
	r.mu.RUnlock()

	if !stale {
		return nil
	}
	if _, err := r.Refresh(ctx); err != nil {
		slog.Error("Roster refresh failed", "error", err)
		return err
	}
	return nil
}
