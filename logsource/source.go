// Package logsource resolves claim slots to the event records the circuit
// consumes. Sources are trusted: authenticating the log against chain
// history is the job of whatever serves them.
package logsource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/axiom-crypto/axiom-kwenta-incentives/claim"
)

var ErrNotFound = errors.New("log not found")

// Source looks up the log referenced by a slot.
type Source interface {
	LookupLog(ctx context.Context, s claim.Slot) (claim.EventRecord, error)
}

// Memory is a fixed set of records, safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	logs map[claim.Slot]claim.EventRecord
}

func NewMemory(logs map[claim.Slot]claim.EventRecord) *Memory {
	m := &Memory{logs: make(map[claim.Slot]claim.EventRecord, len(logs))}
	for s, r := range logs {
		m.logs[s] = r
	}
	return m
}

func (m *Memory) Put(s claim.Slot, r claim.EventRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs[s] = r
}

func (m *Memory) LookupLog(_ context.Context, s claim.Slot) (claim.EventRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.logs[s]
	if !ok {
		return claim.EventRecord{}, fmt.Errorf("%w: %s", ErrNotFound, s)
	}
	return r, nil
}

// Resolve fetches the record of every slot in b, padding included, with at
// most workers lookups in flight. Padding slots repeat the first claim so
// a caching source serves them without extra round trips.
func Resolve(ctx context.Context, src Source, b claim.Batch, workers int) (claim.Records, error) {
	var recs claim.Records
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, s := range b.Slots {
		g.Go(func() error {
			r, err := src.LookupLog(ctx, s)
			if err != nil {
				return fmt.Errorf("slot %d (%s): %w", i, s, err)
			}
			recs[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return claim.Records{}, err
	}
	return recs, nil
}
