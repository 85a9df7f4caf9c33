package actions

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/xyzmtx/math-explorer-agent/internal/events"
	"github.com/xyzmtx/math-explorer-agent/internal/ledger"
	"github.com/xyzmtx/math-explorer-agent/internal/model"
	"github.com/xyzmtx/math-explorer-agent/internal/oracle"
	"github.com/xyzmtx/math-explorer-agent/internal/prompts"
)

const mergeTemperature = 0.3

// Merger owns the single writer path into the ledger. Every artifact a
// concurrent action produces goes through MergeText, which serializes
// the oracle's update pass, the mutation, and the snapshot behind one
// lock.
type Merger struct {
	mu sync.Mutex

	led      *ledger.Ledger
	store    *ledger.Store
	oracle   oracle.Client
	queue    *events.Queue
	logger   *log.Logger
	autoSave bool
}

// NewMerger wires the merge path. store may be nil when persistence is
// disabled.
func NewMerger(led *ledger.Ledger, store *ledger.Store, client oracle.Client, queue *events.Queue, autoSave bool, logger *log.Logger) *Merger {
	return &Merger{led: led, store: store, oracle: client, queue: queue, autoSave: autoSave, logger: logger}
}

// MergeText asks the oracle to turn mathematical text into update
// instructions, applies them, and snapshots the ledger. The lock is held
// for the whole merge and released on every exit path; an unusable
// oracle response degrades to an empty batch.
func (m *Merger) MergeText(ctx context.Context, text, sourceTag string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	batch := oracle.Structured(ctx, m.oracle,
		prompts.UpdateSystem(), prompts.UpdateUser(m.led.DisplayString(), text),
		ledger.UpdateBatch{}, mergeTemperature)

	results := m.led.ApplyUpdates(batch.Updates)
	m.logf("merge_applied source=%s updates=%d version=%d", sourceTag, len(results), m.led.Version())
	m.publish(events.EventMergeApplied, map[string]any{
		"source":  sourceTag,
		"updates": len(results),
		"version": m.led.Version(),
	})

	if m.autoSave {
		if err := m.saveLocked(sourceTag); err != nil {
			return results, err
		}
	}
	return results, nil
}

// LedgerDisplay renders the ledger under the merge lock. Reads inside a
// running execution go through here, never through the ledger directly:
// a sibling action's merge may be mutating it.
func (m *Merger) LedgerDisplay() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.led.DisplayString()
}

// Direction returns a copy of a direction under the merge lock.
func (m *Merger) Direction(id string) (model.Direction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d := m.led.DirectionByID(id); d != nil {
		return *d, true
	}
	return model.Direction{}, false
}

// Conjecture returns a copy of a conjecture under the merge lock.
func (m *Merger) Conjecture(id string) (model.Conjecture, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c := m.led.ConjectureByID(id); c != nil {
		return *c, true
	}
	return model.Conjecture{}, false
}

// Save snapshots the ledger under the merge lock, for callers outside
// the merge path (shutdown, checkpoint). It saves regardless of the
// auto-save setting.
func (m *Merger) Save(tag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked(tag)
}

func (m *Merger) saveLocked(tag string) error {
	if m.store == nil {
		return nil
	}
	path, err := m.store.Save(tag)
	if err != nil {
		return fmt.Errorf("snapshot after merge: %w", err)
	}
	m.publish(events.EventSnapshotSaved, map[string]any{"path": path})
	return nil
}

func (m *Merger) publish(t events.EventType, data map[string]any) {
	if m.queue != nil {
		m.queue.Publish(t, data)
	}
}

func (m *Merger) logf(format string, args ...any) {
	if m.logger != nil {
		m.logger.Printf(format, args...)
	}
}
