package internal

import (
	"encoding/json"
	"sort"
	"sync"

	"cafeboard/internal/model"
)

// liveEntry pairs an order with a version that bumps on every write,
// so an optimistic mutation can tell whether anything else touched the
// entry while its backend call was in flight.
type liveEntry struct {
	order   model.Order
	version uint64
}

// LiveList holds the client-side live order set. The push channel
// goroutine and the HTTP handlers share it, so every method locks.
//
// Terminal orders are not evicted here; they leave the set on the next
// Replace from a full refetch.
type LiveList struct {
	mu      sync.RWMutex
	entries []liveEntry
}

func NewLiveList() *LiveList {
	return &LiveList{}
}

// Replace swaps in a full refetch result, most recent first.
func (l *LiveList) Replace(orders []model.Order) {
	next := make([]liveEntry, len(orders))
	for i, o := range orders {
		next[i] = liveEntry{order: o}
	}
	sortByRecency(next)

	l.mu.Lock()
	l.entries = next
	l.mu.Unlock()
}

// Add inserts an order unless its id is already present and reports
// whether the list changed. A duplicate announcement is a no-op.
func (l *LiveList) Add(o model.Order) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].order.ID == o.ID {
			return false
		}
	}

	l.entries = append([]liveEntry{{order: o}}, l.entries...)
	sortByRecency(l.entries)
	return true
}

// Patch merges a full or partial order payload over the entry with the
// matching id. Unknown ids are ignored: an update never inserts.
func (l *LiveList) Patch(raw json.RawMessage) (before, after model.Order, ok bool, err error) {
	var probe struct {
		ID int64 `json:"id"`
	}
	if err = json.Unmarshal(raw, &probe); err != nil {
		return model.Order{}, model.Order{}, false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].order.ID != probe.ID {
			continue
		}

		before = l.entries[i].order
		patched := before
		if err = json.Unmarshal(raw, &patched); err != nil {
			return model.Order{}, model.Order{}, false, err
		}

		l.entries[i].order = patched
		l.entries[i].version++
		return before, patched, true, nil
	}

	return model.Order{}, model.Order{}, false, nil
}

// ApplyStatus validates and applies a locally initiated status change
// in one step, touching nothing but the status field, so a push
// arriving around the mutation is never overwritten by a stale
// snapshot. Returns the order before and after the change and the
// entry version the write produced.
func (l *LiveList) ApplyStatus(id int64, status string) (before, after model.Order, version uint64, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].order.ID != id {
			continue
		}

		before = l.entries[i].order
		if !model.CanTransition(before.Status, status) {
			return model.Order{}, model.Order{}, 0, ErrInvalidTransition
		}

		l.entries[i].order.Status = status
		l.entries[i].version++
		return before, l.entries[i].order, l.entries[i].version, nil
	}

	return model.Order{}, model.Order{}, 0, ErrOrderNotFound
}

// ApplyPaid flips paid on, once.
func (l *LiveList) ApplyPaid(id int64) (before, after model.Order, version uint64, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].order.ID != id {
			continue
		}

		before = l.entries[i].order
		if before.Paid {
			return model.Order{}, model.Order{}, 0, ErrAlreadyPaid
		}

		l.entries[i].order.Paid = true
		l.entries[i].version++
		return before, l.entries[i].order, l.entries[i].version, nil
	}

	return model.Order{}, model.Order{}, 0, ErrOrderNotFound
}

// RevertStatus undoes a failed optimistic status change, unless the
// entry was touched by anything else since the optimistic write; the
// pushed state is authoritative and must not be rolled over. Reports
// whether the rollback ran.
func (l *LiveList) RevertStatus(id int64, status string, version uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].order.ID != id {
			continue
		}
		if l.entries[i].version != version {
			return false
		}

		l.entries[i].order.Status = status
		l.entries[i].version++
		return true
	}
	return false
}

// RevertPaid is the paid-flag counterpart of RevertStatus.
func (l *LiveList) RevertPaid(id int64, version uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].order.ID != id {
			continue
		}
		if l.entries[i].version != version {
			return false
		}

		l.entries[i].order.Paid = false
		l.entries[i].version++
		return true
	}
	return false
}

func (l *LiveList) Get(id int64) (model.Order, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := range l.entries {
		if l.entries[i].order.ID == id {
			return l.entries[i].order, true
		}
	}
	return model.Order{}, false
}

func (l *LiveList) Snapshot() []model.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snapshot := make([]model.Order, len(l.entries))
	for i := range l.entries {
		snapshot[i] = l.entries[i].order
	}
	return snapshot
}

func (l *LiveList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func sortByRecency(entries []liveEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].order.CreatedAt.After(entries[j].order.CreatedAt)
	})
}
