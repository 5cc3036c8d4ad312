package services

import (
	"sync"

	"fiber-erp/types"

	"golang.org/x/exp/slices"
)

// Per-item mutexes serialize workflow writes touching the same item inside
// one process. The optimistic lock_version on items covers the multi-node
// case; this keeps the common single-node deployment from ever hitting it.
var itemLocks sync.Map

func lockFor(id types.SnowflakeID) *sync.Mutex {
	mu, _ := itemLocks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// LockItems acquires the locks for every given item in sorted id order so
// two overlapping requests can never deadlock. The returned func releases
// them in reverse order.
func LockItems(ids ...types.SnowflakeID) func() {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	for _, id := range sorted {
		lockFor(id).Lock()
	}
	return func() {
		for i := len(sorted) - 1; i >= 0; i-- {
			lockFor(sorted[i]).Unlock()
		}
	}
}
