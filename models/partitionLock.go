package models

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/config"
)

// Every balance-changing operation serializes on its partition key. Two
// concurrent edits to the same partition would otherwise both read a stale
// row set during recompute and overwrite each other's balances.
var partitionMutexes sync.Map // partition key -> *sync.Mutex

const partitionLockTTL = 30 * time.Second

// lockPartitions acquires all given partition keys in sorted order (stable
// order prevents deadlock between cross-partition operations) and returns the
// release function. When Redis is configured a distributed lock is layered on
// top so multiple instances serialize too; obtaining it is best-effort.
func lockPartitions(ctx context.Context, keys ...string) func() {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			uniq = append(uniq, k)
		}
	}
	sort.Strings(uniq)

	unlocks := make([]func(), 0, len(uniq)*2)
	for _, key := range uniq {
		m, _ := partitionMutexes.LoadOrStore(key, &sync.Mutex{})
		mu := m.(*sync.Mutex)
		mu.Lock()
		unlocks = append(unlocks, mu.Unlock)

		if locker := config.GetRedisLock(); locker != nil {
			lock, err := locker.Obtain(ctx, "partition:"+key, partitionLockTTL, &redislock.Options{
				RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 50),
			})
			if err != nil {
				config.LogError(config.GetLogger(), "partitionLock.go", "lockPartitions", "redislock.Obtain", key, err)
			} else {
				unlocks = append(unlocks, func() { _ = lock.Release(context.Background()) })
			}
		}
	}

	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}
