package engine

import (
	"sort"
	"sync"
)

// keyedMutex hands out one RWMutex per key. Entries are reference counted
// and dropped once no goroutine holds or waits for them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	sync.RWMutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refLock)}
}

func (k *keyedMutex) acquire(key string) *refLock {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	return l
}

func (k *keyedMutex) release(key string, l *refLock) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}

// Lock takes the keys exclusively in sorted order and returns the unlock
// function.
func (k *keyedMutex) Lock(keys ...string) func() {
	return k.lock(false, keys)
}

// RLock takes the keys in shared mode in sorted order and returns the
// unlock function.
func (k *keyedMutex) RLock(keys ...string) func() {
	return k.lock(true, keys)
}

func (k *keyedMutex) lock(shared bool, keys []string) func() {
	keys = uniqueSorted(keys)
	held := make([]*refLock, len(keys))
	for i, key := range keys {
		l := k.acquire(key)
		if shared {
			l.RLock()
		} else {
			l.Lock()
		}
		held[i] = l
	}

	return func() {
		for i := len(keys) - 1; i >= 0; i-- {
			if shared {
				held[i].RUnlock()
			} else {
				held[i].Unlock()
			}
			k.release(keys[i], held[i])
		}
	}
}

// size reports how many keys are tracked.
func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func uniqueSorted(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func itemKey(learnerID, itemID string) string {
	if itemID == "" {
		return ""
	}
	return "item/" + learnerID + "/" + itemID
}

func courseKey(learnerID, courseID string) string {
	return "course/" + learnerID + "/" + courseID
}

func progressKey(learnerID, courseID string) string {
	return "progress/" + learnerID + "/" + courseID
}
