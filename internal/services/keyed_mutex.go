package services

import "sync"

// keyedMutex hands out one mutex per key. It serializes upstream create calls
// sharing the same email within this process only and carries no guarantee
// across instances. The conditional update in RegisterWithOpenWearables is the
// correctness boundary; this just cuts duplicate outbound requests.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

const keyedMutexLimit = 4096

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	if m, ok := k.locks[key]; ok {
		return m
	}
	// Bound the map so a churn of unique keys cannot grow it forever.
	if len(k.locks) >= keyedMutexLimit {
		k.locks = make(map[string]*sync.Mutex)
	}
	m := &sync.Mutex{}
	k.locks[key] = m
	return m
}

// Lock locks the mutex for key and returns its unlock func.
func (k *keyedMutex) Lock(key string) func() {
	m := k.get(key)
	m.Lock()
	return m.Unlock
}
