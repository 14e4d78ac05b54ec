package transaction

import "sync"

// keyedMutex serializes processing per (wallet, subwallet) key. Validation
// reads a balance and execution posts against it with no store-level lock in
// between; holding a key-scoped mutex across that gap closes the
// read-then-write race between concurrent submissions on the same funds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key and returns its unlock func. Mutexes are
// kept for the process lifetime; the key space is bounded by active
// wallet-subwallet pairs.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
