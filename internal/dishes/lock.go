package dishes

import "sync"

// keyedMutex serializes writers per dish id within this process. It exists
// to narrow the read-modify-write race on the metadata block; it does
// nothing for writers in other processes, which still race on the store's
// last-write-wins overwrite.
//
// Entries are never freed. The map is bounded by the number of dishes ever
// touched, which for a household catalog is small.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

// Lock acquires the mutex for id, creating it on first use.
func (k *keyedMutex) Lock(id int) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[int]*sync.Mutex)
	}
	l, ok := k.locks[id]
	if !ok {
		l = &sync.Mutex{}
		k.locks[id] = l
	}
	k.mu.Unlock()

	l.Lock()
}

// Unlock releases the mutex for id. Must follow a Lock for the same id.
func (k *keyedMutex) Unlock(id int) {
	k.mu.Lock()
	l := k.locks[id]
	k.mu.Unlock()

	l.Unlock()
}
