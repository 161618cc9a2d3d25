// Package keylock provides a mutex per integer key. A sync pass locks its
// machine id across the replace-then-read window so two passes for the same
// machine cannot interleave a delete with the other's insert.
package keylock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex hands out one mutex per key, dropping entries once nobody
// holds or waits on them.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[int]*entry
}

func New() *KeyedMutex {
	return &KeyedMutex{locks: make(map[int]*entry)}
}

func (k *KeyedMutex) Lock(key int) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

func (k *KeyedMutex) Unlock(key int) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()
		panic("keylock: unlock of unlocked key")
	}
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
