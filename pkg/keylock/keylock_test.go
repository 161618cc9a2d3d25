package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	k := New()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k.Lock(219)
			counter++
			k.Unlock(219)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	k := New()

	k.Lock(1)
	done := make(chan struct{})
	go func() {
		// Must not block on a different key.
		k.Lock(2)
		k.Unlock(2)
		close(done)
	}()
	<-done
	k.Unlock(1)
}

func TestKeyedMutex_CleansUpEntries(t *testing.T) {
	k := New()

	k.Lock(5)
	k.Unlock(5)

	k.mu.Lock()
	defer k.mu.Unlock()
	assert.Empty(t, k.locks, "released keys do not accumulate")
}
