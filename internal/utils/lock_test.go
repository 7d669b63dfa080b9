package utils

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	var counter int
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("room-1")
			defer unlock()
			// non-atomic increment; the lock is what keeps this safe
			counter++
		}()
	}

	wg.Wait()
	assert.Equal(t, 50, counter, "All increments under the same key should be serialized")
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	unlockA := km.Lock("room-a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("room-b")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Lock on a different key should not block while room-a is held")
	}
}

func TestKeyedMutex_ReusableAfterUnlock(t *testing.T) {
	km := NewKeyedMutex()

	unlock := km.Lock("room-1")
	unlock()

	done := make(chan struct{})
	go func() {
		unlock := km.Lock("room-1")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Key should be lockable again after unlock")
	}
}
