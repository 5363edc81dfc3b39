package locker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHouseLockerSerializesPerHouse(t *testing.T) {
	l := New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Lock(7)
			counter++
			l.Unlock(7)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestHouseLockerIndependentHouses(t *testing.T) {
	l := New()

	l.Lock(1)
	done := make(chan struct{})
	go func() {
		l.Lock(2)
		l.Unlock(2)
		close(done)
	}()
	<-done // house 2 must not wait on house 1
	l.Unlock(1)
}

func TestRunLockerTryAcquire(t *testing.T) {
	l := NewRunLocker()

	assert.True(t, l.TryAcquire(10))
	assert.False(t, l.TryAcquire(10))
	assert.True(t, l.TryAcquire(11))

	l.Release(10)
	assert.True(t, l.TryAcquire(10))
}
