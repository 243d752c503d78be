package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClock_StartsAtEpoch(t *testing.T) {
	clock := NewDeterministicClock()
	assert.Equal(t, DefaultEpoch, clock.Peek())
	assert.Equal(t, DefaultEpoch, clock.Now())
}

func TestDeterministicClock_AdvancesOneSecondPerCall(t *testing.T) {
	clock := NewDeterministicClock()

	assert.Equal(t, DefaultEpoch, clock.Now())
	assert.Equal(t, DefaultEpoch.Add(time.Second), clock.Now())
	assert.Equal(t, DefaultEpoch.Add(2*time.Second), clock.Now())
	assert.Equal(t, DefaultEpoch.Add(3*time.Second), clock.Peek())
}

func TestDeterministicClock_Reset(t *testing.T) {
	clock := NewDeterministicClock()
	clock.Now()
	clock.Now()

	clock.Reset()

	assert.Equal(t, DefaultEpoch, clock.Now())
}

func TestDeterministicClock_ConcurrentAccess(t *testing.T) {
	clock := NewDeterministicClock()

	const goroutines = 10
	const callsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				clock.Now()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, DefaultEpoch.Add(goroutines*callsPerGoroutine*time.Second), clock.Peek())
}
