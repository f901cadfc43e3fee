package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicClock(t *testing.T) {
	clock := NewDeterministicClock()
	assert.Equal(t, int64(0), clock.Current())
	assert.Equal(t, int64(1), clock.Next())
	assert.Equal(t, int64(2), clock.Next())

	clock.Reset()
	assert.Equal(t, int64(1), clock.Next(), "reset restarts the sequence")
}

func TestDeterministicClock_ThreadSafe(t *testing.T) {
	clock := NewDeterministicClock()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Next()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), clock.Current())
}

func TestSequenceIDGenerator(t *testing.T) {
	gen := NewSequenceIDGenerator("run")
	assert.Equal(t, "run-1", gen.Generate())
	assert.Equal(t, "run-2", gen.Generate())

	assert.Equal(t, "session-1", NewSequenceIDGenerator("").Generate())
}

func TestSampleSession(t *testing.T) {
	g := SampleSession(t)

	picked, ok := g.StateByName("picked")
	require.True(t, ok)

	path := picked.Path()
	require.Len(t, path, 3)
	assert.Equal(t, "start", path[0].Name)

	start, _ := g.StateByName("start")
	assert.Equal(t, "load", start.Creator().Name, "undo never becomes the creator")
	assert.False(t, start.HasCachedTree())
}
