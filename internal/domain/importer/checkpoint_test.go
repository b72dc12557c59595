package importer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointSingleShot(t *testing.T) {
	cp := NewCheckpoint("c1", 2, "a@b.co", "A", "B")
	assert.ErrorIs(t, cp.Resolve("maybe"), ErrInvalidDecision)

	var wg sync.WaitGroup
	results := make(chan error, 5)
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- cp.Resolve(DecisionOverwrite)
		}()
	}
	wg.Wait()
	close(results)
	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyResolved)
		}
	}
	assert.Equal(t, 1, wins)

	d, err := cp.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DecisionOverwrite, d)
}

func TestCheckpointAwaitHonoursCancellation(t *testing.T) {
	cp := NewCheckpoint("c1", 2, "a@b.co", "A", "B")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := cp.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
