package settlement

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunGuardRejectsSecondAcquire(t *testing.T) {
	var guard RunGuard

	require.NoError(t, guard.Acquire())
	assert.ErrorIs(t, guard.Acquire(), ErrRunInProgress)

	guard.Release()
	assert.NoError(t, guard.Acquire())
}

func TestRunGuardAllowsExactlyOneWinner(t *testing.T) {
	var guard RunGuard
	var wins atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if guard.Acquire() == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}
