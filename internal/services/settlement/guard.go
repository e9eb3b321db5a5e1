package settlement

import (
	"errors"
	"sync/atomic"
)

// ErrRunInProgress is returned when a settlement run is attempted while
// another run holds the token.
var ErrRunInProgress = errors.New("settlement run already in progress")

// RunGuard is a compare-and-set run token. The chunked job and the direct
// executor path share one guard, held for the full duration of a run, so
// the two daily triggers can never settle concurrently.
type RunGuard struct {
	running atomic.Bool
}

// Acquire claims the token or returns ErrRunInProgress.
func (g *RunGuard) Acquire() error {
	if !g.running.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	return nil
}

func (g *RunGuard) Release() {
	g.running.Store(false)
}
