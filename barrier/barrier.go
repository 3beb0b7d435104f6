// Package barrier provides a reusable N-party rendezvous for lock-step workers.
package barrier

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
)

// ConfigError is returned by New when the party count is unusable.
type ConfigError struct {
	Parties int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("barrier: party count must be in [1, %d], got %d", math.MaxInt32, e.Parties)
}

// Barrier blocks each caller of Wait until all parties have arrived, then
// releases them together. It may be reused immediately for the next round.
//
// Release is two-staged: the last arrival resets the arrival count and then
// holds the guard until every other party has acknowledged its departure.
// A fast party looping back into Wait therefore blocks on the guard instead
// of counting itself into a round a slow sibling has not yet left.
//
// There is no timeout. A party that never arrives stalls the others forever.
type Barrier struct {
	parties int32

	mu       sync.Mutex
	arrived  atomic.Int32
	departed atomic.Int32
	rounds   atomic.Uint64
}

// New creates a barrier for n parties.
func New(n int) (*Barrier, error) {
	if n < 1 || n > math.MaxInt32 {
		return nil, &ConfigError{Parties: n}
	}
	return &Barrier{parties: int32(n)}, nil
}

// MustNew is like New but panics on error.
func MustNew(n int) *Barrier {
	b, err := New(n)
	if err != nil {
		panic(err)
	}
	return b
}

// Parties returns the number of parties the barrier was built for.
func (b *Barrier) Parties() int {
	return int(b.parties)
}

// Rounds returns how many times the barrier has released its parties.
func (b *Barrier) Rounds() uint64 {
	return b.rounds.Load()
}

// Wait blocks until all parties have called Wait for the current round.
func (b *Barrier) Wait() {
	b.mu.Lock()
	if b.arrived.Add(1) == b.parties {
		// Departures must read as zero before anyone can see the reset.
		b.departed.Store(0)
		b.arrived.Store(0)
		for b.departed.Load() != b.parties-1 {
			runtime.Gosched()
		}
		b.rounds.Add(1)
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	for b.arrived.Load() != 0 {
		runtime.Gosched()
	}
	b.departed.Add(1)
}
