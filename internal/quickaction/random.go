package quickaction

import (
	"math/rand"
	"sync"
	"time"
)

// Random is the source of uniform choices for jokes, headlines and generic
// replies. Tests substitute a deterministic sequence.
type Random interface {
	Intn(n int) int
}

type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandom returns a Random safe for concurrent use. A zero seed is
// replaced with the current time.
func NewRandom(seed int64) Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

// Pick returns a uniformly chosen element of items, or "" if items is empty.
func Pick(rnd Random, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[rnd.Intn(len(items))]
}
