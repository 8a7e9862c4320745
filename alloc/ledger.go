package alloc

import (
	"errors"
	"sync"
)

var ErrBadSize = errors.New("allocation size must be positive")

// Ledger hands out byte slices and keeps track of the ones that weren't given back yet. The
// Go runtime frees memory itself, so the ledger exists to make ownership visible: every Acquire
// must be paired with exactly one Release, and Live() reports what's still held.
type Ledger struct {
	mu    sync.Mutex
	live  map[*byte]int
	bytes int
}

func NewLedger() *Ledger {
	return &Ledger{
		live: make(map[*byte]int),
	}
}

// Acquire allocates n zeroed bytes.
func (l *Ledger) Acquire(n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrBadSize
	}

	b := make([]byte, n)

	l.mu.Lock()
	l.live[&b[0]] = n
	l.bytes += n
	l.mu.Unlock()

	return b, nil
}

// Release gives the slice back. Slices which weren't acquired from this ledger, as well as
// already released ones, are ignored.
func (l *Ledger) Release(b []byte) {
	if cap(b) == 0 {
		return
	}

	key := &b[:1][0]

	l.mu.Lock()
	if n, ok := l.live[key]; ok {
		delete(l.live, key)
		l.bytes -= n
	}
	l.mu.Unlock()
}

// Live returns the number of outstanding allocations.
func (l *Ledger) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.live)
}

// Bytes returns the total size of outstanding allocations.
func (l *Ledger) Bytes() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.bytes
}
