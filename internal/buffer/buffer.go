package buffer

import (
	"errors"
	"fmt"

	"github.com/indigo-web/okstub/alloc"
)

var (
	ErrOverflow = errors.New("write exceeds buffer capacity")
	ErrFreed    = errors.New("buffer is already freed")
)

// Buffer is a fixed-capacity staging area for outgoing bytes. The length of the underlying
// slice acts as the write cursor, its capacity never changes during the buffer's lifetime.
// Every write either fits completely or isn't performed at all.
type Buffer struct {
	ledger *alloc.Ledger
	memory []byte
	freed  bool
}

// Allocate reserves capacity bytes from the ledger. The cursor starts at the very beginning.
func Allocate(ledger *alloc.Ledger, capacity int) (*Buffer, error) {
	memory, err := ledger.Acquire(capacity)
	if err != nil {
		return nil, err
	}

	return &Buffer{
		ledger: ledger,
		memory: memory[:0],
	}, nil
}

// Zero overwrites the whole capacity with zeroes. The cursor stays intact.
func (b *Buffer) Zero() {
	clear(b.memory[:cap(b.memory)])
}

// Write appends p if it fits into the remaining space, otherwise nothing is written and
// ErrOverflow is returned.
func (b *Buffer) Write(p []byte) (n int, err error) {
	if err = b.reserve(len(p)); err != nil {
		return 0, err
	}

	b.memory = append(b.memory, p...)
	return len(p), nil
}

func (b *Buffer) WriteString(s string) (n int, err error) {
	if err = b.reserve(len(s)); err != nil {
		return 0, err
	}

	b.memory = append(b.memory, s...)
	return len(s), nil
}

func (b *Buffer) WriteByte(c byte) error {
	if err := b.reserve(1); err != nil {
		return err
	}

	b.memory = append(b.memory, c)
	return nil
}

// Writef renders the formatted text right at the cursor. The cursor is advanced by exactly
// the number of bytes produced. If the result doesn't fit, the cursor stays where it was.
func (b *Buffer) Writef(format string, args ...any) error {
	if b.freed {
		return ErrFreed
	}

	// append grows the slice only if the capacity is exceeded, so the result shares
	// the memory with the buffer exactly when it fits
	out := fmt.Appendf(b.memory, format, args...)
	if len(out) > cap(b.memory) {
		return ErrOverflow
	}

	b.memory = out
	return nil
}

func (b *Buffer) reserve(n int) error {
	switch {
	case b.freed:
		return ErrFreed
	case n > b.Available():
		return ErrOverflow
	}

	return nil
}

// Len returns the number of bytes written since the last reset.
func (b *Buffer) Len() int {
	return len(b.memory)
}

func (b *Buffer) Cap() int {
	return cap(b.memory)
}

// Available returns how many bytes can still be written.
func (b *Buffer) Available() int {
	return cap(b.memory) - len(b.memory)
}

// Bytes returns the written region. It stays valid until the next Reset, Truncate or Free.
func (b *Buffer) Bytes() []byte {
	return b.memory
}

// Truncate moves the cursor back, keeping only the first n written bytes. Values outside
// of [0, Len()] are clamped.
func (b *Buffer) Truncate(n int) {
	b.memory = b.memory[:max(0, min(n, len(b.memory)))]
}

// Reset rewinds the cursor to the beginning, so the same memory is reused by the following
// writes. Old contents aren't cleared.
func (b *Buffer) Reset() {
	b.memory = b.memory[:0]
}

// Free returns the memory to the ledger. Any write after it fails with ErrFreed.
func (b *Buffer) Free() {
	if b.freed {
		return
	}

	b.ledger.Release(b.memory)
	b.memory = nil
	b.freed = true
}
