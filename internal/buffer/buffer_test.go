package buffer

import (
	"strings"
	"testing"

	"github.com/indigo-web/okstub/alloc"
	"github.com/stretchr/testify/require"
)

func newBuffer(t testing.TB, capacity int) (*Buffer, *alloc.Ledger) {
	ledger := alloc.NewLedger()
	buff, err := Allocate(ledger, capacity)
	require.NoError(t, err)

	return buff, ledger
}

func BenchmarkBuffer(b *testing.B) {
	buff, _ := newBuffer(b, 4096)
	line := []byte(strings.Repeat("a", 1023))

	b.Run("write and reset", func(b *testing.B) {
		b.ReportAllocs()
		b.SetBytes(int64(len(line)))
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_, _ = buff.Write(line)
			buff.Reset()
		}
	})

	b.Run("writef", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_ = buff.Writef("%d ", 200)
			buff.Reset()
		}
	})
}

func TestBuffer(t *testing.T) {
	t.Run("allocate", func(t *testing.T) {
		buff, ledger := newBuffer(t, 16)
		require.Zero(t, buff.Len())
		require.Equal(t, 16, buff.Cap())
		require.Equal(t, 16, buff.Available())
		require.Equal(t, 1, ledger.Live())
	})

	t.Run("bad capacity", func(t *testing.T) {
		_, err := Allocate(alloc.NewLedger(), 0)
		require.ErrorIs(t, err, alloc.ErrBadSize)
	})

	t.Run("mixed writes", func(t *testing.T) {
		buff, _ := newBuffer(t, 32)
		_, err := buff.Write([]byte("Hello"))
		require.NoError(t, err)
		require.NoError(t, buff.WriteByte(','))
		_, err = buff.WriteString(" World")
		require.NoError(t, err)
		require.NoError(t, buff.Writef("%c%d", '!', 42))
		require.Equal(t, "Hello, World!42", string(buff.Bytes()))
		require.Equal(t, 15, buff.Len())
		require.Equal(t, 17, buff.Available())
	})

	t.Run("fill exactly", func(t *testing.T) {
		buff, _ := newBuffer(t, 5)
		_, err := buff.WriteString("Hello")
		require.NoError(t, err)
		require.Zero(t, buff.Available())
		require.ErrorIs(t, buff.WriteByte('!'), ErrOverflow)
		require.Equal(t, "Hello", string(buff.Bytes()))
	})

	t.Run("overflow discards the write", func(t *testing.T) {
		buff, _ := newBuffer(t, 8)
		_, err := buff.WriteString("Hello")
		require.NoError(t, err)

		n, err := buff.Write([]byte("World"))
		require.ErrorIs(t, err, ErrOverflow)
		require.Zero(t, n)
		n, err = buff.WriteString("World")
		require.ErrorIs(t, err, ErrOverflow)
		require.Zero(t, n)
		require.Equal(t, "Hello", string(buff.Bytes()))
	})

	t.Run("writef overflow", func(t *testing.T) {
		buff, _ := newBuffer(t, 8)
		_, err := buff.WriteString("HTTP/")
		require.NoError(t, err)
		require.ErrorIs(t, buff.Writef("%d", 123456), ErrOverflow)
		require.Equal(t, "HTTP/", string(buff.Bytes()))
		require.Equal(t, 8, buff.Cap())
	})

	t.Run("reset rewinds the cursor", func(t *testing.T) {
		buff, _ := newBuffer(t, 16)
		_, err := buff.WriteString("first")
		require.NoError(t, err)
		buff.Reset()
		require.Zero(t, buff.Len())
		_, err = buff.WriteString("second")
		require.NoError(t, err)
		require.Equal(t, "second", string(buff.Bytes()))
		require.Equal(t, 16, buff.Cap())
	})

	t.Run("truncate", func(t *testing.T) {
		buff, _ := newBuffer(t, 16)
		_, err := buff.WriteString("Hello!")
		require.NoError(t, err)
		buff.Truncate(5)
		require.Equal(t, "Hello", string(buff.Bytes()))
		buff.Truncate(100)
		require.Equal(t, "Hello", string(buff.Bytes()))
		buff.Truncate(-1)
		require.Zero(t, buff.Len())
	})

	t.Run("zero", func(t *testing.T) {
		buff, _ := newBuffer(t, 8)
		_, err := buff.WriteString("garbage")
		require.NoError(t, err)
		buff.Zero()
		require.Equal(t, make([]byte, 7), buff.Bytes())
		require.Equal(t, make([]byte, 8), buff.Bytes()[:buff.Cap()])
	})

	t.Run("free", func(t *testing.T) {
		buff, ledger := newBuffer(t, 8)
		buff.Free()
		require.Zero(t, ledger.Live())
		require.ErrorIs(t, buff.WriteByte('a'), ErrFreed)
		_, err := buff.WriteString("a")
		require.ErrorIs(t, err, ErrFreed)
		require.ErrorIs(t, buff.Writef("a"), ErrFreed)
		buff.Free()
		require.Zero(t, ledger.Live())
	})
}

func FuzzBufferBounds(f *testing.F) {
	f.Add(uint16(64), []byte("HTTP/1.1 200 OK\r\n\r\n"))
	f.Add(uint16(1), []byte("ab"))
	f.Add(uint16(7), []byte{})

	f.Fuzz(func(t *testing.T, capacity uint16, data []byte) {
		if capacity == 0 {
			return
		}

		buff, _ := newBuffer(t, int(capacity))
		var written int

		// split data into chunks of varying sizes and feed them through every write flavour
		for i := 0; len(data) > 0; i++ {
			size := min(len(data), i%5+1)
			chunk := data[:size]
			data = data[size:]

			var err error
			switch i % 4 {
			case 0:
				_, err = buff.Write(chunk)
			case 1:
				_, err = buff.WriteString(string(chunk))
			case 2:
				err = buff.WriteByte(chunk[0])
				size = 1
			case 3:
				err = buff.Writef("%x", chunk)
				size = 2 * len(chunk)
			}

			if written+size > int(capacity) {
				require.ErrorIs(t, err, ErrOverflow)
			} else {
				require.NoError(t, err)
				written += size
			}

			require.Equal(t, written, buff.Len())
			require.LessOrEqual(t, buff.Len(), buff.Cap())
			require.Equal(t, int(capacity), buff.Cap())
		}
	})
}
