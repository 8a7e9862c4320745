package byteview

import "github.com/indigo-web/utils/uf"

// View is a read-only window over immutable bytes. It never owns the memory it points to,
// so its lifetime is tied to the literal or buffer it was built from.
type View struct {
	data string
}

func New(s string) View {
	return View{data: s}
}

// Len returns the view's length in bytes
func (v View) Len() int {
	return len(v.data)
}

// Bytes returns the underlying bytes without copying them. The returned slice MUST NOT be
// modified.
func (v View) Bytes() []byte {
	return uf.S2B(v.data)
}

func (v View) String() string {
	return v.data
}

func (v View) Empty() bool {
	return len(v.data) == 0
}
