package proto

import "github.com/indigo-web/okstub/internal/byteview"

type Proto uint8

const (
	Unknown Proto = 0
	HTTP10  Proto = 1 << iota
	HTTP11
)

var lut = [...]byteview.View{
	HTTP10: byteview.New("HTTP/1.0"),
	HTTP11: byteview.New("HTTP/1.1"),
}

// View returns the protocol token as it appears on the wire, without any trailing space.
// Unknown protocols result in an empty view.
func (p Proto) View() byteview.View {
	if int(p) >= len(lut) {
		return byteview.View{}
	}

	return lut[p]
}

func (p Proto) String() string {
	return p.View().String()
}
