package http1

import (
	"github.com/indigo-web/okstub/http/proto"
	"github.com/indigo-web/okstub/http/status"
	"github.com/indigo-web/okstub/internal/buffer"
	"github.com/indigo-web/okstub/internal/byteview"
)

const (
	space = ' '
	// crlf terminates the status line, the second one closes the empty headers block
	headersEnd = "\r\n\r\n"
)

// Header is everything a response consists of. It lives only while it's being serialized.
type Header struct {
	Proto byteview.View
	Code  status.Code
}

// OK returns the header of the canonical response.
func OK() Header {
	return Header{
		Proto: proto.HTTP11.View(),
		Code:  status.OK,
	}
}

// WriteResponseHeader renders the status line followed by an empty headers block. Either the
// whole response is written, or the buffer is left exactly as it was before the call.
func WriteResponseHeader(buff *buffer.Buffer, header Header) error {
	reason, ok := status.Text(header.Code)
	if !ok {
		return status.ErrUnknownStatus
	}

	mark := buff.Len()
	if err := writeStatusLine(buff, header.Proto, header.Code, reason); err != nil {
		buff.Truncate(mark)
		return err
	}

	return nil
}

func writeStatusLine(buff *buffer.Buffer, protocol byteview.View, code status.Code, reason byteview.View) error {
	if _, err := buff.Write(protocol.Bytes()); err != nil {
		return err
	}

	if err := buff.WriteByte(space); err != nil {
		return err
	}

	if err := buff.Writef("%d ", code); err != nil {
		return err
	}

	if _, err := buff.Write(reason.Bytes()); err != nil {
		return err
	}

	_, err := buff.WriteString(headersEnd)
	return err
}
