package status

import (
	"errors"

	"github.com/indigo-web/okstub/internal/byteview"
)

type Code uint16

// HTTP status codes the stub is able to answer with. See:
// https://www.iana.org/assignments/http-status-codes/http-status-codes.xhtml
const (
	OK                  Code = 200 // RFC 9110, 15.3.1
	NoContent           Code = 204 // RFC 9110, 15.3.5
	BadRequest          Code = 400 // RFC 9110, 15.5.1
	NotFound            Code = 404 // RFC 9110, 15.5.5
	InternalServerError Code = 500 // RFC 9110, 15.6.1
	ServiceUnavailable  Code = 503 // RFC 9110, 15.6.4
)

// ErrUnknownStatus is returned for codes without a reason phrase. Such a code is always
// a programming error, so nothing is written for it at all.
var ErrUnknownStatus = errors.New("status code has no known reason phrase")

var reasons = map[Code]byteview.View{
	OK:                  byteview.New("OK"),
	NoContent:           byteview.New("No Content"),
	BadRequest:          byteview.New("Bad Request"),
	NotFound:            byteview.New("Not Found"),
	InternalServerError: byteview.New("Internal Server Error"),
	ServiceUnavailable:  byteview.New("Service Unavailable"),
}

// Text returns the canonical reason phrase for the code. The second value is false if the
// code is unknown.
func Text(code Code) (byteview.View, bool) {
	reason, found := reasons[code]
	return reason, found
}
