package proto

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRequest indicates that a raw buffer could not be parsed
// into a request. It is local to a single connection; the caller is
// expected to answer with a generic failure response and close.
var ErrMalformedRequest = errors.New("malformed request")

// headerDelimiter separates the header block from the body.
var headerDelimiter = []byte("\r\n\r\n")

// Request is the parsed form of one inbound HTTP/1.1 message.
//
// Method, Target and Version are always non-empty once a buffer parses
// successfully. Headers maps names to values with duplicate names
// overwriting earlier ones; insertion order is not preserved. Body may
// be empty.
type Request struct {
	// Method is the first token of the request line (e.g. "GET").
	Method string

	// Target is the request path, matched exactly against routes.
	Target string

	// Version is the protocol token (e.g. "HTTP/1.1").
	Version string

	// Headers maps header names to values. Values keep every byte
	// after the first colon: "Host: x" parses to value " x". This
	// no-trim rule is deliberate wire parity, not an accident.
	Headers map[string]string

	// Body is everything after the blank-line delimiter.
	Body []byte
}

// ParseRequest parses a raw buffer containing at least one full header
// block into a [Request].
//
// The buffer is split on the first blank-line delimiter (CRLF CRLF)
// into a header block and a body remainder. The first header-block
// line must split on single spaces into exactly three tokens; each
// remaining line is split on its first colon into a name and an
// untrimmed value. A line without a colon becomes a header with an
// empty value.
//
// Returns [ErrMalformedRequest] if the delimiter is absent (which also
// covers a request larger than the caller's read buffer) or if the
// request line does not have exactly three tokens.
func ParseRequest(buf []byte) (*Request, error) {
	head, body, found := bytes.Cut(buf, headerDelimiter)
	if !found {
		return nil, fmt.Errorf("%w: no blank-line delimiter", ErrMalformedRequest)
	}

	lines := strings.Split(string(head), "\r\n")
	fields := strings.Split(lines[0], " ")
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: request line %q", ErrMalformedRequest, lines[0])
	}

	headers := make(map[string]string, len(lines)-1)
	for _, line := range lines[1:] {
		name, value, _ := strings.Cut(line, ":")
		headers[name] = value
	}

	return &Request{
		Method:  fields[0],
		Target:  fields[1],
		Version: fields[2],
		Headers: headers,
		Body:    body,
	}, nil
}
