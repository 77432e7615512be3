package proto

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrIncompleteResponse indicates an attempt to serialize a response
// before its status, headers and body were all set. It signals a
// programming error in the caller, not a peer problem.
var ErrIncompleteResponse = errors.New("incomplete response")

// ServerHeader is the name of the identifying header carried on every
// response.
const ServerHeader = "server"

const (
	notFoundBody    = "Not found... :/"
	unavailableBody = "Server closed :/"
)

// Status enumerates the response statuses the server can produce.
// The zero value is invalid; a [Response] cannot serialize until one
// of the defined statuses is set.
type Status int

const (
	// StatusOK is a successful dispatch.
	StatusOK Status = iota + 1

	// StatusNotFound is a miss against the route table.
	StatusNotFound

	// StatusServiceUnavailable is returned once shutdown has begun.
	StatusServiceUnavailable
)

// Code returns the numeric status code.
func (s Status) Code() int {
	switch s {
	case StatusOK:
		return 200
	case StatusNotFound:
		return 404
	case StatusServiceUnavailable:
		return 503
	default:
		return 0
	}
}

// Line returns the full status line for the wire.
func (s Status) Line() string {
	switch s {
	case StatusOK:
		return "HTTP/1.1 200 OK"
	case StatusNotFound:
		return "HTTP/1.1 404 Not Found"
	case StatusServiceUnavailable:
		return "HTTP/1.1 503 Server closed"
	default:
		return ""
	}
}

func (s Status) valid() bool {
	return s == StatusOK || s == StatusNotFound || s == StatusServiceUnavailable
}

// Response is a staged response builder.
//
// A Response is assembled with [Response.SetStatus],
// [Response.SetHeaders] and [Response.SetBody], then serialized with
// [Response.Bytes]. Serialization fails with [ErrIncompleteResponse]
// until all three have been set; an empty body still counts as set.
type Response struct {
	status  Status
	headers map[string]string
	body    []byte
	bodySet bool
}

// NewResponse creates an empty [Response] with nothing set.
func NewResponse() *Response {
	return &Response{}
}

// SetStatus sets the response status.
func (r *Response) SetStatus(s Status) {
	r.status = s
}

// SetHeaders sets the header mapping. The map is used as-is; callers
// must not mutate it afterwards.
func (r *Response) SetHeaders(headers map[string]string) {
	r.headers = headers
}

// SetBody sets the response body. A nil or empty slice is a valid,
// deliberately empty body.
func (r *Response) SetBody(body []byte) {
	r.body = body
	r.bodySet = true
}

// Status returns the status set on the response, or the invalid zero
// value if none was set.
func (r *Response) Status() Status {
	return r.status
}

// Body returns the body set on the response.
func (r *Response) Body() []byte {
	return r.body
}

// Bytes serializes the response into its wire form:
//
//	<status-line>\r\n<header-lines>\r\n\r\n<body>\r\n\r\n
//
// Header lines are emitted in sorted name order so output is
// deterministic. A content-length header for the body is always added
// so peers do not have to rely on connection close to find the end of
// the body; the trailing blank line after the body is still written
// for frame parity with the original protocol.
//
// Returns [ErrIncompleteResponse] if status, headers or body is unset.
func (r *Response) Bytes() ([]byte, error) {
	if !r.status.valid() {
		return nil, fmt.Errorf("%w: status not set", ErrIncompleteResponse)
	}
	if r.headers == nil {
		return nil, fmt.Errorf("%w: headers not set", ErrIncompleteResponse)
	}
	if !r.bodySet {
		return nil, fmt.Errorf("%w: body not set", ErrIncompleteResponse)
	}

	names := make([]string, 0, len(r.headers))
	for name := range r.headers {
		if strings.EqualFold(name, "content-length") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	buf.WriteString(r.status.Line())
	buf.WriteString("\r\n")
	for _, name := range names {
		buf.WriteString(name)
		buf.WriteString(": ")
		buf.WriteString(r.headers[name])
		buf.WriteString("\r\n")
	}
	buf.WriteString("content-length: ")
	buf.WriteString(strconv.Itoa(len(r.body)))
	buf.WriteString("\r\n\r\n")
	buf.Write(r.body)
	buf.WriteString("\r\n\r\n")
	return buf.Bytes(), nil
}

// NotFound returns the canned response for a route miss.
//
// The body is the not-found message but the status line is the 200
// success line: the original server paired its default error message
// with the success status line, and existing clients key off the body
// text rather than the code. The pairing is kept deliberately for
// wire compatibility; callers that want a true 404 can build a
// response with [StatusNotFound] themselves.
func NotFound(serverName string) *Response {
	res := NewResponse()
	res.SetStatus(StatusOK)
	res.SetHeaders(map[string]string{ServerHeader: serverName})
	res.SetBody([]byte(notFoundBody))
	return res
}

// Unavailable returns the canned response served once shutdown has
// begun, regardless of whether the requested route exists.
func Unavailable(serverName string) *Response {
	res := NewResponse()
	res.SetStatus(StatusServiceUnavailable)
	res.SetHeaders(map[string]string{ServerHeader: serverName})
	res.SetBody([]byte(unavailableBody))
	return res
}
