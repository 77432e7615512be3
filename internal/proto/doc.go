// Package proto implements the wire layer of the horus server: parsing
// raw request bytes into structured requests and serializing responses
// into the fixed CRLF framing the server speaks.
//
// The package is internal to horus and deliberately covers only the
// simplified HTTP/1.1 subset the server supports: a three-token request
// line, colon-separated headers, a blank-line delimiter, and an
// optional body. Keep-alive, chunked transfer and pipelining are out of
// scope.
package proto
