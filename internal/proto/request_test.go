package proto

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseRequest_Valid(t *testing.T) {
	raw := []byte("GET /index HTTP/1.1\r\nHost:example\r\nAccept:*/*\r\n\r\n")

	req, err := ParseRequest(raw)
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}

	if req.Method != "GET" {
		t.Errorf("Method = %q, want %q", req.Method, "GET")
	}
	if req.Target != "/index" {
		t.Errorf("Target = %q, want %q", req.Target, "/index")
	}
	if req.Version != "HTTP/1.1" {
		t.Errorf("Version = %q, want %q", req.Version, "HTTP/1.1")
	}
	if len(req.Headers) != 2 {
		t.Errorf("len(Headers) = %d, want 2", len(req.Headers))
	}
	if len(req.Body) != 0 {
		t.Errorf("Body = %q, want empty", req.Body)
	}
}

func TestParseRequest_NoDelimiter(t *testing.T) {
	_, err := ParseRequest([]byte("GET / HTTP/1.1"))
	if !errors.Is(err, ErrMalformedRequest) {
		t.Errorf("ParseRequest() error = %v, want ErrMalformedRequest", err)
	}
}

func TestParseRequest_RequestLineTokenCount(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"two tokens", "GET /"},
		{"four tokens", "GET / HTTP/1.1 extra"},
		{"double space", "GET  / HTTP/1.1"},
		{"empty line", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []byte(tt.line + "\r\nHost:x\r\n\r\n")
			_, err := ParseRequest(raw)
			if !errors.Is(err, ErrMalformedRequest) {
				t.Errorf("ParseRequest(%q) error = %v, want ErrMalformedRequest", tt.line, err)
			}
		})
	}
}

func TestParseRequest_HeaderCountMatchesLines(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E"}
	var sb strings.Builder
	sb.WriteString("GET / HTTP/1.1\r\n")
	for _, name := range names {
		sb.WriteString(name + ":value-" + name + "\r\n")
	}
	sb.WriteString("\r\n")

	req, err := ParseRequest([]byte(sb.String()))
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	if len(req.Headers) != len(names) {
		t.Fatalf("len(Headers) = %d, want %d", len(req.Headers), len(names))
	}
	for _, name := range names {
		if got := req.Headers[name]; got != "value-"+name {
			t.Errorf("Headers[%q] = %q, want %q", name, got, "value-"+name)
		}
	}
}

func TestParseRequest_ValuePreservedAfterFirstColon(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		header string
		want   string
	}{
		{"leading space kept", "Host: example", "Host", " example"},
		{"no space", "Host:example", "Host", "example"},
		{"colons in value", "Referer:http://a/b", "Referer", "http://a/b"},
		{"trailing space kept", "Accept:*/* ", "Accept", "*/* "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []byte("GET / HTTP/1.1\r\n" + tt.line + "\r\n\r\n")
			req, err := ParseRequest(raw)
			if err != nil {
				t.Fatalf("ParseRequest() error = %v", err)
			}
			if got := req.Headers[tt.header]; got != tt.want {
				t.Errorf("Headers[%q] = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestParseRequest_DuplicateHeaderOverwrites(t *testing.T) {
	raw := []byte("GET / HTTP/1.1\r\nHost:first\r\nHost:second\r\n\r\n")

	req, err := ParseRequest(raw)
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	if len(req.Headers) != 1 {
		t.Errorf("len(Headers) = %d, want 1", len(req.Headers))
	}
	if got := req.Headers["Host"]; got != "second" {
		t.Errorf("Headers[Host] = %q, want %q", got, "second")
	}
}

func TestParseRequest_HeaderWithoutColon(t *testing.T) {
	raw := []byte("GET / HTTP/1.1\r\nNoColonHere\r\n\r\n")

	req, err := ParseRequest(raw)
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	got, ok := req.Headers["NoColonHere"]
	if !ok {
		t.Fatal("header without colon not recorded")
	}
	if got != "" {
		t.Errorf("Headers[NoColonHere] = %q, want empty value", got)
	}
}

func TestParseRequest_Body(t *testing.T) {
	raw := []byte("POST /submit HTTP/1.1\r\nHost:x\r\n\r\npayload bytes")

	req, err := ParseRequest(raw)
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	if !bytes.Equal(req.Body, []byte("payload bytes")) {
		t.Errorf("Body = %q, want %q", req.Body, "payload bytes")
	}
}

func TestParseRequest_NoHeaders(t *testing.T) {
	req, err := ParseRequest([]byte("GET /missing HTTP/1.1\r\n\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	if len(req.Headers) != 0 {
		t.Errorf("len(Headers) = %d, want 0", len(req.Headers))
	}
	if req.Target != "/missing" {
		t.Errorf("Target = %q, want %q", req.Target, "/missing")
	}
}
