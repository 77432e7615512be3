package config

import (
	"testing"
	"time"

	"github.com/horusproj/horus"
)

func TestBuildRoutes(t *testing.T) {
	cfg, err := Parse([]byte(`
routes:
  - path: /
    body: "hello"
  - path: /index
    body: "fallback"
    file: ./public/index.html
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	routes, err := BuildRoutes(cfg)
	if err != nil {
		t.Fatalf("BuildRoutes() error = %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("len(routes) = %d, want 2", len(routes))
	}

	if routes[0].Path() != "/" {
		t.Errorf("routes[0].Path() = %q, want %q", routes[0].Path(), "/")
	}
	if got := string(routes[0].Handler()()); got != "hello" {
		t.Errorf("routes[0] handler output = %q, want %q", got, "hello")
	}
	if routes[0].StaticFile() != "" {
		t.Errorf("routes[0].StaticFile() = %q, want empty", routes[0].StaticFile())
	}

	if routes[1].StaticFile() != "./public/index.html" {
		t.Errorf("routes[1].StaticFile() = %q, want %q", routes[1].StaticFile(), "./public/index.html")
	}
	if got := string(routes[1].Handler()()); got != "fallback" {
		t.Errorf("routes[1] handler output = %q, want %q", got, "fallback")
	}
}

func TestBuildRoutes_FileOnly(t *testing.T) {
	cfg, err := Parse([]byte(`
routes:
  - path: /static
    file: ./static.txt
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	routes, err := BuildRoutes(cfg)
	if err != nil {
		t.Fatalf("BuildRoutes() error = %v", err)
	}

	// the handler falls back to an empty body when the file is absent
	if got := routes[0].Handler()(); len(got) != 0 {
		t.Errorf("handler output = %q, want empty", got)
	}
}

func TestBuildOptions(t *testing.T) {
	cfg, err := Parse([]byte(`
host: 0.0.0.0
port: 8080
server_name: TestServer
read_timeout: 2s
routes:
  - path: /
    body: "hello"
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	srv, err := horus.New(BuildOptions(cfg)...)
	if err != nil {
		t.Fatalf("New() with built options error = %v", err)
	}
	if srv.Host() != "0.0.0.0" {
		t.Errorf("Host() = %q, want %q", srv.Host(), "0.0.0.0")
	}
	if srv.Port() != 8080 {
		t.Errorf("Port() = %d, want 8080", srv.Port())
	}
	if cfg.ReadTimeout.Duration() != 2*time.Second {
		t.Errorf("ReadTimeout = %s, want 2s", cfg.ReadTimeout.Duration())
	}
}

func TestBuildOptions_DefaultServerName(t *testing.T) {
	cfg, err := Parse([]byte(`
routes:
  - path: /
    body: "hello"
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// server_name absent: the SDK default applies, so no option is built
	opts := BuildOptions(cfg)
	if len(opts) != 4 {
		t.Errorf("len(opts) = %d, want 4", len(opts))
	}
}
