package handlers_test

import (
	"net"
	"net/http"
	"strings"
	"testing"

	"taskhub/internal/http/handlers"
)

// A dead record store must surface as a 500 with the resource and
// operation named, never the transport error text.
func TestStoreFailureIsGeneric500(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	deadURL := "http://" + ln.Addr().String()
	_ = ln.Close()

	cfg := testConfig(deadURL)
	app := handlers.NewApp(cfg, handlers.NewDeps(cfg))

	status, raw, envelope := doJSON(t, app, "POST", "/api/auth/register", "",
		`{"email":"a@x.com","password":"secret1"}`)
	if status != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d (%s)", status, raw)
	}
	if envelope["success"] != false {
		t.Fatalf("error envelope malformed: %s", raw)
	}
	msg, _ := envelope["message"].(string)
	if !strings.Contains(msg, "users") {
		t.Fatalf("message must name the resource: %q", msg)
	}
	if strings.Contains(raw, "refused") || strings.Contains(raw, "127.0.0.1") {
		t.Fatalf("transport internals leaked: %s", raw)
	}
}

func TestUnknownRouteIs404JSON(t *testing.T) {
	app := newTestApp(t)
	status, raw, envelope := doJSON(t, app, "GET", "/api/nope", "", "")
	if status != http.StatusNotFound {
		t.Fatalf("want 404, got %d", status)
	}
	msg, _ := envelope["message"].(string)
	if !strings.Contains(msg, "/api/nope") {
		t.Fatalf("route not echoed: %s", raw)
	}
}

func TestHealthIsOpen(t *testing.T) {
	app := newTestApp(t)
	status, raw, envelope := doJSON(t, app, "GET", "/health", "", "")
	if status != http.StatusOK {
		t.Fatalf("want 200, got %d", status)
	}
	if envelope["message"] != "Server is running" || envelope["timestamp"] == nil {
		t.Fatalf("unexpected health payload: %s", raw)
	}
}
