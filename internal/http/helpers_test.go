package handlers_test

import (
	"encoding/json"
	"io"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"taskhub/internal/config"
	"taskhub/internal/http/handlers"
	"taskhub/internal/recordstore"
)

// startStoreURL boots the bundled record store on an ephemeral port.
func startStoreURL(t *testing.T) string {
	t.Helper()
	db, err := recordstore.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	app := recordstore.New(db)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func testConfig(storeURL string) config.Config {
	return config.Config{
		Port:         "0",
		Env:          "test",
		JWTSecret:    "test-secret",
		JWTExpire:    time.Hour,
		StoreURL:     storeURL,
		StoreTimeout: 5 * time.Second,
		CORSOrigin:   "*",
		BcryptCost:   10,
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := testConfig(startStoreURL(t))
	return handlers.NewApp(cfg, handlers.NewDeps(cfg))
}

// doJSON fires one request and decodes the response envelope.
func doJSON(t *testing.T, app *fiber.App, method, path, token, body string) (int, string, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var envelope map[string]any
	_ = json.Unmarshal(raw, &envelope)
	return resp.StatusCode, string(raw), envelope
}

// register creates a user through the API and returns their token.
func register(t *testing.T, app *fiber.App, email, password, role string) string {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"`
	if role != "" {
		body += `,"role":"` + role + `"`
	}
	body += `}`
	status, raw, envelope := doJSON(t, app, "POST", "/api/auth/register", "", body)
	if status != fiber.StatusCreated {
		t.Fatalf("register %s: want 201, got %d (%s)", email, status, raw)
	}
	data := envelope["data"].(map[string]any)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatalf("register %s: empty token", email)
	}
	return token
}
