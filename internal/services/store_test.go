package services_test

import (
	"net"
	"testing"
	"time"

	"taskhub/internal/recordstore"
	"taskhub/internal/store"
)

// startStore runs the bundled record store on an ephemeral port and
// returns a client for it, the way the original test harness booted a
// throwaway resource server per suite.
func startStore(t *testing.T) *store.Client {
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

	return store.NewClient("http://"+ln.Addr().String(), 5*time.Second)
}
