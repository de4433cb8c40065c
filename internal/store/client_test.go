package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskhub/internal/store"
)

// stub record server good enough to exercise the client's contract.
func stubServer(t *testing.T) (*httptest.Server, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, mux
}

func TestFindAllSendsFilterAndDecodes(t *testing.T) {
	srv, mux := stubServer(t)
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("userId"); got != "7" {
			t.Errorf("filter not forwarded, got userId=%q", got)
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "userId": 7}})
	})

	c := store.NewClient(srv.URL, time.Second)
	records, err := c.FindAll(context.Background(), "tasks", map[string]string{"userId": "7"})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0]["userId"].(float64) != 7 {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestFindByIDAbsentIsNilNotError(t *testing.T) {
	srv, mux := stubServer(t)
	mux.HandleFunc("/tasks/99", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	c := store.NewClient(srv.URL, time.Second)
	rec, err := c.FindByID(context.Background(), "tasks", 99)
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if rec != nil {
		t.Fatalf("expected absent record, got %+v", rec)
	}
}

func TestServerFailureCarriesResourceAndOp(t *testing.T) {
	srv, mux := stubServer(t)
	mux.HandleFunc("/tasks/1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c := store.NewClient(srv.URL, time.Second)
	_, err := c.FindByID(context.Background(), "tasks", 1)
	var se *store.Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *store.Error, got %v", err)
	}
	if se.Resource != "tasks" || se.Op != "findById" {
		t.Fatalf("error context wrong: %+v", se)
	}
}

func TestStoreUnreachableIsError(t *testing.T) {
	srv, _ := stubServer(t)
	url := srv.URL
	srv.Close()

	c := store.NewClient(url, 500*time.Millisecond)
	if _, err := c.FindAll(context.Background(), "tasks", nil); err == nil {
		t.Fatal("expected transport error for unreachable store")
	}
}

func TestFindByFieldReturnsFirstMatchOrNil(t *testing.T) {
	srv, mux := stubServer(t)
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("email") == "a@x.com" {
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"id": 1, "email": "a@x.com"},
				{"id": 2, "email": "a@x.com"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{})
	})

	c := store.NewClient(srv.URL, time.Second)
	rec, err := c.FindByField(context.Background(), "users", "email", "a@x.com")
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil || rec["id"].(float64) != 1 {
		t.Fatalf("expected first match, got %+v", rec)
	}

	rec, err = c.FindByField(context.Background(), "users", "email", "nobody@x.com")
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Fatalf("expected nil for no match, got %+v", rec)
	}
}

func TestDeleteDistinguishesRemovedFromAbsent(t *testing.T) {
	srv, mux := stubServer(t)
	mux.HandleFunc("/tasks/1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})
	mux.HandleFunc("/tasks/2", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	c := store.NewClient(srv.URL, time.Second)
	removed, err := c.Delete(context.Background(), "tasks", 1)
	if err != nil || !removed {
		t.Fatalf("expected removed=true, got %v %v", removed, err)
	}
	removed, err = c.Delete(context.Background(), "tasks", 2)
	if err != nil || removed {
		t.Fatalf("expected removed=false without error, got %v %v", removed, err)
	}
}

func TestCreateReturnsAssignedID(t *testing.T) {
	srv, mux := stubServer(t)
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		var doc map[string]any
		_ = json.NewDecoder(r.Body).Decode(&doc)
		doc["id"] = 42
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(doc)
	})

	c := store.NewClient(srv.URL, time.Second)
	rec, err := c.Create(context.Background(), "tasks", store.Record{"title": "T"})
	if err != nil {
		t.Fatal(err)
	}
	if rec["id"].(float64) != 42 || rec["title"] != "T" {
		t.Fatalf("unexpected created record: %+v", rec)
	}
}
