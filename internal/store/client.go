// Package store is a typed client for the record store: an external
// schemaless HTTP resource server (GET/POST/PUT/PATCH/DELETE on named
// collections with server-assigned integer ids). The rest of the system
// never talks to the store's transport directly.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Record is one schemaless document as the store returns it.
type Record map[string]any

// Error is a store transport or server failure. A 404 on id-addressed
// operations is NOT an Error; it is reported as an absent record.
type Error struct {
	Resource string
	Op       string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type Client struct {
	baseURL string
	hc      *http.Client
}

// NewClient builds a client against baseURL with a bounded per-call timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
	}
}

// FindAll returns every record in resource matching filter (exact-match
// field equality). No matches is an empty slice, never an error.
func (c *Client) FindAll(ctx context.Context, resource string, filter map[string]string) ([]Record, error) {
	q := url.Values{}
	for k, v := range filter {
		q.Set(k, v)
	}
	path := "/" + resource
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, &Error{Resource: resource, Op: "findAll", Err: err}
	}
	if status != http.StatusOK {
		return nil, &Error{Resource: resource, Op: "findAll", Err: statusErr(status)}
	}
	var out []Record
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &Error{Resource: resource, Op: "findAll", Err: err}
	}
	return out, nil
}

// FindByID returns the record, or (nil, nil) when the id does not exist.
func (c *Client) FindByID(ctx context.Context, resource string, id int) (Record, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/"+resource+"/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, &Error{Resource: resource, Op: "findById", Err: err}
	}
	switch status {
	case http.StatusOK:
		return decodeRecord(resource, "findById", body)
	case http.StatusNotFound:
		return nil, nil
	}
	return nil, &Error{Resource: resource, Op: "findById", Err: statusErr(status)}
}

// FindByField returns the first record whose field equals value, or
// (nil, nil) when none match. The store guarantees no order, so callers
// must query fields expected to be unique (email, not status).
func (c *Client) FindByField(ctx context.Context, resource, field, value string) (Record, error) {
	records, err := c.FindAll(ctx, resource, map[string]string{field: value})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// Create stores data in resource; the store assigns the id and the
// returned record includes it.
func (c *Client) Create(ctx context.Context, resource string, data Record) (Record, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/"+resource, data)
	if err != nil {
		return nil, &Error{Resource: resource, Op: "create", Err: err}
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return nil, &Error{Resource: resource, Op: "create", Err: statusErr(status)}
	}
	return decodeRecord(resource, "create", body)
}

// Update replaces the record wholesale. Absent id yields (nil, nil).
func (c *Client) Update(ctx context.Context, resource string, id int, data Record) (Record, error) {
	return c.write(ctx, http.MethodPut, resource, "update", id, data)
}

// Patch merges data onto the record. Absent id yields (nil, nil).
func (c *Client) Patch(ctx context.Context, resource string, id int, data Record) (Record, error) {
	return c.write(ctx, http.MethodPatch, resource, "patch", id, data)
}

// Delete reports whether a record was removed; an absent id is
// (false, nil), not an error.
func (c *Client) Delete(ctx context.Context, resource string, id int) (bool, error) {
	status, _, err := c.do(ctx, http.MethodDelete, "/"+resource+"/"+strconv.Itoa(id), nil)
	if err != nil {
		return false, &Error{Resource: resource, Op: "delete", Err: err}
	}
	switch status {
	case http.StatusOK, http.StatusNoContent:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}
	return false, &Error{Resource: resource, Op: "delete", Err: statusErr(status)}
}

func (c *Client) write(ctx context.Context, method, resource, op string, id int, data Record) (Record, error) {
	status, body, err := c.do(ctx, method, "/"+resource+"/"+strconv.Itoa(id), data)
	if err != nil {
		return nil, &Error{Resource: resource, Op: op, Err: err}
	}
	switch status {
	case http.StatusOK:
		return decodeRecord(resource, op, body)
	case http.StatusNotFound:
		return nil, nil
	}
	return nil, &Error{Resource: resource, Op: op, Err: statusErr(status)}
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var rd io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func decodeRecord(resource, op string, body []byte) (Record, error) {
	var out Record
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &Error{Resource: resource, Op: op, Err: err}
	}
	return out, nil
}

func statusErr(status int) error {
	return fmt.Errorf("unexpected status %d", status)
}
