// Package recordstore is a schemaless HTTP resource server over SQLite:
// named collections of JSON documents with per-collection auto-assigned
// integer ids. It is the persistence backend the API server talks to via
// internal/store, bundled for local development and tests.
package recordstore

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// OpenDB opens the backing database and ensures the schema. A single
// connection keeps ":memory:" DSNs coherent and serializes writers.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS records(
  resource TEXT NOT NULL,
  id INTEGER NOT NULL,
  doc TEXT NOT NULL,
  PRIMARY KEY(resource, id)
);`); err != nil {
		return nil, err
	}
	return db, nil
}

type Server struct {
	db *sqlx.DB
}

// New mounts the resource routes on a fresh fiber app.
func New(db *sqlx.DB) *fiber.App {
	s := &Server{db: db}
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Get("/:resource", s.list)
	app.Post("/:resource", s.create)
	app.Get("/:resource/:id", s.get)
	app.Put("/:resource/:id", s.replace)
	app.Patch("/:resource/:id", s.merge)
	app.Delete("/:resource/:id", s.remove)

	return app
}

func (s *Server) list(c *fiber.Ctx) error {
	var docs []string
	err := s.db.Select(&docs, `SELECT doc FROM records WHERE resource=? ORDER BY id`, c.Params("resource"))
	if err != nil {
		return fiber.ErrInternalServerError
	}

	filter := map[string]string{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		filter[string(k)] = string(v)
	})

	out := make([]map[string]any, 0, len(docs))
	for _, raw := range docs {
		var doc map[string]any
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return fiber.ErrInternalServerError
		}
		if matches(doc, filter) {
			out = append(out, doc)
		}
	}
	return c.JSON(out)
}

func (s *Server) get(c *fiber.Ctx) error {
	doc, _, err := s.fetch(c)
	if err != nil {
		return err
	}
	return c.JSON(doc)
}

func (s *Server) create(c *fiber.Ctx) error {
	doc, err := parseBody(c)
	if err != nil {
		return err
	}
	resource := c.Params("resource")

	tx, err := s.db.Beginx()
	if err != nil {
		return fiber.ErrInternalServerError
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	if err := tx.Get(&next, `SELECT COALESCE(MAX(id),0)+1 FROM records WHERE resource=?`, resource); err != nil {
		return fiber.ErrInternalServerError
	}
	doc["id"] = next
	raw, err := json.Marshal(doc)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	if _, err := tx.Exec(`INSERT INTO records(resource,id,doc) VALUES(?,?,?)`, resource, next, string(raw)); err != nil {
		return fiber.ErrInternalServerError
	}
	if err := tx.Commit(); err != nil {
		return fiber.ErrInternalServerError
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (s *Server) replace(c *fiber.Ctx) error {
	return s.write(c, false)
}

func (s *Server) merge(c *fiber.Ctx) error {
	return s.write(c, true)
}

func (s *Server) write(c *fiber.Ctx, partial bool) error {
	existing, id, err := s.fetch(c)
	if err != nil {
		return err
	}
	body, err := parseBody(c)
	if err != nil {
		return err
	}

	doc := body
	if partial {
		doc = existing
		for k, v := range body {
			doc[k] = v
		}
	}
	// The id is addressed by the URL and can never be rewritten.
	doc["id"] = id

	raw, err := json.Marshal(doc)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	if _, err := s.db.Exec(`UPDATE records SET doc=? WHERE resource=? AND id=?`,
		string(raw), c.Params("resource"), id); err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(doc)
}

func (s *Server) remove(c *fiber.Ctx) error {
	_, id, err := s.fetch(c)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM records WHERE resource=? AND id=?`, c.Params("resource"), id); err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{})
}

// fetch loads the addressed document or fails with 404.
func (s *Server) fetch(c *fiber.Ctx) (map[string]any, int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, 0, fiber.NewError(fiber.StatusNotFound)
	}
	var raw string
	if err := s.db.Get(&raw, `SELECT doc FROM records WHERE resource=? AND id=?`, c.Params("resource"), id); err != nil {
		return nil, 0, fiber.NewError(fiber.StatusNotFound)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, 0, fiber.ErrInternalServerError
	}
	return doc, id, nil
}

func parseBody(c *fiber.Ctx) (map[string]any, error) {
	doc := map[string]any{}
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &doc); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
		}
	}
	return doc, nil
}

// matches applies json-server style equality filters: every query param
// must equal the stringified top-level field of the document.
func matches(doc map[string]any, filter map[string]string) bool {
	for field, want := range filter {
		v, ok := doc[field]
		if !ok || stringify(v) != want {
			return false
		}
	}
	return true
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	}
	b, _ := json.Marshal(v)
	return string(b)
}
