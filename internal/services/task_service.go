package services

import (
	"context"
	"strconv"
	"time"

	"taskhub/internal/apperr"
	"taskhub/internal/domain"
	"taskhub/internal/store"
)

const tasksResource = "tasks"

// TaskService enforces the ownership invariant around every task
// operation: a task is visible and mutable only to its owner or to an
// admin identity.
type TaskService struct {
	Store *store.Client
}

func NewTaskService(st *store.Client) *TaskService {
	return &TaskService{Store: st}
}

// List returns every task for admins and only owned tasks for everyone
// else. No tasks is an empty slice.
func (s *TaskService) List(ctx context.Context, ident domain.Identity) ([]domain.Task, error) {
	var filter map[string]string
	if !ident.IsAdmin() {
		filter = map[string]string{"userId": strconv.Itoa(ident.UserID)}
	}
	records, err := s.Store.FindAll(ctx, tasksResource, filter)
	if err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, domain.TaskFromRecord(rec))
	}
	return tasks, nil
}

// Get fetches a task after the existence and ownership checks. Absence
// is NotFound; a non-owner without the admin role gets Forbidden. The
// existence check runs first, so an authenticated non-owner can tell
// "exists" apart from "absent".
func (s *TaskService) Get(ctx context.Context, id int, ident domain.Identity) (domain.Task, error) {
	rec, err := s.authorize(ctx, id, ident)
	if err != nil {
		return domain.Task{}, err
	}
	return domain.TaskFromRecord(rec), nil
}

// Create stores a new task owned by the caller. Any userId in data is
// discarded: ownership cannot be spoofed at creation.
func (s *TaskService) Create(ctx context.Context, title, description, status string, ident domain.Identity) (domain.Task, error) {
	if status == "" {
		status = domain.StatusPending
	}
	now := time.Now().UTC().Format(time.RFC3339)
	rec, err := s.Store.Create(ctx, tasksResource, store.Record{
		"title":       title,
		"description": description,
		"status":      status,
		"userId":      ident.UserID,
		"createdAt":   now,
		"updatedAt":   now,
	})
	if err != nil {
		return domain.Task{}, err
	}
	return domain.TaskFromRecord(rec), nil
}

// Update merges data onto the existing record after the same
// existence+ownership check as Get, and always re-stamps updatedAt. The
// record id can never change; any other field in data, userId included,
// wins over the stored value.
func (s *TaskService) Update(ctx context.Context, id int, data map[string]any, ident domain.Identity) (domain.Task, error) {
	existing, err := s.authorize(ctx, id, ident)
	if err != nil {
		return domain.Task{}, err
	}

	merged := store.Record{}
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range data {
		merged[k] = v
	}
	delete(merged, "id")
	merged["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	rec, err := s.Store.Update(ctx, tasksResource, id, merged)
	if err != nil {
		return domain.Task{}, err
	}
	if rec == nil {
		// deleted between the check and the write
		return domain.Task{}, apperr.New(apperr.KindNotFound, "Task not found")
	}
	return domain.TaskFromRecord(rec), nil
}

// Delete removes the task after the same existence+ownership check.
func (s *TaskService) Delete(ctx context.Context, id int, ident domain.Identity) error {
	if _, err := s.authorize(ctx, id, ident); err != nil {
		return err
	}
	removed, err := s.Store.Delete(ctx, tasksResource, id)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.New(apperr.KindNotFound, "Task not found")
	}
	return nil
}

// authorize loads the task record and gates it on the ownership
// invariant. Every read, update and delete goes through here.
func (s *TaskService) authorize(ctx context.Context, id int, ident domain.Identity) (store.Record, error) {
	rec, err := s.Store.FindByID(ctx, tasksResource, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperr.New(apperr.KindNotFound, "Task not found")
	}
	if !ident.IsAdmin() && domain.TaskFromRecord(rec).UserID != ident.UserID {
		return nil, apperr.New(apperr.KindForbidden, "Not authorized to access this task")
	}
	return rec, nil
}
