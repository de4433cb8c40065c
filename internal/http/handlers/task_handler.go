package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"taskhub/internal/apperr"
	applog "taskhub/internal/log"
	"taskhub/internal/services"
	"taskhub/internal/validate"
)

type TaskHandler struct {
	Tasks *services.TaskService
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	tasks, err := h.Tasks.List(c.UserContext(), identity(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "count": len(tasks), "data": tasks})
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.New(apperr.KindValidation, "Invalid task id")
	}
	task, err := h.Tasks.Get(c.UserContext(), id, identity(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": task})
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var req createTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid JSON body")
	}
	title, ok := validate.Title(req.Title)
	if !ok {
		return apperr.New(apperr.KindValidation, "Title must be between 1 and 200 characters")
	}
	description, ok := validate.Description(req.Description)
	if !ok {
		return apperr.New(apperr.KindValidation, "Description must not exceed 1000 characters")
	}
	status := req.Status
	if status != "" {
		if status, ok = validate.Status(status); !ok {
			return apperr.New(apperr.KindValidation, "Status must be pending, in-progress, or completed")
		}
	}

	task, err := h.Tasks.Create(c.UserContext(), title, description, status, identity(c))
	if err != nil {
		return err
	}
	applog.Audit(c, "task.create", map[string]any{"task_id": task.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": task})
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.New(apperr.KindValidation, "Invalid task id")
	}

	// The update body merges field-by-field onto the stored record, so it
	// is parsed as a document rather than a fixed shape.
	var body map[string]any
	if err := json.Unmarshal(c.Body(), &body); err != nil || body == nil {
		return apperr.New(apperr.KindValidation, "Invalid JSON body")
	}
	if v, present := body["title"]; present {
		s, isStr := v.(string)
		title, ok := validate.Title(s)
		if !isStr || !ok {
			return apperr.New(apperr.KindValidation, "Title must be between 1 and 200 characters")
		}
		body["title"] = title
	}
	if v, present := body["description"]; present {
		s, isStr := v.(string)
		description, ok := validate.Description(s)
		if !isStr || !ok {
			return apperr.New(apperr.KindValidation, "Description must not exceed 1000 characters")
		}
		body["description"] = description
	}
	if v, present := body["status"]; present {
		s, isStr := v.(string)
		status, ok := validate.Status(s)
		if !isStr || !ok {
			return apperr.New(apperr.KindValidation, "Status must be pending, in-progress, or completed")
		}
		body["status"] = status
	}

	task, err := h.Tasks.Update(c.UserContext(), id, body, identity(c))
	if err != nil {
		return err
	}
	applog.Audit(c, "task.update", map[string]any{"task_id": task.ID})
	return c.JSON(fiber.Map{"success": true, "data": task})
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.New(apperr.KindValidation, "Invalid task id")
	}
	if err := h.Tasks.Delete(c.UserContext(), id, identity(c)); err != nil {
		return err
	}
	applog.Audit(c, "task.delete", map[string]any{"task_id": id})
	return c.JSON(fiber.Map{"success": true, "message": "Task deleted successfully"})
}
