package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/api/internal/application/services"
	"github.com/taskboard/api/internal/domain/entities"
	"github.com/taskboard/api/internal/infrastructure/logger"
	"github.com/taskboard/api/internal/ports"
)

// TaskHandler validates and persists task CRUD requests
type TaskHandler struct {
	tasks  ports.TaskRepository
	auth   *services.AuthService
	logger *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks ports.TaskRepository, auth *services.AuthService, log *logger.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		auth:   auth,
		logger: log.WithComponent("tasks"),
	}
}

type createTaskPayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	AssignedTo  string  `json:"assignedTo"`
}

type updateTaskPayload struct {
	ID          *string `json:"id"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
	AssignedTo  string  `json:"assignedTo"`
}

// List returns all tasks
func (h *TaskHandler) List(ctx context.Context, req Request) Response {
	if resp, authed := requireAuth(h.auth, h.logger, req); !authed {
		return resp
	}

	tasks, err := h.tasks.FindAll(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve tasks")
		return storageErrorResponse("Error retrieving tasks", err)
	}

	return BuildResponse(http.StatusOK, tasks)
}

// Create validates the payload and persists a new task. Validation rules run
// in fixed order: required-fields presence, title, description, status.
func (h *TaskHandler) Create(ctx context.Context, req Request) Response {
	if resp, authed := requireAuth(h.auth, h.logger, req); !authed {
		return resp
	}

	var payload createTaskPayload
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		return messageResponse(http.StatusBadRequest, "Invalid request body")
	}

	if payload.Title == nil || payload.Description == nil || payload.Status == nil {
		return messageResponse(http.StatusBadRequest, "Missing required fields: title, description, and status")
	}

	title := strings.TrimSpace(*payload.Title)
	if title == "" {
		return messageResponse(http.StatusBadRequest, "Invalid title. It must be a non-empty string.")
	}

	description := strings.TrimSpace(*payload.Description)
	if description == "" {
		return messageResponse(http.StatusBadRequest, "Invalid description. It must be a non-empty string.")
	}

	status := entities.TaskStatus(*payload.Status)
	if !status.IsValid() {
		return messageResponse(http.StatusBadRequest, "Invalid status. It must be one of: 'todo', 'inProgress', 'completed'.")
	}

	now := entities.Timestamp(time.Now())
	task := entities.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Status:      status,
		AssignedTo:  payload.AssignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.tasks.Insert(ctx, task); err != nil {
		h.logger.WithError(err).Error("Failed to create task")
		return storageErrorResponse("Error creating task", err)
	}

	h.logger.Infow("Task created", "task_id", task.ID)
	return BuildResponse(http.StatusCreated, map[string]string{
		"message": "Task created",
		"task_id": task.ID,
	})
}

// Update overwrites status, description, assignedTo and updatedAt
// unconditionally; callers resend all mutable fields each time.
func (h *TaskHandler) Update(ctx context.Context, req Request) Response {
	if resp, authed := requireAuth(h.auth, h.logger, req); !authed {
		return resp
	}

	var payload updateTaskPayload
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		return messageResponse(http.StatusBadRequest, "Invalid request body")
	}

	if payload.ID == nil {
		return messageResponse(http.StatusBadRequest, "Missing required fields: id")
	}

	id := strings.TrimSpace(*payload.ID)
	if id == "" {
		return messageResponse(http.StatusBadRequest, "Invalid id. It must be a non-empty string.")
	}

	update := ports.TaskUpdate{
		Status:      entities.TaskStatus(payload.Status),
		Description: strings.TrimSpace(payload.Description),
		AssignedTo:  strings.TrimSpace(payload.AssignedTo),
		UpdatedAt:   entities.Timestamp(time.Now()),
	}

	matched, err := h.tasks.Update(ctx, id, update)
	if err != nil {
		h.logger.WithError(err).Error("Failed to update task")
		return storageErrorResponse("Error updating task", err)
	}
	if !matched {
		return messageResponse(http.StatusNotFound, "Task not found")
	}

	return messageResponse(http.StatusOK, "Task updated")
}

// Delete removes the task named by the id query parameter
func (h *TaskHandler) Delete(ctx context.Context, req Request) Response {
	if resp, authed := requireAuth(h.auth, h.logger, req); !authed {
		return resp
	}

	id, ok := req.QueryStringParameters["id"]
	if !ok {
		return messageResponse(http.StatusBadRequest, "Missing required query parameter: id")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return messageResponse(http.StatusBadRequest, "Invalid id. It must be a non-empty string.")
	}

	deleted, err := h.tasks.Delete(ctx, id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to delete task")
		return storageErrorResponse("Error deleting task", err)
	}
	if !deleted {
		return messageResponse(http.StatusNotFound, "Task not found")
	}

	return messageResponse(http.StatusOK, "Task deleted")
}

// requireAuth verifies the cookie credential before any persistence call.
// On failure it returns the 401 envelope and authed=false.
func requireAuth(auth *services.AuthService, log *logger.Logger, req Request) (Response, bool) {
	err := auth.VerifyCookie(req.Headers["Cookie"])
	if err != nil {
		log.LogSecurityEvent("credential_rejected", err.Error())
		return authFailure(err), false
	}
	return Response{}, true
}
