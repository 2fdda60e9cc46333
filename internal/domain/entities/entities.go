package entities

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrUserNotFound = errors.New("user not found")
)

// TaskStatus enumerates the states a task can be in. The status is freely
// settable; there is no workflow constraint between the values.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "inProgress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// IsValid reports whether the status is one of the known enum values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task represents a task document. The id field is generated server-side and
// is immutable; the Mongo storage identifier (_id) is never exposed.
type Task struct {
	ID          string     `json:"id" bson:"id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	Status      TaskStatus `json:"status" bson:"status"`
	AssignedTo  string     `json:"assignedTo" bson:"assignedTo"`
	CreatedAt   string     `json:"createdAt" bson:"createdAt"`
	UpdatedAt   string     `json:"updatedAt" bson:"updatedAt"`
}

// User represents a user document. The password field holds a one-way hash
// and is excluded from every serialized read.
type User struct {
	ID        string `json:"id" bson:"id"`
	Name      string `json:"name" bson:"name"`
	Email     string `json:"email" bson:"email"`
	Password  string `json:"-" bson:"password"`
	CreatedAt string `json:"createdAt" bson:"createdAt"`
	UpdatedAt string `json:"updatedAt" bson:"updatedAt"`
}

// Timestamp formats t the way documents store timestamps (ISO-8601, UTC).
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
