package ports

import (
	"context"

	"github.com/taskboard/api/internal/domain/entities"
)

// TaskUpdate carries the fields a task update overwrites. Every mutable field
// is written unconditionally; callers resend the full payload on each update.
type TaskUpdate struct {
	Status      entities.TaskStatus
	Description string
	AssignedTo  string
	UpdatedAt   string
}

// UserUpdate carries the fields a user update overwrites.
type UserUpdate struct {
	Name      string
	Email     string
	UpdatedAt string
}

// TaskRepository defines the persistence contract for tasks. Implementations
// return storage failures as plain errors; match/delete outcomes are values.
type TaskRepository interface {
	FindAll(ctx context.Context) ([]entities.Task, error)
	Insert(ctx context.Context, task entities.Task) error
	Update(ctx context.Context, id string, update TaskUpdate) (matched bool, err error)
	Delete(ctx context.Context, id string) (deleted bool, err error)
}

// UserRepository defines the persistence contract for users. FindByEmail
// returns entities.ErrUserNotFound when no document matches.
type UserRepository interface {
	FindAll(ctx context.Context) ([]entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	Insert(ctx context.Context, user entities.User) error
	Update(ctx context.Context, id string, update UserUpdate) (modified bool, err error)
	Delete(ctx context.Context, id string) (deleted bool, err error)
}
