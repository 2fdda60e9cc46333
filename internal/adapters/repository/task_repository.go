package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskboard/api/internal/domain/entities"
	"github.com/taskboard/api/internal/infrastructure/database"
	"github.com/taskboard/api/internal/ports"
)

// TaskRepository is the Mongo-backed implementation of ports.TaskRepository
type TaskRepository struct {
	collection *mongo.Collection
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{collection: db.Collection("tasks")}
}

// FindAll returns every task, omitting the storage identifier
func (r *TaskRepository) FindAll(ctx context.Context) ([]entities.Task, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 0})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []entities.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	return tasks, nil
}

// Insert stores a new task document
func (r *TaskRepository) Insert(ctx context.Context, task entities.Task) error {
	if _, err := r.collection.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of the task with the given id. It
// reports whether a document matched the id.
func (r *TaskRepository) Update(ctx context.Context, id string, update ports.TaskUpdate) (bool, error) {
	set := bson.M{
		"status":      update.Status,
		"description": update.Description,
		"assignedTo":  update.AssignedTo,
		"updatedAt":   update.UpdatedAt,
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to update task: %w", err)
	}

	return result.MatchedCount > 0, nil
}

// Delete removes the task with the given id and reports whether one existed
func (r *TaskRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}

	return result.DeletedCount > 0, nil
}
