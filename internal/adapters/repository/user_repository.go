package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskboard/api/internal/domain/entities"
	"github.com/taskboard/api/internal/infrastructure/database"
	"github.com/taskboard/api/internal/ports"
)

// UserRepository is the Mongo-backed implementation of ports.UserRepository
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{collection: db.Collection("users")}
}

// FindAll returns every user with the storage identifier and the password
// hash stripped at the projection level.
func (r *UserRepository) FindAll(ctx context.Context) ([]entities.User, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 0, "password": 0})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []entities.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

// FindByEmail looks a user up by email. The password hash is included; the
// result is only ever used for credential checks, never serialized.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User

	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entities.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return &user, nil
}

// Insert stores a new user document
func (r *UserRepository) Insert(ctx context.Context, user entities.User) error {
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// Update overwrites name, email and updatedAt of the user with the given id.
// It reports whether a document was modified.
func (r *UserRepository) Update(ctx context.Context, id string, update ports.UserUpdate) (bool, error) {
	set := bson.M{
		"name":      update.Name,
		"email":     update.Email,
		"updatedAt": update.UpdatedAt,
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to update user: %w", err)
	}

	return result.ModifiedCount > 0, nil
}

// Delete removes the user with the given id and reports whether one existed
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}

	return result.DeletedCount > 0, nil
}
