package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/api/internal/application/services"
	"github.com/taskboard/api/internal/domain/entities"
	"github.com/taskboard/api/internal/infrastructure/logger"
	"github.com/taskboard/api/internal/ports"
)

// UserHandler validates and persists user CRUD requests and delegates login
// to the auth service.
type UserHandler struct {
	users  ports.UserRepository
	auth   *services.AuthService
	logger *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users ports.UserRepository, auth *services.AuthService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		auth:   auth,
		logger: log.WithComponent("users"),
	}
}

type createUserPayload struct {
	User *struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

type updateUserPayload struct {
	User *struct {
		ID    *string `json:"id"`
		Name  string  `json:"name"`
		Email string  `json:"email"`
	} `json:"user"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Create persists a new user with a hashed password. Creating a user requires
// an existing valid credential; the first user is created out-of-band with
// the `user create` command.
func (h *UserHandler) Create(ctx context.Context, req Request) Response {
	if resp, authed := requireAuth(h.auth, h.logger, req); !authed {
		return resp
	}

	if req.Body == "" {
		return messageResponse(http.StatusBadRequest, "Body is required")
	}

	var payload createUserPayload
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		return messageResponse(http.StatusBadRequest, "Invalid request body")
	}

	if payload.User == nil || payload.User.Email == "" || payload.User.Password == "" {
		return messageResponse(http.StatusBadRequest, "Email and password are required")
	}

	hashed, err := h.auth.HashPassword(payload.User.Password)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash password")
		return storageErrorResponse("Error creating user", err)
	}

	now := entities.Timestamp(time.Now())
	user := entities.User{
		ID:        uuid.New().String(),
		Name:      payload.User.Name,
		Email:     payload.User.Email,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.users.Insert(ctx, user); err != nil {
		h.logger.WithError(err).Error("Failed to create user")
		return storageErrorResponse("Error creating user", err)
	}

	h.logger.Infow("User created", "user_id", user.ID)
	return BuildResponse(http.StatusCreated, map[string]string{
		"message": "User created",
		"id":      user.ID,
	})
}

// List returns all users with the password field stripped
func (h *UserHandler) List(ctx context.Context, req Request) Response {
	if resp, authed := requireAuth(h.auth, h.logger, req); !authed {
		return resp
	}

	users, err := h.users.FindAll(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch users")
		return storageErrorResponse("Error fetching users", err)
	}

	return BuildResponse(http.StatusOK, users)
}

// Update overwrites name, email and updatedAt of the addressed user
func (h *UserHandler) Update(ctx context.Context, req Request) Response {
	if resp, authed := requireAuth(h.auth, h.logger, req); !authed {
		return resp
	}

	var payload updateUserPayload
	if req.Body == "" || json.Unmarshal([]byte(req.Body), &payload) != nil || payload.User == nil {
		return messageResponse(http.StatusBadRequest, "User data is required")
	}

	if payload.User.ID == nil {
		return messageResponse(http.StatusBadRequest, "Missing required fields: id")
	}

	id := strings.TrimSpace(*payload.User.ID)
	if id == "" {
		return messageResponse(http.StatusBadRequest, "Invalid id. It must be a non-empty string.")
	}

	update := ports.UserUpdate{
		Name:      payload.User.Name,
		Email:     payload.User.Email,
		UpdatedAt: entities.Timestamp(time.Now()),
	}

	modified, err := h.users.Update(ctx, id, update)
	if err != nil {
		h.logger.WithError(err).Error("Failed to update user")
		return storageErrorResponse("Error updating user", err)
	}
	if !modified {
		return messageResponse(http.StatusNotFound, "User not found")
	}

	return messageResponse(http.StatusOK, "User updated")
}

// Delete removes the user named by the id query parameter
func (h *UserHandler) Delete(ctx context.Context, req Request) Response {
	if resp, authed := requireAuth(h.auth, h.logger, req); !authed {
		return resp
	}

	id, ok := req.QueryStringParameters["id"]
	if !ok {
		return messageResponse(http.StatusBadRequest, "Missing required query parameter: id")
	}

	deleted, err := h.users.Delete(ctx, id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to delete user")
		return storageErrorResponse("Error deleting user", err)
	}
	if !deleted {
		return messageResponse(http.StatusNotFound, "User not found")
	}

	return messageResponse(http.StatusOK, "User deleted")
}

// Login authenticates by email and password and issues the session cookie.
// This is the only route that is not auth-gated. The credential travels only
// in the Set-Cookie header, never in the body.
func (h *UserHandler) Login(ctx context.Context, req Request) Response {
	var payload loginPayload
	if req.Body != "" {
		if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
			return messageResponse(http.StatusBadRequest, "Invalid request body")
		}
	}

	if payload.Email == "" || payload.Password == "" {
		return messageResponse(http.StatusBadRequest, "Email and password are required")
	}

	user, err := h.users.FindByEmail(ctx, payload.Email)
	if errors.Is(err, entities.ErrUserNotFound) {
		h.logger.LogSecurityEvent("login_unknown_email", payload.Email)
		return messageResponse(http.StatusUnauthorized, "User not found email is incorrect")
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to look up user for login")
		return storageErrorResponse("Error during login", err)
	}

	if !h.auth.CheckPassword(user.Password, payload.Password) {
		h.logger.LogSecurityEvent("login_invalid_password", user.ID)
		return messageResponse(http.StatusUnauthorized, "Invalid password")
	}

	token, err := h.auth.IssueToken(user.ID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue token")
		return storageErrorResponse("Error during login", err)
	}

	h.logger.Infow("User logged in", "user_id", user.ID)
	headers := map[string]string{
		"Set-Cookie": fmt.Sprintf("token=%s; Path=/; Max-Age=3600; HttpOnly; Secure; SameSite=None", token),
	}
	return BuildResponseWithHeaders(http.StatusOK, map[string]string{"message": "Login successful"}, headers)
}
