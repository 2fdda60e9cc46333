package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/taskboard/api/internal/application/services"
	"github.com/taskboard/api/internal/domain/entities"
	"github.com/taskboard/api/internal/infrastructure/config"
	"github.com/taskboard/api/internal/infrastructure/logger"
	"github.com/taskboard/api/internal/ports"
)

// errStorage simulates a persistence-layer failure.
var errStorage = errors.New("connection reset by peer")

// fakeTaskRepo is an in-memory stand-in for the task persistence collaborator.
// It records every call so tests can assert that no persistence happens on
// auth or validation failures.
type fakeTaskRepo struct {
	tasks    []entities.Task
	inserted []entities.Task
	updated  map[string]ports.TaskUpdate
	deleted  []string

	matched    bool
	deletedOne bool
	err        error

	calls int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{updated: map[string]ports.TaskUpdate{}}
}

func (f *fakeTaskRepo) FindAll(ctx context.Context) ([]entities.Task, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.tasks, nil
}

func (f *fakeTaskRepo) Insert(ctx context.Context, task entities.Task) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, task)
	return nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, id string, update ports.TaskUpdate) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	f.updated[id] = update
	return f.matched, nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	f.deleted = append(f.deleted, id)
	return f.deletedOne, nil
}

// fakeUserRepo is the user-side counterpart of fakeTaskRepo.
type fakeUserRepo struct {
	users    []entities.User
	byEmail  map[string]*entities.User
	inserted []entities.User
	updated  map[string]ports.UserUpdate
	deleted  []string

	modified   bool
	deletedOne bool
	err        error

	calls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: map[string]*entities.User{},
		updated: map[string]ports.UserUpdate{},
	}
}

func (f *fakeUserRepo) FindAll(ctx context.Context) ([]entities.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.byEmail[email]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) Insert(ctx context.Context, user entities.User) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, user)
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id string, update ports.UserUpdate) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	f.updated[id] = update
	return f.modified, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	f.deleted = append(f.deleted, id)
	return f.deletedOne, nil
}

func newTestAuth() *services.AuthService {
	return services.NewAuthService(config.JWTConfig{
		Secret:    "gateway-test-secret",
		ExpiresIn: time.Hour,
	}, logger.NewNop())
}

// authedHeaders returns a Headers map carrying a valid session cookie.
func authedHeaders(t *testing.T, auth *services.AuthService) map[string]string {
	t.Helper()

	token, err := auth.IssueToken("user-1")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	return map[string]string{"Cookie": "token=" + token}
}

// decodeMessage unpacks a JSON body into its string fields.
func decodeMessage(t *testing.T, body string) map[string]string {
	t.Helper()

	decoded := map[string]string{}
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		t.Fatalf("response body is not a JSON object: %v (body %q)", err, body)
	}
	return decoded
}
