package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/taskmesh/taskmesh/internal/metrics"
	"github.com/taskmesh/taskmesh/internal/model"
	"github.com/taskmesh/taskmesh/internal/store"
)

const usersResource = "users"

// UserService handles user business logic.
type UserService struct {
	store   *store.Memory[model.User]
	metrics metrics.Recorder
}

// NewUserService creates a new UserService backed by s.
func NewUserService(s *store.Memory[model.User], recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:   s,
		metrics: recorder,
	}
}

// UserInput carries the fields accepted on create and on full replace.
type UserInput struct {
	Name  string
	Email string
}

func (in UserInput) normalize() (UserInput, error) {
	out := UserInput{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
	}
	if err := requireField("name", out.Name); err != nil {
		return out, err
	}
	if err := requireField("email", out.Email); err != nil {
		return out, err
	}
	return out, nil
}

// ListUsers returns every user in creation order.
func (s *UserService) ListUsers(ctx context.Context) []model.User {
	return s.store.List()
}

// CreateUser validates input and appends a new user.
func (s *UserService) CreateUser(ctx context.Context, input UserInput) (*model.User, error) {
	in, err := input.normalize()
	if err != nil {
		return nil, err
	}

	user := model.User{
		ID:    uuid.NewString(),
		Name:  in.Name,
		Email: in.Email,
	}
	s.store.Append(user)
	s.metrics.IncRecordCreated(usersResource)

	return &user, nil
}

// ReplaceUser overwrites name and email of an existing user.
// An unknown id is reported before any validation error.
func (s *UserService) ReplaceUser(ctx context.Context, id string, input UserInput) (*model.User, error) {
	updated, err := s.store.Update(id, func(cur model.User) (model.User, error) {
		in, err := input.normalize()
		if err != nil {
			return cur, err
		}
		cur.Name = in.Name
		cur.Email = in.Email
		return cur, nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.metrics.IncRecordUpdated(usersResource)
	return &updated, nil
}

// DeleteUser removes a user and returns it.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	removed, err := s.store.Remove(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.metrics.IncRecordDeleted(usersResource)
	return &removed, nil
}

// ClearUsers drops every user. It always succeeds.
func (s *UserService) ClearUsers(ctx context.Context) int {
	n := s.store.Clear()
	s.metrics.IncStoreCleared(usersResource)
	return n
}
