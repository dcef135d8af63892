package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskmesh/taskmesh/internal/metrics"
	"github.com/taskmesh/taskmesh/internal/model"
	"github.com/taskmesh/taskmesh/internal/store"
)

const tasksResource = "tasks"

// TaskService handles task business logic.
type TaskService struct {
	store   *store.Memory[model.Task]
	metrics metrics.Recorder
	now     func() time.Time
}

// NewTaskService creates a new TaskService backed by s.
func NewTaskService(s *store.Memory[model.Task], recorder metrics.Recorder) *TaskService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TaskService{
		store:   s,
		metrics: recorder,
		now:     time.Now,
	}
}

// CreateTaskInput defines input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	UserID      string
	Priority    model.Priority
	DueDate     string
	Completed   bool
	CreatedAt   *time.Time
}

// UpdateTaskInput defines a partial update. Nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	UserID      *string
	Priority    *model.Priority
	DueDate     *string
	Completed   *bool
}

// ListTasks returns every task in creation order.
func (s *TaskService) ListTasks(ctx context.Context) []model.Task {
	return s.store.List()
}

// CreateTask validates input and appends a new task.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	userID := strings.TrimSpace(input.UserID)

	if err := requireField("title", title); err != nil {
		return nil, err
	}
	if err := requireField("userId", userID); err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = model.DefaultPriority
	}

	createdAt := s.now().UTC()
	if input.CreatedAt != nil {
		createdAt = input.CreatedAt.UTC()
	}

	task := model.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: input.Description,
		UserID:      userID,
		Priority:    priority,
		DueDate:     input.DueDate,
		Completed:   input.Completed,
		CreatedAt:   createdAt,
	}
	s.store.Append(task)
	s.metrics.IncRecordCreated(tasksResource)

	return &task, nil
}

// UpdateTask merges the supplied fields onto an existing task.
// The id and creation time never change.
func (s *TaskService) UpdateTask(ctx context.Context, id string, input UpdateTaskInput) (*model.Task, error) {
	updated, err := s.store.Update(id, func(cur model.Task) (model.Task, error) {
		return mergeTask(cur, input)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	s.metrics.IncRecordUpdated(tasksResource)
	return &updated, nil
}

func mergeTask(cur model.Task, input UpdateTaskInput) (model.Task, error) {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if err := requireField("title", title); err != nil {
			return cur, err
		}
		cur.Title = title
	}
	if input.UserID != nil {
		userID := strings.TrimSpace(*input.UserID)
		if err := requireField("userId", userID); err != nil {
			return cur, err
		}
		cur.UserID = userID
	}
	if input.Description != nil {
		cur.Description = *input.Description
	}
	if input.Priority != nil {
		cur.Priority = *input.Priority
		if cur.Priority == "" {
			cur.Priority = model.DefaultPriority
		}
	}
	if input.DueDate != nil {
		cur.DueDate = *input.DueDate
	}
	if input.Completed != nil {
		cur.Completed = *input.Completed
	}
	return cur, nil
}

// DeleteTask removes a task and returns it.
func (s *TaskService) DeleteTask(ctx context.Context, id string) (*model.Task, error) {
	removed, err := s.store.Remove(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	s.metrics.IncRecordDeleted(tasksResource)
	return &removed, nil
}

// ClearTasks drops every task. It always succeeds.
func (s *TaskService) ClearTasks(ctx context.Context) int {
	n := s.store.Clear()
	s.metrics.IncStoreCleared(tasksResource)
	return n
}
