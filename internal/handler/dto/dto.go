// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/taskmesh/taskmesh/internal/model"
)

// UserRequest is the body of POST /users and PUT /users/{id}.
type UserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	UserID      string         `json:"userId"`
	Priority    model.Priority `json:"priority"`
	DueDate     string         `json:"dueDate"`
	Completed   bool           `json:"completed"`
	CreatedAt   *time.Time     `json:"createdAt,omitempty"`
}

// UpdateTaskRequest is the body of PUT /tasks/{id}. Absent fields are kept.
type UpdateTaskRequest struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	UserID      *string         `json:"userId,omitempty"`
	Priority    *model.Priority `json:"priority,omitempty"`
	DueDate     *string         `json:"dueDate,omitempty"`
	Completed   *bool           `json:"completed,omitempty"`
}

// CreateCommentRequest is the body of POST /comments.
type CreateCommentRequest struct {
	Text   string `json:"text"`
	TaskID string `json:"taskId"`
	UserID string `json:"userId,omitempty"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserDeletedResponse is returned by DELETE /users/{id}.
type UserDeletedResponse struct {
	Message string     `json:"message"`
	User    model.User `json:"user"`
}

// TaskDeletedResponse is returned by DELETE /tasks/{id}.
type TaskDeletedResponse struct {
	Message string     `json:"message"`
	Task    model.Task `json:"task"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// ResetFailedResponse is returned when a reset could not be dispatched.
type ResetFailedResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}
