package model

import "time"

// Priority is the relative urgency of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DefaultPriority is assigned when a task is created without one.
const DefaultPriority = PriorityMedium

// Task is a unit of work assigned to a user.
// UserID is a soft reference: the user may not exist.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      string    `json:"userId"`
	Priority    Priority  `json:"priority"`
	DueDate     string    `json:"dueDate"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GetID returns the record identifier.
func (t Task) GetID() string {
	return t.ID
}
