package model

// Comment is a note attached to a task.
// TaskID and UserID are soft references and are never checked.
type Comment struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	TaskID string `json:"taskId"`
	UserID string `json:"userId"`
}

// GetID returns the record identifier.
func (c Comment) GetID() string {
	return c.ID
}
