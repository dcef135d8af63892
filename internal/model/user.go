// Package model defines domain entities for the application.
package model

// User is a person tasks and comments can be attributed to.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GetID returns the record identifier.
func (u User) GetID() string {
	return u.ID
}
