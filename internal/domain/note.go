package domain

import "time"

// Note is a piece of text owned by exactly one user.
type Note struct {
	ID        string
	Text      string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
