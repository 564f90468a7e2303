package domain

import "time"

// Project scopes tickets and role assignments.
type Project struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
