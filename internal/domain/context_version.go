package domain

import "time"

// ContextVersion is a named snapshot of a project's context descriptors,
// kept so earlier creative directions stay recoverable.
type ContextVersion struct {
	ID          string
	ProjectID   string
	Name        string
	Description string
	Fields      ContextFields
	Context     string
	CreatedAt   time.Time
}
